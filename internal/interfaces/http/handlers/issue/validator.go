package issue

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	vo "sentra/internal/domain/issue/valueobjects"
)

// Rejecting unknown statuses at bind time keeps the handler's error paths
// uniform with the other field validations.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("issuestatus", func(fl validator.FieldLevel) bool {
			_, ok := vo.ParseStatus(fl.Field().String())
			return ok
		})
	}
}
