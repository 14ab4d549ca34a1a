package issue

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"sentra/internal/application/issue/usecases"
	vo "sentra/internal/domain/issue/valueobjects"
	"sentra/internal/shared/errors"
)

type CreateIssueRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Description string   `json:"description" binding:"required,max=5000"`
	Location    string   `json:"location,omitempty" binding:"max=200"`
	Cause       string   `json:"cause,omitempty" binding:"max=5000"`
	Images      []string `json:"images,omitempty"`
}

func (r *CreateIssueRequest) ToCommand(reporterID uint) usecases.CreateIssueCommand {
	return usecases.CreateIssueCommand{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Cause:       r.Cause,
		ReporterID:  reporterID,
		Images:      r.Images,
	}
}

type AddCommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

type UpdateIssueRequest struct {
	Status  string `json:"status" binding:"required,issuestatus"`
	Comment string `json:"comment,omitempty" binding:"max=5000"`
}

type ListIssuesRequest struct {
	Page     int
	PageSize int
	Status   *vo.IssueStatus
}

func parseListIssuesRequest(c *gin.Context) (*ListIssuesRequest, error) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	req := &ListIssuesRequest{
		Page:     page,
		PageSize: pageSize,
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := vo.ParseStatus(raw)
		if !ok {
			return nil, errors.NewValidationError("invalid status filter")
		}
		req.Status = &status
	}

	return req, nil
}

func parseIssueID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("invalid issue ID")
	}
	return uint(id), nil
}
