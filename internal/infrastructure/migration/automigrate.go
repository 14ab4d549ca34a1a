package migration

import (
	"sentra/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.IssueModel{},
		&models.CommentModel{},
	}
}
