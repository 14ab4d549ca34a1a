package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sentra/internal/domain/issue"
	"sentra/internal/infrastructure/persistence/mappers"
	"sentra/internal/infrastructure/persistence/models"
	db "sentra/internal/shared/db"
)

type CommentRepository struct {
	db     *gorm.DB
	mapper mappers.IssueMapper
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{
		db:     db,
		mapper: mappers.NewIssueMapper(),
	}
}

func (r *CommentRepository) Save(ctx context.Context, c *issue.Comment) error {
	model := r.mapper.CommentToModel(c)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}

	if err := c.SetID(model.ID); err != nil {
		return err
	}

	return nil
}

// GetPageByIssueID returns one page of a thread, newest first. Ties on
// created_at break on id so paging is stable while new comments arrive.
func (r *CommentRepository) GetPageByIssueID(
	ctx context.Context,
	issueID uint,
	page, pageSize int,
) ([]*issue.Comment, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.CommentModel{}).Where("issue_id = ?", issueID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	offset := (page - 1) * pageSize

	var commentModels []models.CommentModel
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&commentModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load comment page: %w", err)
	}

	comments, err := r.toDomainSlice(commentModels)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *CommentRepository) GetByIssueID(ctx context.Context, issueID uint) ([]*issue.Comment, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var commentModels []models.CommentModel
	if err := tx.
		Where("issue_id = ?", issueID).
		Order("created_at ASC, id ASC").
		Find(&commentModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	return r.toDomainSlice(commentModels)
}

func (r *CommentRepository) toDomainSlice(commentModels []models.CommentModel) ([]*issue.Comment, error) {
	comments := make([]*issue.Comment, len(commentModels))
	for i, model := range commentModels {
		c, err := r.mapper.CommentToDomain(&model)
		if err != nil {
			return nil, err
		}
		comments[i] = c
	}
	return comments, nil
}
