package usecases

import (
	"context"
	"fmt"

	"sentra/internal/application/issue/dto"
	"sentra/internal/domain/issue"
	vo "sentra/internal/domain/issue/valueobjects"
	"sentra/internal/shared/errors"
	"sentra/internal/shared/logger"
)

type ListCommentsQuery struct {
	IssueID  uint
	Page     int
	PageSize int
	UserID   uint
	UserType vo.UserType
}

type ListCommentsResult struct {
	Comments []dto.CommentDTO
	Total    int64
	Page     int
	PageSize int
}

// ListCommentsUseCase returns one newest-first page of an issue's thread.
// A page past the end of the thread returns an empty list, not an error;
// clients treat a short or empty page as the end of history.
type ListCommentsUseCase struct {
	issueRepo   issue.IssueRepository
	commentRepo issue.CommentRepository
	markdown    MarkdownRenderer
	logger      logger.Interface
}

func NewListCommentsUseCase(
	issueRepo issue.IssueRepository,
	commentRepo issue.CommentRepository,
	markdown MarkdownRenderer,
	logger logger.Interface,
) *ListCommentsUseCase {
	return &ListCommentsUseCase{
		issueRepo:   issueRepo,
		commentRepo: commentRepo,
		markdown:    markdown,
		logger:      logger,
	}
}

func (uc *ListCommentsUseCase) Execute(ctx context.Context, query ListCommentsQuery) (*ListCommentsResult, error) {
	i, err := uc.issueRepo.GetByID(ctx, query.IssueID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to load issue", "issue_id", query.IssueID, "error", err)
		return nil, fmt.Errorf("failed to load issue: %w", err)
	}

	if !i.CanBeViewedBy(query.UserID, query.UserType) {
		uc.logger.Warnw("user cannot view issue thread", "issue_id", query.IssueID, "user_id", query.UserID)
		return nil, errors.NewForbiddenError("cannot view this issue")
	}

	comments, total, err := uc.commentRepo.GetPageByIssueID(ctx, query.IssueID, query.Page, query.PageSize)
	if err != nil {
		uc.logger.Errorw("failed to load comment page",
			"issue_id", query.IssueID,
			"page", query.Page,
			"error", err)
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	items := make([]dto.CommentDTO, len(comments))
	for idx, c := range comments {
		contentHTML, err := uc.markdown.ToHTML(c.Content())
		if err != nil {
			uc.logger.Warnw("failed to render comment markdown", "comment_id", c.ID(), "error", err)
			contentHTML = ""
		}
		items[idx] = dto.ToCommentDTO(c, contentHTML)
	}

	return &ListCommentsResult{
		Comments: items,
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, nil
}
