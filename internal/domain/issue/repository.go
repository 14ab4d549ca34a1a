package issue

import (
	"context"

	vo "sentra/internal/domain/issue/valueobjects"
)

type IssueRepository interface {
	Save(ctx context.Context, issue *Issue) error
	Update(ctx context.Context, issue *Issue) error
	GetByID(ctx context.Context, issueID uint) (*Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]*Issue, int64, error)
}

type IssueFilter struct {
	Status     *vo.IssueStatus
	ReporterID *uint
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// CommentRepository persists thread comments. GetPageByIssueID returns
// newest-first pages: page 1 holds the most recent comments, matching the
// wire convention the mobile clients paginate backwards with.
type CommentRepository interface {
	Save(ctx context.Context, comment *Comment) error
	GetPageByIssueID(ctx context.Context, issueID uint, page, pageSize int) ([]*Comment, int64, error)
	GetByIssueID(ctx context.Context, issueID uint) ([]*Comment, error)
}
