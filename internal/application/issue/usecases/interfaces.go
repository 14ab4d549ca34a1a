package usecases

import (
	"context"

	"sentra/internal/application/issue/dto"
)

type CreateIssueExecutor interface {
	Execute(ctx context.Context, cmd CreateIssueCommand) (*CreateIssueResult, error)
}

type GetIssueExecutor interface {
	Execute(ctx context.Context, query GetIssueQuery) (*dto.IssueDTO, error)
}

type ListIssuesExecutor interface {
	Execute(ctx context.Context, query ListIssuesQuery) (*ListIssuesResult, error)
}

type AddCommentExecutor interface {
	Execute(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error)
}

type ListCommentsExecutor interface {
	Execute(ctx context.Context, query ListCommentsQuery) (*ListCommentsResult, error)
}

type UpdateStatusExecutor interface {
	Execute(ctx context.Context, cmd UpdateStatusCommand) (*UpdateStatusResult, error)
}

// TransactionRunner runs a function within a database transaction.
// Satisfied by db.TransactionManager.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MarkdownRenderer derives sanitized HTML from raw comment markdown.
type MarkdownRenderer interface {
	ToHTML(source string) (string, error)
}

// ThreadNotifier pushes thread events to connected subscribers, both on this
// instance and, through the event bus, on every other instance. Delivery is
// at-least-once and best-effort; failures are logged, never returned to the
// request path.
type ThreadNotifier interface {
	NotifyCommentAdded(ctx context.Context, comment dto.CommentDTO)
	NotifyStatusChanged(ctx context.Context, issueID uint, status string, updatedBy uint, resolvedAt *int64)
}

// NotificationService delivers out-of-band notifications such as resolution
// emails.
type NotificationService interface {
	NotifyIssueResolved(ctx context.Context, issueID uint, issueTitle string) error
}
