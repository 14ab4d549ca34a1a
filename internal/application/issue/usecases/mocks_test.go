package usecases

import (
	"context"

	"sentra/internal/application/issue/dto"
	"sentra/internal/domain/issue"
	"sentra/internal/shared/logger"
)

type mockIssueRepository struct {
	SaveFunc    func(ctx context.Context, i *issue.Issue) error
	UpdateFunc  func(ctx context.Context, i *issue.Issue) error
	GetByIDFunc func(ctx context.Context, issueID uint) (*issue.Issue, error)
	ListFunc    func(ctx context.Context, filter issue.IssueFilter) ([]*issue.Issue, int64, error)
}

func (m *mockIssueRepository) Save(ctx context.Context, i *issue.Issue) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, i)
	}
	return nil
}

func (m *mockIssueRepository) Update(ctx context.Context, i *issue.Issue) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, i)
	}
	return nil
}

func (m *mockIssueRepository) GetByID(ctx context.Context, issueID uint) (*issue.Issue, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, issueID)
	}
	return nil, nil
}

func (m *mockIssueRepository) List(ctx context.Context, filter issue.IssueFilter) ([]*issue.Issue, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

type mockCommentRepository struct {
	SaveFunc             func(ctx context.Context, comment *issue.Comment) error
	GetPageByIssueIDFunc func(ctx context.Context, issueID uint, page, pageSize int) ([]*issue.Comment, int64, error)
	GetByIssueIDFunc     func(ctx context.Context, issueID uint) ([]*issue.Comment, error)
}

func (m *mockCommentRepository) Save(ctx context.Context, comment *issue.Comment) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, comment)
	}
	return nil
}

func (m *mockCommentRepository) GetPageByIssueID(ctx context.Context, issueID uint, page, pageSize int) ([]*issue.Comment, int64, error) {
	if m.GetPageByIssueIDFunc != nil {
		return m.GetPageByIssueIDFunc(ctx, issueID, page, pageSize)
	}
	return nil, 0, nil
}

func (m *mockCommentRepository) GetByIssueID(ctx context.Context, issueID uint) ([]*issue.Comment, error) {
	if m.GetByIssueIDFunc != nil {
		return m.GetByIssueIDFunc(ctx, issueID)
	}
	return nil, nil
}

// mockTxRunner executes the function directly without a real transaction.
type mockTxRunner struct {
	RunFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunFunc != nil {
		return m.RunFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockMarkdownRenderer struct {
	ToHTMLFunc func(source string) (string, error)
}

func (m *mockMarkdownRenderer) ToHTML(source string) (string, error) {
	if m.ToHTMLFunc != nil {
		return m.ToHTMLFunc(source)
	}
	return "<p>" + source + "</p>", nil
}

type mockThreadNotifier struct {
	CommentEvents []dto.CommentDTO
	StatusEvents  []mockStatusEvent
}

type mockStatusEvent struct {
	IssueID    uint
	Status     string
	UpdatedBy  uint
	ResolvedAt *int64
}

func (m *mockThreadNotifier) NotifyCommentAdded(ctx context.Context, comment dto.CommentDTO) {
	m.CommentEvents = append(m.CommentEvents, comment)
}

func (m *mockThreadNotifier) NotifyStatusChanged(ctx context.Context, issueID uint, status string, updatedBy uint, resolvedAt *int64) {
	m.StatusEvents = append(m.StatusEvents, mockStatusEvent{
		IssueID:    issueID,
		Status:     status,
		UpdatedBy:  updatedBy,
		ResolvedAt: resolvedAt,
	})
}

type mockNotificationService struct {
	NotifyIssueResolvedFunc func(ctx context.Context, issueID uint, issueTitle string) error
	ResolvedCalls           []uint
}

func (m *mockNotificationService) NotifyIssueResolved(ctx context.Context, issueID uint, issueTitle string) error {
	m.ResolvedCalls = append(m.ResolvedCalls, issueID)
	if m.NotifyIssueResolvedFunc != nil {
		return m.NotifyIssueResolvedFunc(ctx, issueID, issueTitle)
	}
	return nil
}

type mockAddCommentExecutor struct {
	ExecuteFunc func(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error)
	Calls       []AddCommentCommand
}

func (m *mockAddCommentExecutor) Execute(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error) {
	m.Calls = append(m.Calls, cmd)
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, cmd)
	}
	return &AddCommentResult{}, nil
}

type mockLogger struct {
	InfowFunc  func(msg string, keysAndValues ...interface{})
	ErrorwFunc func(msg string, keysAndValues ...interface{})
	WarnwFunc  func(msg string, keysAndValues ...interface{})
	DebugwFunc func(msg string, keysAndValues ...interface{})
}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any)  {}
func (m *mockLogger) Warn(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}

func (m *mockLogger) With(args ...any) logger.Interface  { return m }
func (m *mockLogger) Named(name string) logger.Interface { return m }

func (m *mockLogger) Infow(msg string, keysAndValues ...interface{}) {
	if m.InfowFunc != nil {
		m.InfowFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {
	if m.ErrorwFunc != nil {
		m.ErrorwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{}) {
	if m.WarnwFunc != nil {
		m.WarnwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {
	if m.DebugwFunc != nil {
		m.DebugwFunc(msg, keysAndValues...)
	}
}
