package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentra/internal/domain/issue"
	vo "sentra/internal/domain/issue/valueobjects"
)

func testIssue(t *testing.T, id, reporterID uint, status vo.IssueStatus) *issue.Issue {
	t.Helper()
	i, err := issue.ReconstructIssue(
		id,
		"Broken guard rail on line 2",
		"The guard rail near the press is loose",
		"Hall B",
		"",
		status,
		reporterID,
		nil,
		1,
		time.Now().Add(-time.Hour),
		time.Now().Add(-time.Hour),
		nil,
	)
	require.NoError(t, err)
	return i
}

func TestAddCommentUseCase_Execute_Success(t *testing.T) {
	tests := []struct {
		name     string
		userID   uint
		userType vo.UserType
	}{
		{
			name:     "reporter comments on own issue",
			userID:   10,
			userType: vo.UserTypeEmployee,
		},
		{
			name:     "engineer comments on any issue",
			userID:   99,
			userType: vo.UserTypeEngineer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := testIssue(t, 1, 10, vo.StatusPending)

			mockIssueRepo := &mockIssueRepository{
				GetByIDFunc: func(ctx context.Context, id uint) (*issue.Issue, error) {
					return existing, nil
				},
			}

			var savedComment *issue.Comment
			mockCommentRepo := &mockCommentRepository{
				SaveFunc: func(ctx context.Context, comment *issue.Comment) error {
					if err := comment.SetID(100); err != nil {
						return err
					}
					savedComment = comment
					return nil
				},
			}

			notifier := &mockThreadNotifier{}
			useCase := NewAddCommentUseCase(
				mockIssueRepo, mockCommentRepo, &mockTxRunner{},
				&mockMarkdownRenderer{}, notifier, &mockLogger{},
			)

			result, err := useCase.Execute(context.Background(), AddCommentCommand{
				IssueID:     1,
				UserID:      tt.userID,
				UserType:    tt.userType,
				DisplayName: "Test User",
				Content:     "I checked the rail, **still loose**",
			})

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, uint(100), result.Comment.ID)
			assert.Equal(t, uint(1), result.Comment.IssueID)
			assert.Equal(t, tt.userID, result.Comment.UserID)
			assert.NotZero(t, result.Comment.CreatedAt)
			assert.Contains(t, result.Comment.ContentHTML, "still loose")
			require.NotNil(t, savedComment)

			// every successful post reaches the push channel exactly once
			require.Len(t, notifier.CommentEvents, 1)
			assert.Equal(t, result.Comment, notifier.CommentEvents[0])
		})
	}
}

func TestAddCommentUseCase_Execute_EmployeeCannotCommentOnOthersIssue(t *testing.T) {
	existing := testIssue(t, 1, 10, vo.StatusPending)

	mockIssueRepo := &mockIssueRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*issue.Issue, error) {
			return existing, nil
		},
	}

	notifier := &mockThreadNotifier{}
	useCase := NewAddCommentUseCase(
		mockIssueRepo, &mockCommentRepository{}, &mockTxRunner{},
		&mockMarkdownRenderer{}, notifier, &mockLogger{},
	)

	result, err := useCase.Execute(context.Background(), AddCommentCommand{
		IssueID:     1,
		UserID:      99,
		UserType:    vo.UserTypeEmployee,
		DisplayName: "Other Employee",
		Content:     "unauthorized comment",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, notifier.CommentEvents)
}

func TestAddCommentUseCase_Execute_IssueNotFound(t *testing.T) {
	mockIssueRepo := &mockIssueRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*issue.Issue, error) {
			return nil, errors.New("issue not found")
		},
	}

	useCase := NewAddCommentUseCase(
		mockIssueRepo, &mockCommentRepository{}, &mockTxRunner{},
		&mockMarkdownRenderer{}, &mockThreadNotifier{}, &mockLogger{},
	)

	result, err := useCase.Execute(context.Background(), AddCommentCommand{
		IssueID:     1,
		UserID:      10,
		UserType:    vo.UserTypeEmployee,
		DisplayName: "Test User",
		Content:     "comment",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to load issue")
}

func TestAddCommentUseCase_Execute_EmptyContentRejected(t *testing.T) {
	existing := testIssue(t, 1, 10, vo.StatusPending)

	mockIssueRepo := &mockIssueRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*issue.Issue, error) {
			return existing, nil
		},
	}

	useCase := NewAddCommentUseCase(
		mockIssueRepo, &mockCommentRepository{}, &mockTxRunner{},
		&mockMarkdownRenderer{}, &mockThreadNotifier{}, &mockLogger{},
	)

	result, err := useCase.Execute(context.Background(), AddCommentCommand{
		IssueID:     1,
		UserID:      10,
		UserType:    vo.UserTypeEmployee,
		DisplayName: "Test User",
		Content:     "",
	})

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestAddCommentUseCase_Execute_SaveFailedNothingPushed(t *testing.T) {
	existing := testIssue(t, 1, 10, vo.StatusPending)

	mockIssueRepo := &mockIssueRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*issue.Issue, error) {
			return existing, nil
		},
	}

	mockCommentRepo := &mockCommentRepository{
		SaveFunc: func(ctx context.Context, comment *issue.Comment) error {
			return errors.New("database error")
		},
	}

	notifier := &mockThreadNotifier{}
	useCase := NewAddCommentUseCase(
		mockIssueRepo, mockCommentRepo, &mockTxRunner{},
		&mockMarkdownRenderer{}, notifier, &mockLogger{},
	)

	result, err := useCase.Execute(context.Background(), AddCommentCommand{
		IssueID:     1,
		UserID:      10,
		UserType:    vo.UserTypeEmployee,
		DisplayName: "Test User",
		Content:     "comment",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to save comment")
	assert.Empty(t, notifier.CommentEvents)
}

func TestAddCommentUseCase_Execute_MarkdownFailureDegradesGracefully(t *testing.T) {
	existing := testIssue(t, 1, 10, vo.StatusPending)

	mockIssueRepo := &mockIssueRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*issue.Issue, error) {
			return existing, nil
		},
	}

	mockCommentRepo := &mockCommentRepository{
		SaveFunc: func(ctx context.Context, comment *issue.Comment) error {
			return comment.SetID(100)
		},
	}

	renderer := &mockMarkdownRenderer{
		ToHTMLFunc: func(source string) (string, error) {
			return "", errors.New("render failed")
		},
	}

	useCase := NewAddCommentUseCase(
		mockIssueRepo, mockCommentRepo, &mockTxRunner{},
		renderer, &mockThreadNotifier{}, &mockLogger{},
	)

	result, err := useCase.Execute(context.Background(), AddCommentCommand{
		IssueID:     1,
		UserID:      10,
		UserType:    vo.UserTypeEmployee,
		DisplayName: "Test User",
		Content:     "plain comment",
	})

	require.NoError(t, err)
	assert.Equal(t, "plain comment", result.Comment.Content)
	assert.Empty(t, result.Comment.ContentHTML)
}
