package issue

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "sentra/internal/domain/issue/valueobjects"
)

func validAuthor() Author {
	return Author{
		UserID:      2,
		UserType:    vo.UserTypeEngineer,
		DisplayName: "K. Adeyemi",
		AvatarRef:   "avatars/2.png",
	}
}

func TestNewComment(t *testing.T) {
	tests := []struct {
		name    string
		issueID uint
		author  Author
		content string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid comment",
			issueID: 1,
			author:  validAuthor(),
			content: "Replaced the guard rail, please confirm",
		},
		{
			name:    "zero issue ID",
			issueID: 0,
			author:  validAuthor(),
			content: "test",
			wantErr: true,
			errMsg:  "issue ID is required",
		},
		{
			name:    "zero author user ID",
			issueID: 1,
			author:  Author{UserType: vo.UserTypeEmployee},
			content: "test",
			wantErr: true,
			errMsg:  "author user ID is required",
		},
		{
			name:    "invalid author type",
			issueID: 1,
			author:  Author{UserID: 2, UserType: vo.UserType("contractor")},
			content: "test",
			wantErr: true,
			errMsg:  "invalid author user type",
		},
		{
			name:    "empty content",
			issueID: 1,
			author:  validAuthor(),
			content: "",
			wantErr: true,
			errMsg:  "content cannot be empty",
		},
		{
			name:    "content too long",
			issueID: 1,
			author:  validAuthor(),
			content: strings.Repeat("x", 5001),
			wantErr: true,
			errMsg:  "content exceeds maximum length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewComment(tt.issueID, tt.author, tt.content)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.issueID, c.IssueID())
			assert.Equal(t, tt.content, c.Content())
			assert.False(t, c.CreatedAt().IsZero())
			assert.Equal(t, time.UTC, c.CreatedAt().Location())
		})
	}
}

func TestCommentSetID(t *testing.T) {
	c, err := NewComment(1, validAuthor(), "checking in")
	require.NoError(t, err)

	require.NoError(t, c.SetID(100))
	assert.Equal(t, uint(100), c.ID())
	assert.Error(t, c.SetID(101), "ID can be set only once")
}

func TestReconstructComment(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	c, err := ReconstructComment(7, 42, validAuthor(), "torque checked", created)
	require.NoError(t, err)
	assert.Equal(t, uint(7), c.ID())
	assert.Equal(t, created, c.CreatedAt())

	_, err = ReconstructComment(0, 42, validAuthor(), "bad", created)
	require.Error(t, err)
}
