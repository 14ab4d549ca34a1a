package issue

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "sentra/internal/domain/issue/valueobjects"
)

// newValidIssue creates an issue with sensible defaults for testing.
func newValidIssue(t *testing.T) *Issue {
	t.Helper()
	is, err := NewIssue("Exposed wiring", "Conduit damaged near loading dock", "Warehouse B", "Forklift impact", 10, nil)
	require.NoError(t, err)
	return is
}

func reconstructedIssue(t *testing.T, status vo.IssueStatus) *Issue {
	t.Helper()
	now := time.Now().UTC()
	is, err := ReconstructIssue(
		42,
		"Exposed wiring", "Conduit damaged near loading dock", "Warehouse B", "Forklift impact",
		status,
		10,
		[]string{"img/1.jpg"},
		1,
		now.Add(-time.Hour), now.Add(-time.Hour),
		nil,
	)
	require.NoError(t, err)
	return is
}

func TestNewIssue(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		reporterID  uint
		wantErr     bool
		errMsg      string
	}{
		{
			name:        "valid issue",
			title:       "Blocked fire exit",
			description: "Pallets stacked in front of the east exit",
			reporterID:  1,
		},
		{
			name:        "empty title",
			title:       "",
			description: "desc",
			reporterID:  1,
			wantErr:     true,
			errMsg:      "title is required",
		},
		{
			name:        "title too long",
			title:       strings.Repeat("a", 201),
			description: "desc",
			reporterID:  1,
			wantErr:     true,
			errMsg:      "title exceeds maximum length",
		},
		{
			name:        "empty description",
			title:       "Blocked fire exit",
			description: "",
			reporterID:  1,
			wantErr:     true,
			errMsg:      "description is required",
		},
		{
			name:        "zero reporter",
			title:       "Blocked fire exit",
			description: "desc",
			reporterID:  0,
			wantErr:     true,
			errMsg:      "reporter ID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, err := NewIssue(tt.title, tt.description, "", "", tt.reporterID, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, vo.StatusPending, is.Status())
			assert.Equal(t, 1, is.Version())
			assert.NotNil(t, is.Images())
		})
	}
}

func TestIssueChangeStatus(t *testing.T) {
	t.Run("pending to in_progress", func(t *testing.T) {
		is := reconstructedIssue(t, vo.StatusPending)
		require.NoError(t, is.ChangeStatus(vo.StatusInProgress, 99))
		assert.Equal(t, vo.StatusInProgress, is.Status())
		assert.Equal(t, 2, is.Version())
	})

	t.Run("resolve sets resolved time", func(t *testing.T) {
		is := reconstructedIssue(t, vo.StatusInProgress)
		require.NoError(t, is.ChangeStatus(vo.StatusResolved, 99))
		require.NotNil(t, is.ResolvedAt())
	})

	t.Run("reopen clears resolved time", func(t *testing.T) {
		is := reconstructedIssue(t, vo.StatusInProgress)
		require.NoError(t, is.ChangeStatus(vo.StatusResolved, 99))
		require.NoError(t, is.ChangeStatus(vo.StatusPending, 99))
		assert.Nil(t, is.ResolvedAt())
		assert.Equal(t, vo.StatusPending, is.Status())
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		is := reconstructedIssue(t, vo.StatusPending)
		require.NoError(t, is.ChangeStatus(vo.StatusPending, 99))
		assert.Equal(t, 1, is.Version())
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		is := reconstructedIssue(t, vo.StatusPending)
		err := is.ChangeStatus(vo.IssueStatus("archived"), 99)
		require.Error(t, err)
	})
}

func TestIssueAttachComment(t *testing.T) {
	is := reconstructedIssue(t, vo.StatusPending)

	c, err := ReconstructComment(7, is.ID(), Author{UserID: 10, UserType: vo.UserTypeEmployee, DisplayName: "R. Ortiz"}, "still leaking", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, is.AttachComment(c))
	assert.Len(t, is.Comments(), 1)

	other, err := ReconstructComment(8, 999, Author{UserID: 10, UserType: vo.UserTypeEmployee}, "wrong issue", time.Now().UTC())
	require.NoError(t, err)
	require.Error(t, is.AttachComment(other))
}

func TestIssueCanBeViewedBy(t *testing.T) {
	is := reconstructedIssue(t, vo.StatusPending)

	assert.True(t, is.CanBeViewedBy(10, vo.UserTypeEmployee), "reporter can view own issue")
	assert.False(t, is.CanBeViewedBy(11, vo.UserTypeEmployee), "other employees cannot view")
	assert.True(t, is.CanBeViewedBy(11, vo.UserTypeEngineer), "engineers view everything")
}

func TestIssueSetID(t *testing.T) {
	is := newValidIssue(t)
	require.NoError(t, is.SetID(5))
	assert.Error(t, is.SetID(6), "ID can be set only once")
}

func TestIssueEvents(t *testing.T) {
	t.Run("creation records reported event", func(t *testing.T) {
		is := newValidIssue(t)
		events := is.GetEvents()
		require.Len(t, events, 1)
		reported, ok := events[0].(IssueReportedEvent)
		require.True(t, ok)
		assert.Equal(t, "Exposed wiring", reported.Title)
		assert.Equal(t, uint(10), reported.ReporterID)
	})

	t.Run("status change records transition", func(t *testing.T) {
		is := reconstructedIssue(t, vo.StatusPending)
		is.ClearEvents()

		require.NoError(t, is.ChangeStatus(vo.StatusInProgress, 99))

		events := is.GetEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(IssueStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, "pending", changed.OldStatus)
		assert.Equal(t, "in_progress", changed.NewStatus)
		assert.Equal(t, uint(99), changed.ChangedBy)
	})

	t.Run("no-op status change records nothing", func(t *testing.T) {
		is := reconstructedIssue(t, vo.StatusPending)
		is.ClearEvents()

		require.NoError(t, is.ChangeStatus(vo.StatusPending, 99))
		assert.Empty(t, is.GetEvents())
	})

	t.Run("GetEvents drains the queue", func(t *testing.T) {
		is := newValidIssue(t)
		require.NotEmpty(t, is.GetEvents())
		assert.Empty(t, is.GetEvents())
	})
}
