package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(id uint, createdAt int64) Comment {
	return Comment{
		ID:        id,
		IssueID:   1,
		UserID:    1,
		Content:   "comment",
		CreatedAt: createdAt,
	}
}

func TestMerge_UnionByID(t *testing.T) {
	existing := []Comment{c(1, 100), c(2, 200)}
	incoming := []Comment{c(2, 200), c(3, 300)}

	merged := Merge(existing, incoming)

	require.Len(t, merged, 3)
	assert.Equal(t, uint(1), merged[0].ID)
	assert.Equal(t, uint(2), merged[1].ID)
	assert.Equal(t, uint(3), merged[2].ID)
}

func TestMerge_IsIdempotent(t *testing.T) {
	existing := []Comment{c(3, 300), c(1, 100)}
	incoming := []Comment{c(2, 200), c(1, 100)}

	once := Merge(existing, incoming)
	twice := Merge(once, incoming)

	assert.Equal(t, once, twice)
}

func TestMerge_IncomingWinsOnConflict(t *testing.T) {
	// A corrected timestamp marks a genuinely newer copy.
	stale := c(1, 100)
	stale.Content = "stale"
	fresh := c(1, 150)
	fresh.Content = "fresh"
	fresh.ContentHTML = "<p>fresh</p>"

	merged := Merge([]Comment{stale}, []Comment{fresh})

	require.Len(t, merged, 1)
	assert.Equal(t, "fresh", merged[0].Content)
	assert.Equal(t, "<p>fresh</p>", merged[0].ContentHTML)
}

func TestMerge_KeepsExistingWhenTimestampsMatch(t *testing.T) {
	held := c(2, 200)
	held.ContentHTML = "<p>rendered</p>"
	bare := c(2, 200)

	merged := Merge([]Comment{held}, []Comment{bare})

	require.Len(t, merged, 1)
	assert.Equal(t, "<p>rendered</p>", merged[0].ContentHTML)
}

func TestMerge_OrdersByCreatedAtThenID(t *testing.T) {
	// Two comments share a timestamp; the ID breaks the tie.
	merged := Merge(
		[]Comment{c(5, 200), c(2, 100)},
		[]Comment{c(4, 200), c(9, 50)},
	)

	require.Len(t, merged, 4)
	assert.Equal(t, uint(9), merged[0].ID)
	assert.Equal(t, uint(2), merged[1].ID)
	assert.Equal(t, uint(4), merged[2].ID)
	assert.Equal(t, uint(5), merged[3].ID)
}

func TestMerge_NoDuplicateIDs(t *testing.T) {
	// Simulates a push racing a page fetch: both deliver comment 7.
	pushed := c(7, 700)
	page := []Comment{c(7, 700), c(6, 600), c(5, 500)}

	merged := Merge([]Comment{pushed}, page)

	seen := make(map[uint]bool)
	for _, cm := range merged {
		assert.False(t, seen[cm.ID], "duplicate id %d", cm.ID)
		seen[cm.ID] = true
	}
	assert.Len(t, merged, 3)
}

func TestMerge_EmptyInputs(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))
	assert.Len(t, Merge([]Comment{c(1, 100)}, nil), 1)
	assert.Len(t, Merge(nil, []Comment{c(1, 100)}), 1)
}
