package thread

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threadServer serves a fixed five-comment thread, newest-first, two per
// page, the way the real API does.
func threadServer(t *testing.T) *httptest.Server {
	t.Helper()

	all := []Comment{c(5, 500), c(4, 400), c(3, 300), c(2, 200), c(1, 100)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /issues/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"success": true,
			"data": Issue{
				ID:     1,
				Title:  "Broken guard rail on line 2",
				Status: StatusInProgress,
			},
		})
	})
	mux.HandleFunc("GET /issues/1/comments", func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if page < 1 {
			page = 1
		}

		start := (page - 1) * limit
		items := []Comment{}
		if start < len(all) {
			end := start + limit
			if end > len(all) {
				end = len(all)
			}
			items = all[start:end]
		}

		writeJSON(w, map[string]any{
			"success": true,
			"data": listResponse{
				Items:    items,
				Total:    int64(len(all)),
				Page:     page,
				PageSize: limit,
			},
		})
	})
	mux.HandleFunc("POST /issues/1/comments", func(w http.ResponseWriter, r *http.Request) {
		posted := c(6, 600)
		all = append([]Comment{posted}, all...)
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{"success": true, "data": posted})
	})
	mux.HandleFunc("PUT /issues/1/update", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result := UpdateResult{IssueID: 1, Status: req["status"]}
		if req["status"] == StatusResolved {
			at := int64(999000)
			result.ResolvedAt = &at
			// Simulate the decoupled comment path failing after the
			// status committed.
			if req["comment"] != "" {
				result.CommentError = "comment store unavailable"
			}
		}
		writeJSON(w, map[string]any{"success": true, "data": result})
	})

	return httptest.NewServer(mux)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestView_OpenLoadsNewestPage(t *testing.T) {
	srv := threadServer(t)
	defer srv.Close()

	view := NewView(NewClient(srv.URL, "token"), nil, 1, 2)
	require.NoError(t, view.Open(context.Background()))

	status, _ := view.Store().Status()
	assert.Equal(t, StatusInProgress, status)

	comments := view.Store().Comments()
	require.Len(t, comments, 2)
	// Newest two, presented chronologically.
	assert.Equal(t, uint(4), comments[0].ID)
	assert.Equal(t, uint(5), comments[1].ID)
}

func TestView_LoadOlderTerminates(t *testing.T) {
	srv := threadServer(t)
	defer srv.Close()

	view := NewView(NewClient(srv.URL, "token"), nil, 1, 2)
	require.NoError(t, view.Open(context.Background()))

	// Walk the whole history; the loop must stop on its own.
	for i := 0; i < 10; i++ {
		more, err := view.LoadOlder(context.Background())
		require.NoError(t, err)
		if !more {
			break
		}
	}

	assert.True(t, view.Store().Complete())
	comments := view.Store().Comments()
	require.Len(t, comments, 5)
	for i, cm := range comments {
		assert.Equal(t, uint(i+1), cm.ID)
	}

	// Past the end stays a no-op.
	more, err := view.LoadOlder(context.Background())
	require.NoError(t, err)
	assert.False(t, more)
}

func TestView_SendRefetchesNewestPage(t *testing.T) {
	srv := threadServer(t)
	defer srv.Close()

	view := NewView(NewClient(srv.URL, "token"), nil, 1, 2)
	require.NoError(t, view.Open(context.Background()))

	sent, err := view.Send(context.Background(), "All clear now.")
	require.NoError(t, err)
	require.Equal(t, uint(6), sent.ID)

	// The sent comment shows up through the page-1 refetch, not through a
	// local append.
	comments := view.Store().Comments()
	require.Len(t, comments, 3)
	assert.Equal(t, uint(6), comments[2].ID)

	// The server pushes the sender's own comment back; the store must not
	// grow a duplicate.
	view.Store().ApplyPush(*sent)

	assert.Equal(t, 3, view.Store().Len())
}

func TestView_UpdateStatusSurfacesCommentError(t *testing.T) {
	srv := threadServer(t)
	defer srv.Close()

	view := NewView(NewClient(srv.URL, "token"), nil, 1, 2)
	require.NoError(t, view.Open(context.Background()))

	result, err := view.UpdateStatus(context.Background(), StatusResolved, "Replaced the rail.")
	require.NoError(t, err)

	// The transition committed even though the comment did not.
	assert.Equal(t, StatusResolved, result.Status)
	assert.Equal(t, "comment store unavailable", result.CommentError)

	status, resolvedAt := view.Store().Status()
	assert.Equal(t, StatusResolved, status)
	require.NotNil(t, resolvedAt)
	assert.Equal(t, int64(999000), *resolvedAt)
}

func TestView_RefreshMergesMissedComments(t *testing.T) {
	srv := threadServer(t)
	defer srv.Close()

	view := NewView(NewClient(srv.URL, "token"), nil, 1, 2)
	require.NoError(t, view.Open(context.Background()))

	before := view.Store().Comments()

	// Refetching page 1 after a reconnect changes nothing when nothing
	// was missed.
	require.NoError(t, view.Refresh(context.Background()))
	assert.Equal(t, before, view.Store().Comments())
}
