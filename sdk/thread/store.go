package thread

import "sync"

// Store holds the locally known state of one issue thread: the comments
// reconciled from page fetches and live pushes, plus the issue's workflow
// status. All methods are safe for concurrent use; pushes arrive on the
// subscriber goroutine while fetches run on the caller's.
type Store struct {
	mu         sync.RWMutex
	issueID    uint
	comments   []Comment
	status     string
	resolvedAt *int64

	// complete is set once a short or empty page proved the full history
	// is loaded.
	complete bool
}

// NewStore creates an empty store for the given issue.
func NewStore(issueID uint) *Store {
	return &Store{issueID: issueID}
}

// IssueID returns the issue this store tracks.
func (s *Store) IssueID() uint {
	return s.issueID
}

// ApplyPage merges one fetched page into the store and reports whether the
// end of history has been reached. A page shorter than pageSize (including
// an empty one) means there is nothing older left to load.
func (s *Store) ApplyPage(comments []Comment, pageSize int) (end bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments = Merge(s.comments, comments)
	if len(comments) < pageSize {
		s.complete = true
	}
	return s.complete
}

// ApplyPush merges a single pushed comment. Pushes for other issues are
// ignored; duplicates of already-fetched comments are absorbed.
func (s *Store) ApplyPush(c Comment) {
	if c.IssueID != s.issueID {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = Merge(s.comments, []Comment{c})
}

// SetStatus records the issue's workflow status.
func (s *Store) SetStatus(status string, resolvedAt *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.resolvedAt = resolvedAt
}

// Status returns the last known workflow status and resolution time.
func (s *Store) Status() (string, *int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.resolvedAt
}

// Comments returns a snapshot of the thread in chronological order.
func (s *Store) Comments() []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

// Len returns the number of locally known comments.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.comments)
}

// Complete reports whether the full history has been loaded.
func (s *Store) Complete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.complete
}
