package thread

import (
	"context"
	"fmt"
	"sync"
)

// View is a live, reconciled view of one issue thread. It loads history
// page by page through the Client, applies pushes from the Subscriber, and
// keeps both in a Store so the caller always sees a deduplicated,
// chronologically ordered thread regardless of which path a comment
// arrived on.
type View struct {
	client   *Client
	sub      *Subscriber
	store    *Store
	issueID  uint
	pageSize int

	mu       sync.Mutex
	nextPage int
}

// NewView creates a view over the given issue. pageSize controls how many
// comments each history fetch requests.
func NewView(client *Client, sub *Subscriber, issueID uint, pageSize int) *View {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &View{
		client:   client,
		sub:      sub,
		store:    NewStore(issueID),
		issueID:  issueID,
		pageSize: pageSize,
		nextPage: 1,
	}
}

// Store exposes the underlying store for reads and for wiring subscriber
// callbacks (ApplyPush, SetStatus).
func (v *View) Store() *Store {
	return v.store
}

// Open fetches the issue's current status and the newest page of its
// thread, then joins the live channel. The order does not matter for
// correctness: anything pushed before the fetch lands is merged away as a
// duplicate, and Refresh covers anything the fetch missed.
func (v *View) Open(ctx context.Context) error {
	issue, err := v.client.GetIssue(ctx, v.issueID)
	if err != nil {
		return fmt.Errorf("open thread: %w", err)
	}
	v.store.SetStatus(issue.Status, issue.ResolvedAt)

	if _, err := v.loadPage(ctx, 1); err != nil {
		return fmt.Errorf("open thread: %w", err)
	}

	v.mu.Lock()
	v.nextPage = 2
	v.mu.Unlock()

	if v.sub != nil {
		if err := v.sub.Join(v.issueID); err != nil {
			return fmt.Errorf("join thread: %w", err)
		}
	}
	return nil
}

// LoadOlder fetches the next older page of history and merges it in. It
// returns false once the end of the thread has been reached; further calls
// are no-ops.
func (v *View) LoadOlder(ctx context.Context) (more bool, err error) {
	if v.store.Complete() {
		return false, nil
	}

	v.mu.Lock()
	page := v.nextPage
	v.mu.Unlock()

	end, err := v.loadPage(ctx, page)
	if err != nil {
		return false, err
	}

	v.mu.Lock()
	v.nextPage = page + 1
	v.mu.Unlock()

	return !end, nil
}

// Refresh refetches the newest page. Call it after a reconnect to close the
// gap a dropped connection may have opened; merging makes it safe to call
// at any time.
func (v *View) Refresh(ctx context.Context) error {
	_, err := v.loadPage(ctx, 1)
	return err
}

// Send posts a comment to the thread, then refetches the newest page
// instead of appending the local copy. The refetch is what makes the sent
// comment visible; the server's push of the same comment (senders receive
// their own) is absorbed as a duplicate by the merge.
func (v *View) Send(ctx context.Context, content string) (*Comment, error) {
	comment, err := v.client.PostComment(ctx, v.issueID, content)
	if err != nil {
		return nil, err
	}
	if _, err := v.loadPage(ctx, 1); err != nil {
		return comment, fmt.Errorf("refresh after send: %w", err)
	}
	return comment, nil
}

// UpdateStatus changes the issue's workflow status with an optional
// comment. The local store is updated from the result; a CommentError in
// the result means the transition committed but the comment did not, and is
// returned to the caller untouched.
func (v *View) UpdateStatus(ctx context.Context, status, comment string) (*UpdateResult, error) {
	result, err := v.client.UpdateStatus(ctx, v.issueID, status, comment)
	if err != nil {
		return nil, err
	}

	v.store.SetStatus(result.Status, result.ResolvedAt)
	if result.Comment != nil {
		v.store.ApplyPush(*result.Comment)
	}
	return result, nil
}

// Close leaves the live channel. The store keeps its contents.
func (v *View) Close() error {
	if v.sub == nil {
		return nil
	}
	return v.sub.Leave(v.issueID)
}

func (v *View) loadPage(ctx context.Context, page int) (end bool, err error) {
	comments, _, err := v.client.FetchPage(ctx, v.issueID, page, v.pageSize)
	if err != nil {
		return false, err
	}
	return v.store.ApplyPage(comments, v.pageSize), nil
}
