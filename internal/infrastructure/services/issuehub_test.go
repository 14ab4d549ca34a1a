package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentra/internal/shared/logger"
)

// nopLogger is a no-op logger for testing.
type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)                   {}
func (l *nopLogger) Info(msg string, args ...any)                    {}
func (l *nopLogger) Warn(msg string, args ...any)                    {}
func (l *nopLogger) Error(msg string, args ...any)                   {}
func (l *nopLogger) With(args ...any) logger.Interface               { return l }
func (l *nopLogger) Named(name string) logger.Interface              { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}

func TestIssueHub_JoinIsIdempotent(t *testing.T) {
	hub := NewIssueHub(newNopLogger())
	hub.Register("conn-1", 1, "employee", nil)

	require.NoError(t, hub.Join("conn-1", 42))
	require.NoError(t, hub.Join("conn-1", 42))
	require.NoError(t, hub.Join("conn-1", 42))

	assert.Equal(t, 1, hub.SubscriberCount(42))
	assert.Equal(t, []uint{42}, hub.WatchedIssues("conn-1"))
}

func TestIssueHub_JoinUnknownConn(t *testing.T) {
	hub := NewIssueHub(newNopLogger())

	err := hub.Join("conn-x", 42)
	assert.ErrorIs(t, err, ErrConnNotRegistered)
}

func TestIssueHub_BroadcastToIssue(t *testing.T) {
	hub := NewIssueHub(newNopLogger())
	c1 := hub.Register("conn-1", 1, "employee", nil)
	c2 := hub.Register("conn-2", 2, "engineer", nil)
	hub.Register("conn-3", 3, "engineer", nil)

	require.NoError(t, hub.Join("conn-1", 42))
	require.NoError(t, hub.Join("conn-2", 42))
	require.NoError(t, hub.Join("conn-3", 99))

	msg := &ThreadMessage{Type: MsgTypeCommentAdded, IssueID: 42}
	delivered := hub.BroadcastToIssue(42, msg)
	assert.Equal(t, 2, delivered)

	assert.Same(t, msg, <-c1.Send)
	assert.Same(t, msg, <-c2.Send)
}

func TestIssueHub_BroadcastSkipsFullBuffers(t *testing.T) {
	hub := NewIssueHub(newNopLogger())
	c1 := hub.Register("conn-1", 1, "employee", nil)
	require.NoError(t, hub.Join("conn-1", 42))

	for i := 0; i < cap(c1.Send); i++ {
		c1.Send <- &ThreadMessage{Type: MsgTypeCommentAdded}
	}

	delivered := hub.BroadcastToIssue(42, &ThreadMessage{Type: MsgTypeCommentAdded})
	assert.Equal(t, 0, delivered)
}

func TestIssueHub_LeaveEmptiesRoom(t *testing.T) {
	hub := NewIssueHub(newNopLogger())
	hub.Register("conn-1", 1, "employee", nil)
	require.NoError(t, hub.Join("conn-1", 42))

	require.NoError(t, hub.Leave("conn-1", 42))
	assert.Equal(t, 0, hub.SubscriberCount(42))

	// leaving again is a no-op
	require.NoError(t, hub.Leave("conn-1", 42))
}

func TestIssueHub_UnregisterDetachesAllRooms(t *testing.T) {
	hub := NewIssueHub(newNopLogger())
	conn := hub.Register("conn-1", 1, "engineer", nil)
	require.NoError(t, hub.Join("conn-1", 42))
	require.NoError(t, hub.Join("conn-1", 99))

	hub.Unregister("conn-1")

	assert.Equal(t, 0, hub.SubscriberCount(42))
	assert.Equal(t, 0, hub.SubscriberCount(99))

	// send channel is closed after unregister
	_, open := <-conn.Send
	assert.False(t, open)

	assert.ErrorIs(t, hub.SendToConn("conn-1", &ThreadMessage{}), ErrConnNotRegistered)
}

func TestIssueHub_SendToConn(t *testing.T) {
	hub := NewIssueHub(newNopLogger())
	conn := hub.Register("conn-1", 1, "employee", nil)

	msg := &ThreadMessage{Type: MsgTypeJoined, IssueID: 42}
	require.NoError(t, hub.SendToConn("conn-1", msg))
	assert.Same(t, msg, <-conn.Send)
}
