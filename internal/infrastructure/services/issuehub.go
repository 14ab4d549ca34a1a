// Package services provides infrastructure services.
package services

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sentra/internal/shared/logger"
)

// Thread push message types.
const (
	MsgTypeCommentAdded  = "comment_added"
	MsgTypeStatusChanged = "status_changed"
	MsgTypeJoined        = "joined"
	MsgTypeLeft          = "left"
	MsgTypeError         = "error"
)

// ThreadMessage is a single frame pushed to a thread subscriber.
type ThreadMessage struct {
	Type      string `json:"type"`
	IssueID   uint   `json:"issue_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// ThreadConn represents one subscriber WebSocket connection. A single
// connection may watch several issue threads at once; membership is tracked
// per issue on the hub side.
type ThreadConn struct {
	ConnID      string
	UserID      uint
	UserType    string
	Conn        *websocket.Conn
	Send        chan *ThreadMessage
	ConnectedAt time.Time
}

// IssueHub manages WebSocket subscriber connections grouped into per-issue
// rooms. Delivery is fire-and-forget: a subscriber whose send buffer is full
// misses the frame and is expected to reconcile via a page refetch.
type IssueHub struct {
	conns   map[string]*ThreadConn
	rooms   map[uint]map[string]*ThreadConn
	watched map[string]map[uint]struct{}
	mu      sync.RWMutex

	onRoomEmpty func(issueID uint)

	logger logger.Interface
}

// NewIssueHub creates a new IssueHub instance.
func NewIssueHub(log logger.Interface) *IssueHub {
	return &IssueHub{
		conns:   make(map[string]*ThreadConn),
		rooms:   make(map[uint]map[string]*ThreadConn),
		watched: make(map[string]map[uint]struct{}),
		logger:  log,
	}
}

// SetOnRoomEmpty sets the callback invoked when the last subscriber leaves an issue room.
func (h *IssueHub) SetOnRoomEmpty(fn func(issueID uint)) {
	h.onRoomEmpty = fn
}

// Register adds a new subscriber connection to the hub.
func (h *IssueHub) Register(connID string, userID uint, userType string, conn *websocket.Conn) *ThreadConn {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if the same conn ID reconnects
	if existing, ok := h.conns[connID]; ok {
		h.detachLocked(existing)
		close(existing.Send)
		existing.Conn.Close()
	}

	threadConn := &ThreadConn{
		ConnID:      connID,
		UserID:      userID,
		UserType:    userType,
		Conn:        conn,
		Send:        make(chan *ThreadMessage, 256),
		ConnectedAt: time.Now(),
	}
	h.conns[connID] = threadConn
	h.watched[connID] = make(map[uint]struct{})

	h.logger.Infow("thread subscriber connected",
		"conn_id", connID,
		"user_id", userID,
	)

	return threadConn
}

// Unregister removes a connection and its room memberships.
func (h *IssueHub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[connID]
	if !ok {
		return
	}

	h.detachLocked(conn)
	close(conn.Send)
	delete(h.conns, connID)

	h.logger.Infow("thread subscriber disconnected",
		"conn_id", connID,
		"user_id", conn.UserID,
	)
}

// Join adds a connection to an issue room. Joining a room the connection is
// already in is a no-op, so retried join frames after a flaky ack stay safe.
func (h *IssueHub) Join(connID string, issueID uint) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.conns[connID]
	if !ok {
		return ErrConnNotRegistered
	}

	if _, already := h.watched[connID][issueID]; already {
		return nil
	}

	room, ok := h.rooms[issueID]
	if !ok {
		room = make(map[string]*ThreadConn)
		h.rooms[issueID] = room
	}
	room[connID] = conn
	h.watched[connID][issueID] = struct{}{}

	h.logger.Debugw("subscriber joined thread",
		"conn_id", connID,
		"issue_id", issueID,
		"room_size", len(room),
	)

	return nil
}

// Leave removes a connection from an issue room. Leaving a room the
// connection is not in is a no-op.
func (h *IssueHub) Leave(connID string, issueID uint) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[connID]; !ok {
		return ErrConnNotRegistered
	}

	h.leaveLocked(connID, issueID)
	return nil
}

// BroadcastToIssue sends a message to every subscriber of an issue room.
// Returns the number of subscribers the message was queued for. Subscribers
// with a full send buffer are skipped.
func (h *IssueHub) BroadcastToIssue(issueID uint, msg *ThreadMessage) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[issueID]
	if !ok {
		return 0
	}

	delivered := 0
	for connID, conn := range room {
		select {
		case conn.Send <- msg:
			delivered++
		default:
			h.logger.Warnw("thread send buffer full, dropping frame",
				"conn_id", connID,
				"issue_id", issueID,
				"msg_type", msg.Type,
			)
		}
	}
	return delivered
}

// SendToConn sends a message to one specific connection.
func (h *IssueHub) SendToConn(connID string, msg *ThreadMessage) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.conns[connID]
	if !ok {
		return ErrConnNotRegistered
	}

	select {
	case conn.Send <- msg:
		return nil
	default:
		return ErrSendChannelFull
	}
}

// SubscriberCount returns the number of subscribers in an issue room.
func (h *IssueHub) SubscriberCount(issueID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[issueID])
}

// WatchedIssues returns the issue IDs a connection is currently subscribed to.
func (h *IssueHub) WatchedIssues(connID string) []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]uint, 0, len(h.watched[connID]))
	for id := range h.watched[connID] {
		ids = append(ids, id)
	}
	return ids
}

// leaveLocked removes a single room membership. Caller holds h.mu.
func (h *IssueHub) leaveLocked(connID string, issueID uint) {
	if _, ok := h.watched[connID][issueID]; !ok {
		return
	}
	delete(h.watched[connID], issueID)

	room := h.rooms[issueID]
	delete(room, connID)
	if len(room) == 0 {
		delete(h.rooms, issueID)
		if h.onRoomEmpty != nil {
			go h.onRoomEmpty(issueID)
		}
	}
}

// detachLocked removes all room memberships of a connection. Caller holds h.mu.
func (h *IssueHub) detachLocked(conn *ThreadConn) {
	for issueID := range h.watched[conn.ConnID] {
		h.leaveLocked(conn.ConnID, issueID)
	}
	delete(h.watched, conn.ConnID)
}

// HubErrors defines issue hub related errors.
var (
	ErrConnNotRegistered = &HubError{Code: "CONN_NOT_REGISTERED", Message: "connection not registered"}
	ErrSendChannelFull   = &HubError{Code: "SEND_CHANNEL_FULL", Message: "send channel full"}
)

// HubError represents an issue hub error.
type HubError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *HubError) Error() string {
	return e.Message
}
