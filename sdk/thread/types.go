// Package thread provides a Go client for the Sentra issue discussion API:
// paginated history fetches, live updates over websocket, and a local store
// that reconciles the two into a single consistent view of a thread.
package thread

// Issue status values as reported by the API.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
)

// Comment is a single thread entry. CreatedAt is epoch milliseconds, which is
// what both the REST responses and the websocket pushes carry, so a pushed
// comment and a fetched comment always compare equal.
type Comment struct {
	ID          uint   `json:"id"`
	IssueID     uint   `json:"issue_id"`
	UserID      uint   `json:"user_id"`
	UserType    string `json:"user_type"`
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref,omitempty"`
	Content     string `json:"content"`
	ContentHTML string `json:"content_html,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// Issue is the issue detail returned by the API.
type Issue struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Cause       string   `json:"cause,omitempty"`
	Status      string   `json:"status"`
	ReporterID  uint     `json:"reporter_id"`
	Images      []string `json:"images,omitempty"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
	ResolvedAt  *int64   `json:"resolved_at,omitempty"`
}

// UpdateResult is the response of a status update. CommentError is set when
// the status committed but the optional resolution comment did not; callers
// should treat the update itself as successful and surface the comment
// failure separately.
type UpdateResult struct {
	IssueID      uint     `json:"issue_id"`
	Status       string   `json:"status"`
	ResolvedAt   *int64   `json:"resolved_at,omitempty"`
	Comment      *Comment `json:"comment,omitempty"`
	CommentError string   `json:"comment_error,omitempty"`
}

// StatusChange is a status push received over the websocket.
type StatusChange struct {
	IssueID    uint   `json:"issue_id"`
	Status     string `json:"status"`
	UpdatedBy  uint   `json:"updated_by"`
	ResolvedAt *int64 `json:"resolved_at,omitempty"`
}

// Websocket message type constants. These mirror the server's hub protocol.
const (
	MsgTypeCommentAdded  = "comment_added"
	MsgTypeStatusChanged = "status_changed"
	MsgTypeJoined        = "joined"
	MsgTypeLeft          = "left"
	MsgTypeError         = "error"
)

// threadMessage is the websocket envelope.
type threadMessage struct {
	Type      string `json:"type"`
	IssueID   uint   `json:"issue_id,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// clientMessage is what the subscriber sends: join/leave frames.
type clientMessage struct {
	Type    string `json:"type"`
	IssueID uint   `json:"issue_id"`
}

// apiResponse represents the standard API response structure.
type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Details string `json:"details,omitempty"`
	} `json:"error,omitempty"`
}

// listResponse represents a paginated list payload inside apiResponse.Data.
type listResponse struct {
	Items      []Comment `json:"items"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}
