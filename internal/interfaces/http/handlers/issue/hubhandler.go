package issue

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sentra/internal/application/issue/usecases"
	vo "sentra/internal/domain/issue/valueobjects"
	"sentra/internal/infrastructure/services"
	"sentra/internal/shared/logger"
	"sentra/internal/shared/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured in production
	},
}

// threadClientMessage is what clients send over the thread websocket:
// join/leave frames naming the issue they want to watch.
type threadClientMessage struct {
	Type    string `json:"type"`
	IssueID uint   `json:"issue_id"`
}

// HubHandler handles WebSocket connections for issue thread updates.
type HubHandler struct {
	hub        *services.IssueHub
	getIssueUC usecases.GetIssueExecutor
	logger     logger.Interface
}

// NewHubHandler creates a new HubHandler.
func NewHubHandler(hub *services.IssueHub, getIssueUC usecases.GetIssueExecutor, log logger.Interface) *HubHandler {
	return &HubHandler{
		hub:        hub,
		getIssueUC: getIssueUC,
		logger:     log,
	}
}

// ThreadWS handles WebSocket connections from issue thread viewers.
// GET /ws/threads
//
// A single connection can watch any number of issues; clients send
// {"type":"join","issue_id":N} and {"type":"leave","issue_id":N} frames.
// Joining an issue the client already watches is acknowledged again
// without side effects, so clients can blindly re-join after reconnect.
func (h *HubHandler) ThreadWS(c *gin.Context) {
	userID, userType, _, err := identity(c)
	if err != nil {
		h.logger.Warnw("unauthenticated thread websocket attempt",
			"ip", c.ClientIP(),
		)
		utils.ErrorResponse(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorw("failed to upgrade to websocket",
			"error", err,
			"user_id", userID,
			"ip", c.ClientIP(),
		)
		return
	}

	connID := uuid.New().String()
	threadConn := h.hub.Register(connID, userID, string(userType), conn)

	h.logger.Infow("thread websocket connected",
		"conn_id", connID,
		"user_id", userID,
		"user_type", userType,
		"ip", c.ClientIP(),
	)

	go h.writePump(connID, conn, threadConn.Send)
	h.readPump(c, connID, userID, userType, conn)
}

// readPump reads join/leave frames from the client.
func (h *HubHandler) readPump(c *gin.Context, connID string, userID uint, userType vo.UserType, conn *websocket.Conn) {
	defer func() {
		h.hub.Unregister(connID)
		conn.Close()
	}()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warnw("thread websocket read error",
					"error", err,
					"conn_id", connID,
				)
			}
			break
		}

		var msg threadClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			h.logger.Warnw("failed to parse thread websocket message",
				"error", err,
				"conn_id", connID,
			)
			continue
		}

		switch msg.Type {
		case "join":
			h.handleJoin(c, connID, userID, userType, msg.IssueID)
		case "leave":
			h.handleLeave(connID, msg.IssueID)
		case "ping":
			// Liveness handled by control-frame pings; ignore.
		default:
			h.sendError(connID, msg.IssueID, "unknown message type")
		}
	}
}

// handleJoin checks the caller may view the issue before adding the
// connection to its room. Employees can only watch their own reports.
func (h *HubHandler) handleJoin(c *gin.Context, connID string, userID uint, userType vo.UserType, issueID uint) {
	if issueID == 0 {
		h.sendError(connID, issueID, "issue_id is required")
		return
	}

	_, err := h.getIssueUC.Execute(c.Request.Context(), usecases.GetIssueQuery{
		IssueID:  issueID,
		UserID:   userID,
		UserType: userType,
	})
	if err != nil {
		h.logger.Warnw("thread join rejected",
			"conn_id", connID,
			"issue_id", issueID,
			"user_id", userID,
			"error", err,
		)
		h.sendError(connID, issueID, "issue not accessible")
		return
	}

	if err := h.hub.Join(connID, issueID); err != nil {
		h.sendError(connID, issueID, "join failed")
		return
	}

	h.hub.SendToConn(connID, &services.ThreadMessage{
		Type:      services.MsgTypeJoined,
		IssueID:   issueID,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *HubHandler) handleLeave(connID string, issueID uint) {
	if err := h.hub.Leave(connID, issueID); err != nil {
		return
	}

	h.hub.SendToConn(connID, &services.ThreadMessage{
		Type:      services.MsgTypeLeft,
		IssueID:   issueID,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (h *HubHandler) sendError(connID string, issueID uint, message string) {
	h.hub.SendToConn(connID, &services.ThreadMessage{
		Type:      services.MsgTypeError,
		IssueID:   issueID,
		Timestamp: time.Now().UnixMilli(),
		Data:      gin.H{"message": message},
	})
}

// writePump writes hub messages to the client websocket.
func (h *HubHandler) writePump(connID string, conn *websocket.Conn, send chan *services.ThreadMessage) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Warnw("failed to write to thread websocket",
					"error", err,
					"conn_id", connID,
				)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
