package thread

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gorilla/websocket"
)

const (
	subWriteWait  = 10 * time.Second
	subPongWait   = 60 * time.Second
	subPingPeriod = 30 * time.Second
)

// SubscriberConfig configures the subscriber's reconnection behavior and
// event callbacks.
type SubscriberConfig struct {
	// InitialInterval is the first reconnect delay (default: 1s).
	InitialInterval time.Duration
	// MaxInterval caps the reconnect delay (default: 30s).
	MaxInterval time.Duration

	// OnComment is called for every comment push received.
	OnComment func(c Comment)
	// OnStatus is called for every status push received.
	OnStatus func(sc StatusChange)
	// OnConnected is called after each successful (re)connect, once the
	// watched issues have been re-joined. Callers typically refetch page 1
	// here to close the gap a dropped connection may have opened.
	OnConnected func()
	// OnDisconnected is called when the connection drops, with the error.
	OnDisconnected func(err error)
}

// Subscriber maintains a websocket subscription to one or more issue
// threads. Join and Leave may be called at any time; the watched set
// survives reconnects and is replayed to the server after each one, which
// is safe because joining an already-joined issue is a no-op server-side.
type Subscriber struct {
	baseURL string
	token   string
	config  SubscriberConfig

	mu      sync.Mutex
	conn    *websocket.Conn
	watched map[uint]struct{}
}

// NewSubscriber creates a subscriber for the given API base URL and token.
func NewSubscriber(baseURL, token string, config SubscriberConfig) *Subscriber {
	if config.InitialInterval <= 0 {
		config.InitialInterval = time.Second
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = 30 * time.Second
	}
	return &Subscriber{
		baseURL: baseURL,
		token:   token,
		config:  config,
		watched: make(map[uint]struct{}),
	}
}

// Join subscribes to an issue's thread. Joining the same issue twice is a
// no-op beyond a fresh acknowledgment from the server.
func (s *Subscriber) Join(issueID uint) error {
	s.mu.Lock()
	s.watched[issueID] = struct{}{}
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		// Not connected yet; the join is replayed on connect.
		return nil
	}
	return s.write(conn, &clientMessage{Type: "join", IssueID: issueID})
}

// Leave unsubscribes from an issue's thread.
func (s *Subscriber) Leave(issueID uint) error {
	s.mu.Lock()
	delete(s.watched, issueID)
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return nil
	}
	return s.write(conn, &clientMessage{Type: "leave", IssueID: issueID})
}

// Run connects to the server and dispatches pushes until the context is
// canceled, reconnecting with exponential backoff when the connection drops.
func (s *Subscriber) Run(ctx context.Context) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = s.config.InitialInterval
	expBackoff.MaxInterval = s.config.MaxInterval
	expBackoff.Reset()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := s.runOnce(ctx)
		if s.config.OnDisconnected != nil {
			s.config.OnDisconnected(err)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		delay := expBackoff.NextBackOff()
		if delay == backoff.Stop {
			return fmt.Errorf("reconnection failed: %w", err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// runOnce executes a single connection lifecycle.
func (s *Subscriber) runOnce(ctx context.Context) error {
	wsURL, err := s.buildWSURL()
	if err != nil {
		return fmt.Errorf("build websocket url: %w", err)
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("websocket dial failed: status=%d, err=%w", resp.StatusCode, err)
		}
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	s.mu.Lock()
	s.conn = conn
	watched := make([]uint, 0, len(s.watched))
	for id := range s.watched {
		watched = append(watched, id)
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
	}()

	// Replay the watched set; safe because join is idempotent.
	for _, id := range watched {
		if err := s.write(conn, &clientMessage{Type: "join", IssueID: id}); err != nil {
			return fmt.Errorf("rejoin issue %d: %w", id, err)
		}
	}

	if s.config.OnConnected != nil {
		s.config.OnConnected()
	}

	go s.pingLoop(ctx, conn)

	return s.readLoop(ctx, conn)
}

func (s *Subscriber) readLoop(ctx context.Context, conn *websocket.Conn) error {
	conn.SetReadLimit(65536)
	conn.SetReadDeadline(time.Now().Add(subPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(subPongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		var msg threadMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue // Skip malformed messages
		}

		s.dispatch(&msg)
	}
}

func (s *Subscriber) dispatch(msg *threadMessage) {
	switch msg.Type {
	case MsgTypeCommentAdded:
		if s.config.OnComment == nil {
			return
		}
		var c Comment
		if !decodeData(msg.Data, &c) {
			return
		}
		s.config.OnComment(c)

	case MsgTypeStatusChanged:
		if s.config.OnStatus == nil {
			return
		}
		var sc StatusChange
		if !decodeData(msg.Data, &sc) {
			return
		}
		if sc.IssueID == 0 {
			sc.IssueID = msg.IssueID
		}
		s.config.OnStatus(sc)

	case MsgTypeJoined, MsgTypeLeft, MsgTypeError:
		// Acknowledgments; nothing to reconcile.
	}
}

func (s *Subscriber) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(subPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			conn.SetWriteDeadline(time.Now().Add(subWriteWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			s.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (s *Subscriber) write(conn *websocket.Conn, msg *clientMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(subWriteWait))
	return conn.WriteJSON(msg)
}

// buildWSURL builds the websocket URL for the thread endpoint.
func (s *Subscriber) buildWSURL() (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	// Convert http(s) to ws(s)
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		u.Scheme = "wss"
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/threads"

	// Token goes in the query; clients cannot set headers on an upgrade.
	q := u.Query()
	q.Set("token", s.token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// decodeData converts a decoded-any payload into the target type.
func decodeData(data, target any) bool {
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, target) == nil
}
