package gameserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/udisondev/la2go-blackmarket/internal/model"
)

// Default write queue / timeout constants.
const (
	defaultSendQueueSize = 64
	writeTimeout         = 5 * time.Second
	pongWait             = 60 * time.Second
	pingPeriod           = pongWait * 9 / 10
	maxFrameSize         = 4096
)

// Session is a single websocket connection.
type Session struct {
	id     uuid.UUID
	conn   *websocket.Conn
	remote string

	player       atomic.Pointer[model.Player] // set after join
	joinFailures atomic.Int32
	limiter      *rate.Limiter

	// Per-session write queue drained by writePump.
	sendCh    chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
}

func newSession(conn *websocket.Conn, limiter *rate.Limiter) *Session {
	return &Session{
		id:      uuid.New(),
		conn:    conn,
		remote:  conn.RemoteAddr().String(),
		limiter: limiter,
		sendCh:  make(chan []byte, defaultSendQueueSize),
		closeCh: make(chan struct{}),
	}
}

// ID returns the session id.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Player returns the joined player, or nil before join.
func (s *Session) Player() *model.Player {
	return s.player.Load()
}

// Send queues a chat message for the client without blocking.
// A client whose queue is full is disconnected.
func (s *Session) Send(text string) error {
	payload, err := json.Marshal(outFrame{Type: FrameMessage, Text: text})
	if err != nil {
		return fmt.Errorf("encoding message frame: %w", err)
	}

	select {
	case <-s.closeCh:
		return fmt.Errorf("session closed")
	default:
	}

	select {
	case s.sendCh <- payload:
		return nil
	default:
		slog.Warn("send queue full, disconnecting slow client", "session", s.id, "remote", s.remote)
		s.CloseAsync()
		return fmt.Errorf("send queue full")
	}
}

// CloseAsync signals the writePump to stop without blocking.
// Safe to call multiple times.
func (s *Session) CloseAsync() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
	})
}

// writePump drains the send queue and keeps the connection alive with pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload := <-s.sendCh:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				slog.Debug("websocket write failed", "session", s.id, "error", err)
				s.CloseAsync()
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.CloseAsync()
				return
			}

		case <-s.closeCh:
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeTimeout))
			return
		}
	}
}

// readPump reads frames until the connection fails and hands each to handle.
func (s *Session) readPump(handle func(*Session, inFrame)) {
	s.conn.SetReadLimit(maxFrameSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read failed", "session", s.id, "error", err)
			}
			return
		}

		var f inFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			slog.Debug("malformed frame", "session", s.id, "error", err)
			continue
		}
		handle(s, f)
	}
}
