// Package gameserver is the player gateway: websocket sessions that join the
// world, move around, chat and issue commands.
package gameserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/udisondev/la2go-blackmarket/internal/config"
	"github.com/udisondev/la2go-blackmarket/internal/gameserver/admin"
	"github.com/udisondev/la2go-blackmarket/internal/model"
	"github.com/udisondev/la2go-blackmarket/internal/world"
)

// KeyRateLimited is the message key sent when a session exceeds its command rate.
const KeyRateLimited = "command_rate_limited"

const shutdownTimeout = 5 * time.Second

// Dispatcher runs work on the main game loop.
type Dispatcher interface {
	Enqueue(fn func()) bool
}

// Server is the websocket gateway.
type Server struct {
	cfg      config.GameServer
	world    *world.World
	loop     Dispatcher
	commands *admin.Handler
	texts    admin.Texts
	clients  *ClientTable
	upgrader websocket.Upgrader

	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a gateway. Commands are executed on loop.
func NewServer(cfg config.GameServer, w *world.World, loop Dispatcher, commands *admin.Handler, texts admin.Texts) *Server {
	return &Server{
		cfg:      cfg,
		world:    w,
		loop:     loop,
		commands: commands,
		texts:    texts,
		clients:  NewClientTable(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Clients returns the session table. It is the market's broadcaster.
func (s *Server) Clients() *ClientTable {
	return s.clients
}

// Addr returns the address the server is listening on.
// Returns nil if the server hasn't started yet.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the HTTP handler with /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Run listens on cfg.BindAddress:cfg.Port and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves the gateway on ln until ctx is canceled.
// Used for testing with custom listeners.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.clients.ForEachSession(func(sess *Session) bool {
			sess.CloseAsync()
			return true
		})
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("gateway shutdown", "error", err)
		}
	}()

	slog.Info("player gateway started", "address", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving gateway: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"sessions": s.clients.Count(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	limiter := rate.NewLimiter(rate.Limit(s.cfg.CommandRate.PerSecond), max(s.cfg.CommandRate.Burst, 1))
	sess := newSession(conn, limiter)
	s.clients.Register(sess)
	slog.Debug("session opened", "session", sess.ID(), "remote", sess.remote)

	go sess.writePump()
	sess.readPump(s.handleFrame)

	s.disconnect(sess)
}

func (s *Server) disconnect(sess *Session) {
	s.clients.Unregister(sess)
	if p := sess.Player(); p != nil {
		s.world.RemovePlayer(p.ObjectID())
		slog.Info("player left", "player", p.Name(), "session", sess.ID())
	}
	sess.CloseAsync()
}

func (s *Server) handleFrame(sess *Session, f inFrame) {
	switch f.Type {
	case FrameJoin:
		s.handleJoin(sess, f)
	case FrameMove:
		s.handleMove(sess, f)
	case FrameChat:
		s.handleChat(sess, f)
	default:
		slog.Debug("unknown frame type", "session", sess.ID(), "type", f.Type)
	}
}

func (s *Server) handleJoin(sess *Session, f inFrame) {
	name := strings.TrimSpace(f.Name)
	if name == "" || sess.Player() != nil {
		return
	}

	perms, err := s.permissionsFor(name, f.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			slog.Warn("join rejected", "player", name, "session", sess.ID(), "remote", sess.remote)
		} else {
			slog.Error("join failed", "player", name, "session", sess.ID(), "error", err)
		}
		sess.Send(s.texts.Format(KeyJoinRejected))
		if sess.joinFailures.Add(1) >= maxJoinAttempts {
			sess.CloseAsync()
		}
		return
	}

	loc := model.NewLocation(f.X, f.Y, f.Z, f.Heading)
	player := model.NewPlayer(s.world.IDs().NextPlayerID(), name, loc, perms...)
	player.SetMessageSink(func(msg string) {
		sess.Send(msg)
	})

	if !s.clients.Join(sess, player) {
		slog.Warn("join rejected, name in use", "player", name, "session", sess.ID())
		sess.Send(s.texts.Format(KeyJoinNameTaken, name))
		return
	}
	s.world.AddPlayer(player)
	slog.Info("player joined", "player", name, "objectID", player.ObjectID(), "session", sess.ID())
}

func (s *Server) handleMove(sess *Session, f inFrame) {
	p := sess.Player()
	if p == nil {
		return
	}
	p.SetLocation(model.NewLocation(f.X, f.Y, f.Z, f.Heading))
}

func (s *Server) handleChat(sess *Session, f inFrame) {
	p := sess.Player()
	if p == nil {
		return
	}

	text := strings.TrimSpace(f.Text)
	if text == "" {
		return
	}

	cmd, isCommand := strings.CutPrefix(text, "/")
	if !isCommand {
		s.clients.Broadcast(p.Name() + ": " + text)
		return
	}

	if !sess.limiter.Allow() {
		p.SendMessage(s.texts.Format(KeyRateLimited))
		return
	}
	if !s.loop.Enqueue(func() { s.commands.Handle(p, cmd) }) {
		slog.Warn("command dropped, game loop stopped", "player", p.Name(), "command", cmd)
	}
}
