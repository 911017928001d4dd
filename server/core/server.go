package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/imdvls/Pixelknight/shared/leveldata"
	"github.com/imdvls/Pixelknight/shared/netconfig"
	"github.com/sasha-s/go-deadlock"
)

const (
	defaultQueueSize    = 64
	defaultWriteTimeout = 5 * time.Second
	readLimit           = 64 << 10
	shutdownGrace       = 5 * time.Second
)

// Options tunes a Server. Zero values fall back to the shared defaults.
type Options struct {
	TickPeriod   time.Duration
	Timeout      time.Duration // inactivity before eviction
	QueueSize    int           // outbound frames buffered per session
	WriteTimeout time.Duration
	Seed         int64
	Logger       *log.Logger
}

func (o *Options) setDefaults() {
	if o.TickPeriod <= 0 {
		o.TickPeriod = netconfig.TickPeriod
	}
	if o.Timeout <= 0 {
		o.Timeout = netconfig.InactivityTimeout
	}
	if o.QueueSize <= 0 {
		o.QueueSize = defaultQueueSize
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = defaultWriteTimeout
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

// Server accepts websocket sessions and feeds them to the game loop.
type Server struct {
	loop   *GameLoop
	state  *WorldState
	opts   Options
	logger *log.Logger

	// Track which session owns which player id
	sessions map[string]*session
	mu       deadlock.RWMutex
}

// NewServer creates a game server for level.
func NewServer(level *leveldata.Level, opts Options) *Server {
	opts.setDefaults()
	s := &Server{
		state:    NewWorldState(level, opts.Seed),
		opts:     opts,
		logger:   opts.Logger,
		sessions: make(map[string]*session),
	}
	s.loop = NewGameLoop(s.state, s, opts.TickPeriod, opts.Timeout, opts.Logger)
	return s
}

// Handler serves /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", s.serveHealth)
	return mux
}

// Start runs the game loop in the background.
func (s *Server) Start() {
	go s.loop.Run()
}

// Stop halts the game loop and closes every session.
func (s *Server) Stop() {
	s.loop.Stop()

	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close(websocket.StatusGoingAway, "server shutting down")
	}
}

// ListenAndServe runs the loop and serves HTTP on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.logger.Printf("[server] listening on %s", ln.Addr())

	httpServer := &http.Server{Handler: s.Handler()}
	s.Start()
	errc := make(chan error, 1)
	go func() { errc <- httpServer.Serve(ln) }()

	select {
	case err := <-errc:
		s.Stop()
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		s.logger.Printf("[server] accept failed: %v", err)
		return
	}
	conn.SetReadLimit(readLimit)

	id := uuid.NewString()
	sess := newSession(id, conn, s.opts.QueueSize)
	s.register(sess)
	s.logger.Printf("[server] client connected: %s from %s", id, r.RemoteAddr)

	ctx := r.Context()
	go sess.writePump(ctx, s.opts.WriteTimeout, s.logger)
	s.loop.Submit(Command{Kind: CommandJoin, PlayerID: id})

	err = sess.readPump(ctx, s.loop.Submit, s.logger)
	if err != nil && !expectedClose(err) {
		s.logger.Printf("[server] client %s disconnected with error: %v", id, err)
	} else {
		s.logger.Printf("[server] client %s disconnected", id)
	}

	s.unregister(id)
	sess.close(websocket.StatusNormalClosure, "")
	s.loop.Submit(Command{Kind: CommandLeave, PlayerID: id})
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"players": s.PlayerCount(),
	})
}

func (s *Server) register(sess *session) {
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
}

func (s *Server) unregister(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[id]
	delete(s.sessions, id)
	return sess
}

// Send queues a frame for one player and marks the session joined.
func (s *Server) Send(playerID string, frame []byte) {
	s.mu.RLock()
	sess, ok := s.sessions[playerID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	if !sess.enqueue(frame) {
		s.logger.Printf("[server] %s: outbound queue full, frame dropped", playerID)
	}
	sess.joined.Store(true)
}

// Broadcast queues a frame for every joined session.
func (s *Server) Broadcast(frame []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.joined.Load() {
			sess.enqueue(frame)
		}
	}
}

// Close drops a player's session and closes its socket.
func (s *Server) Close(playerID, reason string) {
	if sess := s.unregister(playerID); sess != nil {
		sess.close(websocket.StatusNormalClosure, reason)
	}
}

// PlayerCount returns the number of connected sessions.
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
