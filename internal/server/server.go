package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Martin-Matzer/connect-4/internal/game"
	"github.com/Martin-Matzer/connect-4/internal/storage"
)

// Snapshot is what spectators see of the match in progress.
type Snapshot struct {
	Type     string         `json:"type"`
	MatchID  string         `json:"matchId,omitempty"`
	Match    int            `json:"match,omitempty"`
	Players  []*game.Player `json:"players,omitempty"`
	Board    game.Grid      `json:"board"`
	Turn     string         `json:"turn,omitempty"`
	Plies    int            `json:"plies"`
	Status   game.Status    `json:"status"`
	Winner   string         `json:"winner,omitempty"`
	LastMove *LastMove      `json:"lastMove,omitempty"`
	Notice   string         `json:"notice,omitempty"`
	Time     time.Time      `json:"timestamp"`
}

type LastMove struct {
	Player string `json:"player"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
}

type Config struct {
	Store  storage.Store
	Logger logrus.FieldLogger
}

// Server mirrors the local match over HTTP and websockets. It never
// accepts moves. The game goroutine feeds it through the game.Observer
// methods; handlers read the latest snapshot under mu.
type Server struct {
	router *gin.Engine
	store  storage.Store
	log    logrus.FieldLogger

	mu      sync.RWMutex
	current Snapshot

	connMu      sync.RWMutex
	connections map[*wsClient]struct{}
}

func New(cfg Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:      router,
		store:       cfg.Store,
		log:         cfg.Logger,
		connections: make(map[*wsClient]struct{}),
		current:     Snapshot{Type: "state", Status: game.StatusInProgress, Time: time.Now().UTC()},
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}

	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/match", s.handleMatch)
	router.GET("/standings", s.handleStandings)
	router.GET("/ws", s.handleWS)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("spectator server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "spectator server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.closeAll()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Server) handleMatch(c *gin.Context) {
	c.JSON(http.StatusOK, s.Current())
}

func (s *Server) handleStandings(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusOK, []storage.Standing{})
		return
	}
	rows, err := s.store.Standings(c.Request.Context())
	if err != nil {
		s.log.WithError(err).Warn("standings lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "standings unavailable"})
		return
	}
	if rows == nil {
		rows = []storage.Standing{}
	}
	c.JSON(http.StatusOK, rows)
}

// update applies fn to the current snapshot and pushes the result to every
// spectator.
func (s *Server) update(fn func(*Snapshot)) {
	s.mu.Lock()
	fn(&s.current)
	s.current.Time = time.Now().UTC()
	snap := s.current
	s.mu.Unlock()
	s.broadcast(snap)
}

func (s *Server) MatchStarted(m game.MatchInfo) {
	s.update(func(snap *Snapshot) {
		*snap = Snapshot{
			Type:    "init",
			MatchID: m.ID,
			Match:   m.Number,
			Players: []*game.Player{m.Players[0], m.Players[1]},
			Board:   m.Board,
			Turn:    m.Starter.Name,
			Status:  game.StatusInProgress,
		}
	})
}

func (s *Server) MovePlayed(m game.MoveEvent) {
	s.update(func(snap *Snapshot) {
		snap.Type = "state"
		snap.Board = m.Board
		snap.Plies = m.Ply
		snap.Notice = ""
		snap.LastMove = &LastMove{Player: m.Player.Name, Row: m.Row, Column: m.Column}
		snap.Turn = ""
		if m.Next != nil {
			snap.Turn = m.Next.Name
		}
	})
}

func (s *Server) MoveRejected(r game.Rejection) {
	s.update(func(snap *Snapshot) {
		snap.Type = "rejected"
		snap.Notice = r.Player.Name + ": " + r.Reason.Error()
	})
}

func (s *Server) MatchFinished(r game.MatchResult) {
	s.update(func(snap *Snapshot) {
		snap.Type = "finished"
		snap.Board = r.Board
		snap.Plies = r.Plies
		snap.Status = r.Outcome.Status
		snap.Winner = r.Outcome.WinnerName()
		snap.Turn = ""
		snap.Notice = ""
		if r.Outcome.Surrendered != nil {
			snap.Notice = r.Outcome.Surrendered.Name + " surrendered"
		}
	})
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	client := &wsClient{conn: conn, send: make(chan []byte, 16)}
	if data, err := json.Marshal(s.Current()); err == nil {
		client.send <- data
	}

	s.connMu.Lock()
	s.connections[client] = struct{}{}
	s.connMu.Unlock()

	go client.writePump()
	go s.readPump(client)
}

func (s *Server) unregister(c *wsClient) {
	s.connMu.Lock()
	if _, ok := s.connections[c]; ok {
		delete(s.connections, c)
		close(c.send)
	}
	s.connMu.Unlock()
}

func (s *Server) closeAll() {
	s.connMu.Lock()
	for c := range s.connections {
		delete(s.connections, c)
		close(c.send)
	}
	s.connMu.Unlock()
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump only watches for the spectator going away; anything sent is ignored.
func (s *Server) readPump(c *wsClient) {
	defer s.unregister(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) broadcast(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.log.WithError(err).Warn("snapshot encode failed")
		return
	}
	s.connMu.RLock()
	defer s.connMu.RUnlock()
	for c := range s.connections {
		select {
		case c.send <- data:
		default:
		}
	}
}
