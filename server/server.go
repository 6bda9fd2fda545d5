package server

import (
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/wfunc/tictactoe/broadcast"
	"github.com/wfunc/tictactoe/config"
	"github.com/wfunc/tictactoe/logger"
	"github.com/wfunc/tictactoe/monitor"
	"github.com/wfunc/tictactoe/network"
	"github.com/wfunc/tictactoe/room"
	"github.com/wfunc/tictactoe/session"
)

const shutdownTimeout = 10 * time.Second

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	router         *mux.Router
	dispatcher     *Dispatcher
	roomManager    *room.Manager
	sessionManager *session.Manager
	monitor        *monitor.Monitor
	connOptions    network.Options
}

// NewGameServer wires the game stack. recorder receives finished games and may be nil.
func NewGameServer(cfg *config.Config, recorder room.Recorder) *GameServer {
	mon := monitor.NewMonitor(cfg.Metrics.Namespace)
	sessions := session.NewManager()
	rooms := room.NewRoomManager(room.NewRegistry(), broadcast.NewSessionBroadcaster(mon), recorder, mon)

	s := &GameServer{
		cfg:            cfg,
		roomManager:    rooms,
		sessionManager: sessions,
		monitor:        mon,
		dispatcher:     NewDispatcher(rooms, sessions, mon),
		connOptions: network.Options{
			SendBuffer:     cfg.Server.SendBuffer,
			MaxMessageSize: cfg.Server.MaxMessageSize,
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}
	s.router = s.routes()
	return s
}

func (s *GameServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleWebSocket)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	if s.cfg.Metrics.Enabled {
		r.Handle(s.cfg.Metrics.Path, s.monitor.Handler()).Methods(http.MethodGet)
		r.Handle("/debug/vars", expvar.Handler()).Methods(http.MethodGet)
	}
	r.PathPrefix("/").Handler(staticHandler(s.cfg.Server.PublicDir)).Methods(http.MethodGet, http.MethodHead)
	return r
}

// Handler is the HTTP entry point: websocket upgrade, operational endpoints and the
// static client.
func (s *GameServer) Handler() http.Handler {
	return s.router
}

func (s *GameServer) Monitor() *monitor.Monitor {
	return s.monitor
}

// RunLoop runs the game event loop until ctx is cancelled.
func (s *GameServer) RunLoop(ctx context.Context) {
	s.dispatcher.Run(ctx)
}

// ListenAndServe serves HTTP on the configured address until ctx is cancelled, then
// shuts down gracefully and disconnects every player.
func (s *GameServer) ListenAndServe(ctx context.Context) error {
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go s.RunLoop(loopCtx)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.HTTPAddress(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("Game server listening on %s", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Log.Info("Shutting down game server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)

	// Hijacked websocket connections are not tracked by http.Server.
	s.sessionManager.CloseAll()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return err
}

// RoomStats implements rpc.LiveStats.
func (s *GameServer) RoomStats(ctx context.Context) (room.Stats, error) {
	return s.dispatcher.RoomStats(ctx)
}

// SessionCount implements rpc.LiveStats.
func (s *GameServer) SessionCount() int {
	return s.sessionManager.Count()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := network.NewWSConnection(uuid.New().String(), conn, s.connOptions)
	wsConn.Serve(s.dispatcher)
}

func (s *GameServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statsResponse struct {
	Rooms    int `json:"rooms"`
	Players  int `json:"players"`
	Sessions int `json:"sessions"`
}

func (s *GameServer) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.RoomStats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Rooms:    stats.Rooms,
		Players:  stats.Players,
		Sessions: s.SessionCount(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnf("Write JSON response: %v", err)
	}
}
