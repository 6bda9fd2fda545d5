package rpc

import (
	"context"
	"errors"
	"io"
	"net"
	"net/rpc"
	"time"

	"github.com/wfunc/tictactoe/logger"
	"github.com/wfunc/tictactoe/models"
	"github.com/wfunc/tictactoe/room"
	"github.com/wfunc/tictactoe/services"
)

const callTimeout = 5 * time.Second

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	rpc      *rpc.Server
}

// NewServer listens on addr and exposes service as "GameService".
func NewServer(addr string, service *GameService) (*Server, error) {
	srv := rpc.NewServer()
	if err := srv.RegisterName("GameService", service); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		rpc:      srv,
	}, nil
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Start begins listening for RPC requests. It returns once the listener is closed.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.listener.Addr())
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go s.ServeConn(conn)
	}
}

// ServeConn answers calls on a single connection until the client hangs up.
func (s *Server) ServeConn(conn io.ReadWriteCloser) {
	s.rpc.ServeConn(conn)
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// LiveStats reports the state of the running server.
type LiveStats interface {
	RoomStats(ctx context.Context) (room.Stats, error)
	SessionCount() int
}

// GameService is the struct that exposes RPC methods.
type GameService struct {
	live    LiveStats
	records *services.RecordService
}

// NewGameService creates a new GameService.
func NewGameService(live LiveStats, records *services.RecordService) *GameService {
	return &GameService{live: live, records: records}
}

// Method arguments follow the net/rpc signature: exported method, exported
// arguments, second argument is a pointer, return type is error.
type StatsArgs struct {
	// IncludeHistory adds the game history totals, which cost a database query.
	IncludeHistory bool
}

type StatsReply struct {
	Rooms    room.Stats
	Sessions int
	Games    models.OutcomeStats
}

// Stats returns live room counters and, on request, the totals of the game history.
func (gs *GameService) Stats(args *StatsArgs, reply *StatsReply) error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	rooms, err := gs.live.RoomStats(ctx)
	if err != nil {
		return err
	}
	reply.Rooms = rooms
	reply.Sessions = gs.live.SessionCount()

	if args.IncludeHistory {
		games, err := gs.records.Summary(ctx)
		if err != nil {
			return err
		}
		reply.Games = games
	}
	return nil
}

type RecentGamesArgs struct {
	Limit int
}

type RecentGamesReply struct {
	Games []models.GameRecord
}

func (gs *GameService) RecentGames(args *RecentGamesArgs, reply *RecentGamesReply) error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	games, err := gs.records.RecentGames(ctx, args.Limit)
	if err != nil {
		return err
	}
	reply.Games = games
	return nil
}
