package room

import (
	"errors"
	"fmt"

	"github.com/wfunc/tictactoe/logger"
	"github.com/wfunc/tictactoe/protocol"
	"github.com/wfunc/tictactoe/session"
	"github.com/wfunc/tictactoe/state"
)

var ErrNotSeated = errors.New("not seated in a room")

// Manager pairs sessions into rooms and routes their events. All methods must be
// called from the same goroutine; the manager holds no locks.
type Manager struct {
	registry    *Registry
	broadcaster Broadcaster
	recorder    Recorder
	metrics     Metrics
	lastID      int
}

// NewRoomManager 创建一个新的房间管理器. recorder and metrics may be nil.
func NewRoomManager(registry *Registry, broadcaster Broadcaster, recorder Recorder, metrics Metrics) *Manager {
	return &Manager{
		registry:    registry,
		broadcaster: broadcaster,
		recorder:    recorder,
		metrics:     metrics,
	}
}

// AssignRoom seats s in the oldest open room, creating a room when none is open,
// then sends s its seat and the room its new occupancy.
func (m *Manager) AssignRoom(s *session.Session) string {
	room := m.registry.FirstOpen()
	if room == nil {
		room = m.createRoom()
	}

	seat, ok := room.AddPlayer(s)
	if !ok {
		// FirstOpen only returns rooms with a free seat.
		panic(fmt.Sprintf("room %s refused a player while open", room.ID))
	}
	logger.Log.Infof("Session %s seated in room %s as %s", s.GetID(), room.ID, state.SeatMark(seat))

	m.broadcaster.SendTo(s, protocol.PlayerInfo{
		Symbol:   state.SeatMark(seat).String(),
		YourTurn: seat == room.Game().Turn,
	})
	room.BroadcastStatus()
	return room.ID
}

func (m *Manager) createRoom() *Room {
	m.lastID++
	room := NewRoom(fmt.Sprintf("room-%d", m.lastID), m.broadcaster, RecorderFunc(m.recordResult))
	m.registry.Add(room)
	m.reportRooms()
	logger.Log.Infof("Room %s created", room.ID)
	return room
}

// HandleMove applies a move from s. A rejected move is reported to s alone and
// returned for the caller's logs; it never changes the room.
func (m *Manager) HandleMove(s *session.Session, mv protocol.Move) error {
	room, exists := m.registry.Get(s.RoomID)
	if !exists {
		m.Reject(s, ErrNotSeated)
		return ErrNotSeated
	}

	if err := room.HandleMove(s, state.Move{Row: mv.Row, Col: mv.Col}); err != nil {
		m.Reject(s, err)
		return fmt.Errorf("room %s: %w", room.ID, err)
	}
	return nil
}

// Reject sends err to s as an error message.
func (m *Manager) Reject(s *session.Session, err error) {
	if m.metrics != nil {
		m.metrics.MoveRejected(RejectReason(err))
	}
	m.broadcaster.SendTo(s, protocol.NewError(err))
}

// Leave unseats a disconnected session. An unfinished game is forfeited to the
// remaining player, and an empty room is dropped from the registry.
func (m *Manager) Leave(s *session.Session) {
	room, exists := m.registry.Get(s.RoomID)
	if !exists {
		return
	}

	room.RemovePlayer(s)
	logger.Log.Infof("Session %s left room %s", s.GetID(), room.ID)

	if room.SeatedCount() == 0 {
		m.RemoveRoom(room.ID)
		return
	}
	room.BroadcastStatus()
}

// RemoveRoom 从管理器中移除一个房间
func (m *Manager) RemoveRoom(id string) {
	if m.registry.Remove(id) {
		m.reportRooms()
		logger.Log.Infof("Room %s removed", id)
	}
}

// GetRoom 从管理器中获取一个房间
func (m *Manager) GetRoom(id string) (*Room, bool) {
	return m.registry.Get(id)
}

type Stats struct {
	Rooms    int `json:"rooms"`
	Players  int `json:"players"`
	Open     int `json:"open"`
	Active   int `json:"active"`
	Finished int `json:"finished"`
}

func (m *Manager) Stats() Stats {
	var st Stats
	m.registry.Each(func(room *Room) bool {
		st.Rooms++
		st.Players += room.SeatedCount()
		if room.IsOpen() {
			st.Open++
		}
		switch room.Status() {
		case state.IDActive:
			st.Active++
		case state.IDFinished:
			st.Finished++
		}
		return true
	})
	return st
}

func (m *Manager) recordResult(result state.Result) {
	if m.metrics != nil {
		m.metrics.GameFinished(string(result.Outcome))
	}
	if m.recorder != nil {
		m.recorder.Record(result)
	}
}

func (m *Manager) reportRooms() {
	if m.metrics != nil {
		m.metrics.SetActiveRooms(m.registry.Len())
	}
}

// RejectReason maps a rejection error to a short metric label.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, protocol.ErrMalformed):
		return "malformed"
	case errors.Is(err, protocol.ErrUnknownType), errors.Is(err, protocol.ErrUnexpectedType):
		return "unsupported"
	case errors.Is(err, state.ErrGameOver):
		return "game_over"
	case errors.Is(err, state.ErrPlayAlone):
		return "play_alone"
	case errors.Is(err, state.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, state.ErrInvalidCoordinates):
		return "invalid_coordinates"
	case errors.Is(err, state.ErrCellOccupied):
		return "cell_occupied"
	case errors.Is(err, ErrNotSeated):
		return "not_seated"
	default:
		return "other"
	}
}
