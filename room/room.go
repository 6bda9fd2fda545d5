// room/room.go
package room

import (
	"time"

	"github.com/wfunc/tictactoe/protocol"
	"github.com/wfunc/tictactoe/session"
	"github.com/wfunc/tictactoe/state"
)

const MaxPlayers = 2

// Room 是游戏房间的核心结构: two seats, one board, one state machine.
type Room struct {
	ID           string
	StateMachine state.StateMachine
	CreatedAt    time.Time
	seats        [MaxPlayers]*session.Session
	open         bool
	game         state.Game
	broadcaster  Broadcaster
	recorder     Recorder
}

// NewRoom 创建一个新房间
func NewRoom(id string, broadcaster Broadcaster, recorder Recorder) *Room {
	room := &Room{
		ID:          id,
		CreatedAt:   time.Now(),
		open:        true,
		broadcaster: broadcaster,
		recorder:    recorder,
	}

	machine := state.NewBaseStateMachine(state.NewWaitingState(room))
	machine.AddTransition(state.IDWaiting, state.IDActive, func() bool {
		return room.SeatedCount() == MaxPlayers
	})
	machine.AddTransition(state.IDActive, state.IDFinished, nil)
	room.StateMachine = machine

	return room
}

// --- 实现 state.RoomContext 接口 ---

func (r *Room) GetID() string {
	return r.ID
}

func (r *Room) SeatedCount() int {
	n := 0
	for _, s := range r.seats {
		if s != nil {
			n++
		}
	}
	return n
}

func (r *Room) SeatOf(player state.Player) int {
	for seat, s := range r.seats {
		if s != nil && s.ID == player.GetID() {
			return seat
		}
	}
	return state.NoSeat
}

func (r *Room) PlayerAt(seat int) state.Player {
	if seat < 0 || seat >= MaxPlayers || r.seats[seat] == nil {
		return nil
	}
	return r.seats[seat]
}

func (r *Room) Game() *state.Game {
	return &r.game
}

func (r *Room) ChangeState(newState state.State) error {
	return r.StateMachine.ChangeState(newState)
}

func (r *Room) BroadcastBoard() {
	snapshot := r.game.Board.Cells()
	turn := r.game.Turn
	r.broadcaster.Broadcast(r.Sessions(), func(s *session.Session) protocol.Message {
		return protocol.BoardUpdate{Board: snapshot, YourTurn: s.Seat == turn}
	})
}

func (r *Room) BroadcastOutcome(result state.Result) {
	r.broadcaster.Broadcast(r.Sessions(), func(s *session.Session) protocol.Message {
		switch {
		case result.Winner == state.Empty:
			return protocol.Draw
		case result.WonBy(s.Seat):
			return protocol.Win
		default:
			return protocol.Lose
		}
	})
}

func (r *Room) RecordResult(result state.Result) {
	if r.recorder != nil {
		r.recorder.Record(result)
	}
}

// --- 房间核心逻辑 ---

// AddPlayer seats s in the first free seat and closes the room once it is full.
func (r *Room) AddPlayer(s *session.Session) (int, bool) {
	if !r.open {
		return state.NoSeat, false
	}

	seat := state.NoSeat
	for i, occupant := range r.seats {
		if occupant == nil {
			seat = i
			break
		}
	}
	if seat == state.NoSeat {
		return state.NoSeat, false
	}

	r.seats[seat] = s
	s.RoomID = r.ID
	s.Seat = seat
	if r.SeatedCount() == MaxPlayers {
		r.open = false
	}

	r.currentState().HandleJoin(s)
	return seat, true
}

// RemovePlayer unseats s. The seat is never reopened to new players.
func (r *Room) RemovePlayer(s *session.Session) bool {
	seat := r.SeatOf(s)
	if seat == state.NoSeat {
		return false
	}

	r.seats[seat] = nil
	s.RoomID = ""
	s.Seat = session.NoSeat

	r.currentState().HandleLeave(s)
	return true
}

// HandleMove routes a move to the current game state.
func (r *Room) HandleMove(s *session.Session, mv state.Move) error {
	return r.currentState().HandleMove(s, mv)
}

// BroadcastStatus tells every seated player how many players are seated.
func (r *Room) BroadcastStatus() {
	status := protocol.NewRoomStatus(r.SeatedCount())
	r.broadcaster.Broadcast(r.Sessions(), func(*session.Session) protocol.Message {
		return status
	})
}

// Sessions returns the seated sessions in seat order.
func (r *Room) Sessions() []*session.Session {
	sessions := make([]*session.Session, 0, MaxPlayers)
	for _, s := range r.seats {
		if s != nil {
			sessions = append(sessions, s)
		}
	}
	return sessions
}

func (r *Room) IsOpen() bool {
	return r.open
}

func (r *Room) Finished() bool {
	return r.currentState().GetID() == state.IDFinished
}

func (r *Room) Status() string {
	return r.currentState().GetID()
}

func (r *Room) currentState() state.State {
	return r.StateMachine.GetCurrentState()
}
