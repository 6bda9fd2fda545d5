package state

import (
	"time"

	"github.com/wfunc/tictactoe/logger"
)

// ActiveState 游戏进行状态: both seats filled, moves alternate starting with seat 0.
type ActiveState struct {
	RoomStateBase
}

// NewActiveState 创建新的游戏状态
func NewActiveState(room RoomContext) *ActiveState {
	return &ActiveState{
		RoomStateBase: RoomStateBase{
			ID:   IDActive,
			Room: room,
		},
	}
}

// OnEnter 进入游戏状态
func (s *ActiveState) OnEnter() {
	s.Room.Game().StartedAt = time.Now()
	logger.Log.Infof("Room %s game started", s.Room.GetID())
}

// HandleMove validates and applies one move. A rejected move leaves the game untouched.
func (s *ActiveState) HandleMove(player Player, move Move) error {
	if s.Room.SeatedCount() < 2 {
		return ErrPlayAlone
	}

	game := s.Room.Game()
	seat := s.Room.SeatOf(player)
	row, col, err := game.Validate(seat, move)
	if err != nil {
		return err
	}

	game.Apply(seat, row, col)
	s.Room.BroadcastBoard()

	terminal, winner := game.Board.Evaluate()
	if !terminal {
		return nil
	}

	outcome := OutcomeWin
	if winner == Empty {
		outcome = OutcomeDraw
	}
	return s.Room.ChangeState(NewFinishedState(s.Room, s.result(outcome, winner)))
}

// HandleLeave awards the game to whoever is still seated.
func (s *ActiveState) HandleLeave(player Player) {
	winner, leaverSeat := Empty, NoSeat
	for seat := 0; seat < 2; seat++ {
		if s.Room.PlayerAt(seat) != nil {
			winner, leaverSeat = SeatMark(seat), 1-seat
			break
		}
	}
	logger.Log.Infof("Room %s: player %s left mid-game, %q wins by forfeit", s.Room.GetID(), player.GetID(), winner)

	result := s.result(OutcomeForfeit, winner)
	if leaverSeat != NoSeat {
		result.Players[leaverSeat] = player.GetID()
	}
	if err := s.Room.ChangeState(NewFinishedState(s.Room, result)); err != nil {
		logger.Log.Errorf("Room %s failed to finish after forfeit: %v", s.Room.GetID(), err)
	}
}

func (s *ActiveState) result(outcome Outcome, winner Mark) Result {
	game := s.Room.Game()
	result := Result{
		RoomID:     s.Room.GetID(),
		Outcome:    outcome,
		Winner:     winner,
		Board:      game.Board,
		Moves:      game.Moves,
		StartedAt:  game.StartedAt,
		FinishedAt: time.Now(),
	}
	for seat := 0; seat < 2; seat++ {
		if p := s.Room.PlayerAt(seat); p != nil {
			result.Players[seat] = p.GetID()
		}
	}
	return result
}
