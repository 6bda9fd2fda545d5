package state

import (
	"github.com/wfunc/tictactoe/logger"
)

// FinishedState is terminal: moves are refused and no transition leaves it.
type FinishedState struct {
	RoomStateBase
	Result Result
}

func NewFinishedState(room RoomContext, result Result) *FinishedState {
	return &FinishedState{
		RoomStateBase: RoomStateBase{
			ID:   IDFinished,
			Room: room,
		},
		Result: result,
	}
}

// OnEnter announces the outcome and hands the result to the recorder.
func (s *FinishedState) OnEnter() {
	logger.Log.Infof("Room %s game over: %s after %d moves, winner %q",
		s.Room.GetID(), s.Result.Outcome, s.Result.Moves, s.Result.Winner)
	s.Room.BroadcastOutcome(s.Result)
	s.Room.RecordResult(s.Result)
}

func (s *FinishedState) HandleMove(player Player, move Move) error {
	return ErrGameOver
}
