package state

import (
	"errors"
	"time"
)

var (
	ErrGameOver           = errors.New("game is over")
	ErrPlayAlone          = errors.New("cannot play alone")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrCellOccupied       = errors.New("cell occupied")
)

// Move is a move attempt as received from a client.
type Move struct {
	Row float64
	Col float64
}

// Game is the authoritative board of one room.
type Game struct {
	Board     Board
	Turn      int
	Moves     int
	StartedAt time.Time
}

// Validate checks a move by the player in seat without touching the game.
func (g *Game) Validate(seat int, mv Move) (row, col int, err error) {
	if seat != g.Turn {
		return 0, 0, ErrNotYourTurn
	}
	row, okRow := coordinate(mv.Row)
	col, okCol := coordinate(mv.Col)
	if !okRow || !okCol {
		return 0, 0, ErrInvalidCoordinates
	}
	if g.Board[row][col] != Empty {
		return 0, 0, ErrCellOccupied
	}
	return row, col, nil
}

// Apply places seat's mark and passes the turn. Callers validate first.
func (g *Game) Apply(seat, row, col int) {
	g.Board[row][col] = SeatMark(seat)
	g.Turn = (g.Turn + 1) % 2
	g.Moves++
}

type Outcome string

const (
	OutcomeWin     Outcome = "win"
	OutcomeDraw    Outcome = "draw"
	OutcomeForfeit Outcome = "forfeit"
)

// Result describes how a room's game ended.
type Result struct {
	RoomID     string
	Outcome    Outcome
	Winner     Mark
	Board      Board
	Moves      int
	Players    [2]string
	StartedAt  time.Time
	FinishedAt time.Time
}

// WonBy reports whether the player in seat won. Always false on a draw.
func (r Result) WonBy(seat int) bool {
	return r.Winner != Empty && r.Winner == SeatMark(seat)
}
