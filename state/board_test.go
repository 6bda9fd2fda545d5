package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, s string) Board {
	t.Helper()
	b, ok := ParseBoard(s)
	require.True(t, ok, "bad board literal %q", s)
	return b
}

func TestBoard_Evaluate(t *testing.T) {
	tests := []struct {
		name         string
		board        string
		wantTerminal bool
		wantWinner   Mark
	}{
		{name: "empty", board: "_________", wantTerminal: false, wantWinner: Empty},
		{name: "top row X beats unfinished O row", board: "XXXOO____", wantTerminal: true, wantWinner: X},
		{name: "middle row", board: "XX_OOOX__", wantTerminal: true, wantWinner: O},
		{name: "bottom row", board: "OO_X_XXXX", wantTerminal: true, wantWinner: X},
		{name: "left column", board: "OX_OX_O__", wantTerminal: true, wantWinner: O},
		{name: "middle column", board: "OX__X_OX_", wantTerminal: true, wantWinner: X},
		{name: "right column", board: "XXOX_O__O", wantTerminal: true, wantWinner: O},
		{name: "main diagonal", board: "XO_OX___X", wantTerminal: true, wantWinner: X},
		{name: "anti diagonal", board: "XXOXO_O__", wantTerminal: true, wantWinner: O},
		{name: "full board draw", board: "XOXXOOOXX", wantTerminal: true, wantWinner: Empty},
		{name: "in progress", board: "XO_______", wantTerminal: false, wantWinner: Empty},
		{name: "win on a full board", board: "XXXOOXOXO", wantTerminal: true, wantWinner: X},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terminal, winner := mustBoard(t, tt.board).Evaluate()
			assert.Equal(t, tt.wantTerminal, terminal)
			assert.Equal(t, tt.wantWinner, winner)
		})
	}
}

func TestBoard_FirstLineWins(t *testing.T) {
	// Not reachable in play, but evaluation order must stay rows, columns, diagonals.
	b := mustBoard(t, "OOOXXX___")
	assert.Equal(t, O, b.Winner())
}

func TestBoard_CellsAndString(t *testing.T) {
	b := mustBoard(t, "X___O____")

	cells := b.Cells()
	assert.Equal(t, [3]string{"X", "", ""}, cells[0])
	assert.Equal(t, [3]string{"", "O", ""}, cells[1])
	assert.Equal(t, "X___O____", b.String())

	_, ok := ParseBoard("XO")
	assert.False(t, ok)
	_, ok = ParseBoard("XO_______Z")
	assert.False(t, ok)
	_, ok = ParseBoard("XO______Z")
	assert.False(t, ok)
}

func TestSeatMark(t *testing.T) {
	assert.Equal(t, X, SeatMark(0))
	assert.Equal(t, O, SeatMark(1))
	assert.Equal(t, "X", SeatMark(0).String())
	assert.Equal(t, "", Empty.String())
}

func TestGame_Validate(t *testing.T) {
	game := &Game{Board: mustBoard(t, "X________"), Turn: 1}

	tests := []struct {
		name    string
		seat    int
		move    Move
		wantErr error
	}{
		{name: "wrong seat", seat: 0, move: Move{Row: 1, Col: 1}, wantErr: ErrNotYourTurn},
		{name: "row too large", seat: 1, move: Move{Row: 3, Col: 0}, wantErr: ErrInvalidCoordinates},
		{name: "negative col", seat: 1, move: Move{Row: 0, Col: -1}, wantErr: ErrInvalidCoordinates},
		{name: "fractional", seat: 1, move: Move{Row: 0.5, Col: 1}, wantErr: ErrInvalidCoordinates},
		{name: "occupied", seat: 1, move: Move{Row: 0, Col: 0}, wantErr: ErrCellOccupied},
		{name: "ok", seat: 1, move: Move{Row: 2, Col: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := *game
			row, col, err := game.Validate(tt.seat, tt.move)
			assert.Equal(t, before, *game, "validation must not mutate the game")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2, row)
			assert.Equal(t, 2, col)
		})
	}
}

func TestGame_ApplyAlternatesTurn(t *testing.T) {
	game := &Game{}
	moves := [][2]int{{0, 0}, {1, 1}, {0, 1}, {2, 2}}

	for i, mv := range moves {
		require.Equal(t, i%2, game.Turn)
		game.Apply(game.Turn, mv[0], mv[1])
	}

	assert.Equal(t, 0, game.Turn)
	assert.Equal(t, 4, game.Moves)
	assert.Equal(t, "XX__O___O", game.Board.String())
}

func TestResult_WonBy(t *testing.T) {
	win := Result{Outcome: OutcomeWin, Winner: O}
	assert.False(t, win.WonBy(0))
	assert.True(t, win.WonBy(1))

	draw := Result{Outcome: OutcomeDraw}
	assert.False(t, draw.WonBy(0))
	assert.False(t, draw.WonBy(1))
}
