package state

import (
	"math"
)

const BoardSize = 3

// Mark is the content of one cell.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// SeatMark returns the fixed symbol of a seat: seat 0 plays X, seat 1 plays O.
func SeatMark(seat int) Mark {
	if seat == 0 {
		return X
	}
	return O
}

// Board is a 3x3 grid indexed [row][col]. It is a value type, so copies are snapshots.
type Board [BoardSize][BoardSize]Mark

// lines lists the eight winning lines in evaluation order: rows, columns, diagonals.
var lines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Winner returns the mark of the first complete line, or Empty.
func (b Board) Winner() Mark {
	for _, line := range lines {
		a := b[line[0][0]][line[0][1]]
		if a != Empty && a == b[line[1][0]][line[1][1]] && a == b[line[2][0]][line[2][1]] {
			return a
		}
	}
	return Empty
}

func (b Board) Full() bool {
	for _, row := range b {
		for _, cell := range row {
			if cell == Empty {
				return false
			}
		}
	}
	return true
}

// Evaluate reports whether the position is terminal and, if so, who won.
// Winner is Empty on a draw.
func (b Board) Evaluate() (terminal bool, winner Mark) {
	if w := b.Winner(); w != Empty {
		return true, w
	}
	return b.Full(), Empty
}

// Cells renders the board for the wire, "" for empty cells.
func (b Board) Cells() [BoardSize][BoardSize]string {
	var out [BoardSize][BoardSize]string
	for r, row := range b {
		for c, cell := range row {
			out[r][c] = cell.String()
		}
	}
	return out
}

// String renders the board row-major with '_' for empty cells, e.g. "XXXOO____".
func (b Board) String() string {
	buf := make([]byte, 0, BoardSize*BoardSize)
	for _, row := range b {
		for _, cell := range row {
			if cell == Empty {
				buf = append(buf, '_')
			} else {
				buf = append(buf, cell.String()[0])
			}
		}
	}
	return string(buf)
}

// ParseBoard is the inverse of Board.String.
func ParseBoard(s string) (Board, bool) {
	var b Board
	if len(s) != BoardSize*BoardSize {
		return b, false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'X':
			b[i/BoardSize][i%BoardSize] = X
		case 'O':
			b[i/BoardSize][i%BoardSize] = O
		case '_':
		default:
			return b, false
		}
	}
	return b, true
}

// coordinate converts a wire coordinate to a board index.
func coordinate(v float64) (int, bool) {
	if v != math.Trunc(v) || v < 0 || v >= BoardSize {
		return 0, false
	}
	return int(v), true
}
