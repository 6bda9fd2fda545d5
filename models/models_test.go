package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wfunc/tictactoe/state"
)

func TestNewGameRecord(t *testing.T) {
	started := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	board, _ := state.ParseBoard("XXXOO____")
	result := state.Result{
		RoomID:     "room-7",
		Outcome:    state.OutcomeWin,
		Winner:     state.X,
		Board:      board,
		Moves:      5,
		Players:    [2]string{"a", "b"},
		StartedAt:  started,
		FinishedAt: started.Add(42 * time.Second),
	}

	record := NewGameRecord(result)
	assert.Equal(t, "room-7", record.RoomID)
	assert.Equal(t, "win", record.Outcome)
	assert.Equal(t, "X", record.Winner)
	assert.Equal(t, "XXXOO____", record.Board)
	assert.Equal(t, "a", record.PlayerX)
	assert.Equal(t, "b", record.PlayerO)
	assert.Equal(t, 42, record.Duration)

	gormRecord := NewGormGameRecord(record)
	assert.Equal(t, *record, gormRecord.Record())
}

func TestOutcomeStats_Add(t *testing.T) {
	var stats OutcomeStats
	stats.Add(GameRecord{Outcome: "win", Winner: "X"})
	stats.Add(GameRecord{Outcome: "forfeit", Winner: "O"})
	stats.Add(GameRecord{Outcome: "draw"})

	assert.Equal(t, OutcomeStats{TotalGames: 3, XWins: 1, OWins: 1, Draws: 1, Forfeits: 1}, stats)
}
