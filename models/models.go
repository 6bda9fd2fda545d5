// models/models.go
package models

import (
	"time"

	"github.com/wfunc/tictactoe/state"
)

// GameRecord 游戏记录模型: one finished game as stored in the history.
type GameRecord struct {
	ID         uint      `json:"id"`
	RoomID     string    `json:"room_id"`
	Outcome    string    `json:"outcome"` // win/draw/forfeit
	Winner     string    `json:"winner"`  // "X", "O" or "" on a draw
	Board      string    `json:"board"`
	Moves      int       `json:"moves"`
	PlayerX    string    `json:"player_x"`
	PlayerO    string    `json:"player_o"`
	Duration   int       `json:"duration"` // 游戏时长(秒)
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewGameRecord flattens a game result for storage.
func NewGameRecord(result state.Result) *GameRecord {
	record := &GameRecord{
		RoomID:     result.RoomID,
		Outcome:    string(result.Outcome),
		Winner:     result.Winner.String(),
		Board:      result.Board.String(),
		Moves:      result.Moves,
		PlayerX:    result.Players[0],
		PlayerO:    result.Players[1],
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
	}
	if !result.StartedAt.IsZero() && result.FinishedAt.After(result.StartedAt) {
		record.Duration = int(result.FinishedAt.Sub(result.StartedAt) / time.Second)
	}
	return record
}

// OutcomeStats 对局统计信息
type OutcomeStats struct {
	TotalGames int `json:"total_games" gorm:"column:total_games"`
	XWins      int `json:"x_wins" gorm:"column:x_wins"`
	OWins      int `json:"o_wins" gorm:"column:o_wins"`
	Draws      int `json:"draws" gorm:"column:draws"`
	Forfeits   int `json:"forfeits" gorm:"column:forfeits"`
}

// Add counts one record.
func (s *OutcomeStats) Add(record GameRecord) {
	s.TotalGames++
	switch record.Winner {
	case "X":
		s.XWins++
	case "O":
		s.OWins++
	default:
		s.Draws++
	}
	if record.Outcome == string(state.OutcomeForfeit) {
		s.Forfeits++
	}
}
