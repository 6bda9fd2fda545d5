// models/gorm_models.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// GormGameRecord 游戏记录模型
type GormGameRecord struct {
	gorm.Model
	RoomID     string `gorm:"index;not null"`
	Outcome    string `gorm:"size:16;not null"`
	Winner     string `gorm:"size:1"`
	Board      string `gorm:"size:9;not null"`
	Moves      int    `gorm:"default:0"`
	PlayerX    string `gorm:"size:64"`
	PlayerO    string `gorm:"size:64"`
	Duration   int    `gorm:"default:0"`
	StartedAt  time.Time
	FinishedAt time.Time `gorm:"index"`
}

func (GormGameRecord) TableName() string {
	return "game_records"
}

func NewGormGameRecord(record *GameRecord) *GormGameRecord {
	return &GormGameRecord{
		RoomID:     record.RoomID,
		Outcome:    record.Outcome,
		Winner:     record.Winner,
		Board:      record.Board,
		Moves:      record.Moves,
		PlayerX:    record.PlayerX,
		PlayerO:    record.PlayerO,
		Duration:   record.Duration,
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
	}
}

func (g *GormGameRecord) Record() GameRecord {
	return GameRecord{
		ID:         g.ID,
		RoomID:     g.RoomID,
		Outcome:    g.Outcome,
		Winner:     g.Winner,
		Board:      g.Board,
		Moves:      g.Moves,
		PlayerX:    g.PlayerX,
		PlayerO:    g.PlayerO,
		Duration:   g.Duration,
		StartedAt:  g.StartedAt,
		FinishedAt: g.FinishedAt,
	}
}
