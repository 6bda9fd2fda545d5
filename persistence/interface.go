// persistence/interface.go
package persistence

import (
	"context"
	"fmt"

	"github.com/wfunc/tictactoe/models"
)

// Database 数据库接口: append-only storage of finished games.
type Database interface {
	// SaveGameRecord stores record and fills in its ID.
	SaveGameRecord(ctx context.Context, record *models.GameRecord) error
	LoadGameRecord(ctx context.Context, id uint) (*models.GameRecord, error)
	// RecentGameRecords returns up to limit records, newest first.
	RecentGameRecords(ctx context.Context, limit int) ([]models.GameRecord, error)
	GetOutcomeStats(ctx context.Context) (models.OutcomeStats, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
