// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/tictactoe/models"
)

const queryTimeout = 5 * time.Second

// PostgreSQL 数据库实现 on database/sql and lib/pq.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(dsn string) (*PostgreSQL, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS game_records (
            id BIGSERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            outcome VARCHAR(16) NOT NULL,
            winner VARCHAR(1) NOT NULL DEFAULT '',
            board VARCHAR(9) NOT NULL,
            moves INTEGER NOT NULL DEFAULT 0,
            player_x VARCHAR(64) NOT NULL DEFAULT '',
            player_o VARCHAR(64) NOT NULL DEFAULT '',
            duration INTEGER NOT NULL DEFAULT 0,
            started_at TIMESTAMPTZ,
            finished_at TIMESTAMPTZ NOT NULL,
            created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建索引以提高查询性能
	_, err = db.ExecContext(ctx, `
        CREATE INDEX IF NOT EXISTS idx_game_records_room_id ON game_records(room_id);
        CREATE INDEX IF NOT EXISTS idx_game_records_finished_at ON game_records(finished_at);
    `)
	return err
}

// SaveGameRecord 保存游戏记录
func (p *PostgreSQL) SaveGameRecord(ctx context.Context, record *models.GameRecord) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
        INSERT INTO game_records
            (room_id, outcome, winner, board, moves, player_x, player_o, duration, started_at, finished_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
	var id int64
	err := p.db.QueryRowContext(ctx, query,
		record.RoomID, record.Outcome, record.Winner, record.Board, record.Moves,
		record.PlayerX, record.PlayerO, record.Duration, nullTime(record.StartedAt), record.FinishedAt,
	).Scan(&id)
	if err != nil {
		return err
	}
	record.ID = uint(id)
	return nil
}

const selectRecord = `
    SELECT id, room_id, outcome, winner, board, moves, player_x, player_o, duration, started_at, finished_at
    FROM game_records
`

// LoadGameRecord 加载游戏记录
func (p *PostgreSQL) LoadGameRecord(ctx context.Context, id uint) (*models.GameRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	record, err := scanRecord(p.db.QueryRowContext(ctx, selectRecord+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (p *PostgreSQL) RecentGameRecords(ctx context.Context, limit int) ([]models.GameRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, selectRecord+` ORDER BY finished_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.GameRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (p *PostgreSQL) GetOutcomeStats(ctx context.Context) (models.OutcomeStats, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var stats models.OutcomeStats
	err := p.db.QueryRowContext(ctx, outcomeStatsQuery).Scan(
		&stats.TotalGames, &stats.XWins, &stats.OWins, &stats.Draws, &stats.Forfeits,
	)
	return stats, err
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}

const outcomeStatsQuery = `
    SELECT
        COUNT(*) AS total_games,
        COALESCE(SUM(CASE WHEN winner = 'X' THEN 1 ELSE 0 END), 0) AS x_wins,
        COALESCE(SUM(CASE WHEN winner = 'O' THEN 1 ELSE 0 END), 0) AS o_wins,
        COALESCE(SUM(CASE WHEN winner = '' THEN 1 ELSE 0 END), 0) AS draws,
        COALESCE(SUM(CASE WHEN outcome = 'forfeit' THEN 1 ELSE 0 END), 0) AS forfeits
    FROM game_records
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.GameRecord, error) {
	var (
		record  models.GameRecord
		id      int64
		started sql.NullTime
	)
	err := row.Scan(&id, &record.RoomID, &record.Outcome, &record.Winner, &record.Board, &record.Moves,
		&record.PlayerX, &record.PlayerO, &record.Duration, &started, &record.FinishedAt)
	if err != nil {
		return nil, err
	}
	record.ID = uint(id)
	record.StartedAt = started.Time
	return &record, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
