package persistence

import (
	"fmt"

	"github.com/wfunc/tictactoe/config"
)

// Open returns the game history store selected by cfg.Driver.
func Open(cfg config.DatabaseConfig) (Database, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryDatabase(), nil
	case "gorm":
		return NewGormPostgreSQL(cfg.Postgres.DSN())
	case "pq":
		return NewPostgreSQL(cfg.Postgres.DSN())
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
