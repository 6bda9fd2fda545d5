package persistence

import (
	"context"
	"sync"

	"github.com/wfunc/tictactoe/models"
)

// MemoryDatabase keeps game history in process memory. It is the default driver and
// the store used by tests.
type MemoryDatabase struct {
	mu      sync.RWMutex
	records []models.GameRecord
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{}
}

func (m *MemoryDatabase) SaveGameRecord(ctx context.Context, record *models.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record.ID = uint(len(m.records) + 1)
	m.records = append(m.records, *record)
	return nil
}

func (m *MemoryDatabase) LoadGameRecord(ctx context.Context, id uint) (*models.GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id == 0 || int(id) > len(m.records) {
		return nil, ErrRecordNotFound
	}
	record := m.records[id-1]
	return &record, nil
}

func (m *MemoryDatabase) RecentGameRecords(ctx context.Context, limit int) ([]models.GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit > len(m.records) {
		limit = len(m.records)
	}
	recent := make([]models.GameRecord, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(recent) < limit; i-- {
		recent = append(recent, m.records[i])
	}
	return recent, nil
}

func (m *MemoryDatabase) GetOutcomeStats(ctx context.Context) (models.OutcomeStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var stats models.OutcomeStats
	for _, r := range m.records {
		stats.Add(r)
	}
	return stats, nil
}

func (m *MemoryDatabase) Close() error {
	return nil
}
