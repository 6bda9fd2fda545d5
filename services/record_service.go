// services/record_service.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/wfunc/tictactoe/logger"
	"github.com/wfunc/tictactoe/models"
	"github.com/wfunc/tictactoe/persistence"
	"github.com/wfunc/tictactoe/state"
)

const (
	DefaultQueueSize = 128
	MaxRecentGames   = 100
	saveTimeout      = 5 * time.Second
)

// RecordService 对局记录服务: writes finished games to the database off the event
// loop. Record never blocks; when the queue is full the result is dropped.
type RecordService struct {
	db    persistence.Database
	queue chan state.Result
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewRecordService(db persistence.Database, queueSize int) *RecordService {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	s := &RecordService{
		db:    db,
		queue: make(chan state.Result, queueSize),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

// Record queues result for storage.
func (s *RecordService) Record(result state.Result) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		logger.Log.Warnf("Record service closed, dropping result of room %s", result.RoomID)
		return
	}
	select {
	case s.queue <- result:
	default:
		logger.Log.Warnf("Record queue full, dropping result of room %s", result.RoomID)
	}
}

func (s *RecordService) run() {
	defer close(s.done)
	for result := range s.queue {
		s.save(result)
	}
}

func (s *RecordService) save(result state.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	record := models.NewGameRecord(result)
	if err := s.db.SaveGameRecord(ctx, record); err != nil {
		logger.Log.Errorf("Failed to save game record for room %s: %v", result.RoomID, err)
		return
	}
	logger.Log.Debugf("Saved game record %d for room %s", record.ID, result.RoomID)
}

// Close stops accepting results and waits until the queued ones are stored.
func (s *RecordService) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
}

// RecentGames returns up to limit games, newest first. limit is clamped to
// [1, MaxRecentGames].
func (s *RecordService) RecentGames(ctx context.Context, limit int) ([]models.GameRecord, error) {
	if limit <= 0 || limit > MaxRecentGames {
		limit = MaxRecentGames
	}
	return s.db.RecentGameRecords(ctx, limit)
}

// Summary 获取对局统计
func (s *RecordService) Summary(ctx context.Context) (models.OutcomeStats, error) {
	return s.db.GetOutcomeStats(ctx)
}
