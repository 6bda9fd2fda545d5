package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/tictactoe/models"
	"github.com/wfunc/tictactoe/persistence"
	"github.com/wfunc/tictactoe/state"
)

// blockingDatabase holds every save until release is closed.
type blockingDatabase struct {
	*persistence.MemoryDatabase
	release chan struct{}
}

func (b *blockingDatabase) SaveGameRecord(ctx context.Context, record *models.GameRecord) error {
	<-b.release
	return b.MemoryDatabase.SaveGameRecord(ctx, record)
}

type failingDatabase struct {
	*persistence.MemoryDatabase
	mu    sync.Mutex
	calls int
}

func (f *failingDatabase) SaveGameRecord(ctx context.Context, record *models.GameRecord) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return errors.New("disk on fire")
}

func result(room string, outcome state.Outcome, winner state.Mark) state.Result {
	return state.Result{RoomID: room, Outcome: outcome, Winner: winner, Players: [2]string{"a", "b"}}
}

func TestRecordService_RecordAndQuery(t *testing.T) {
	db := persistence.NewMemoryDatabase()
	svc := NewRecordService(db, 8)

	svc.Record(result("room-1", state.OutcomeWin, state.X))
	svc.Record(result("room-2", state.OutcomeDraw, state.Empty))
	svc.Record(result("room-3", state.OutcomeForfeit, state.O))
	svc.Close()

	ctx := context.Background()
	recent, err := svc.RecentGames(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "room-3", recent[0].RoomID)

	all, err := svc.RecentGames(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeStats{TotalGames: 3, XWins: 1, OWins: 1, Draws: 1, Forfeits: 1}, summary)
}

func TestRecordService_DropsWhenFull(t *testing.T) {
	db := &blockingDatabase{MemoryDatabase: persistence.NewMemoryDatabase(), release: make(chan struct{})}
	svc := NewRecordService(db, 1)

	// The worker may already hold the first result, so at most two are accepted.
	for i := 0; i < 10; i++ {
		svc.Record(result("room", state.OutcomeWin, state.X))
	}
	close(db.release)
	svc.Close()

	recent, err := db.RecentGameRecords(context.Background(), 100)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(recent), 2)
	assert.GreaterOrEqual(t, len(recent), 1)
}

func TestRecordService_SaveErrorsAreLogged(t *testing.T) {
	db := &failingDatabase{MemoryDatabase: persistence.NewMemoryDatabase()}
	svc := NewRecordService(db, 4)

	svc.Record(result("room-1", state.OutcomeWin, state.X))
	svc.Record(result("room-2", state.OutcomeWin, state.O))
	svc.Close()

	assert.Equal(t, 2, db.calls)
}

func TestRecordService_RecordAfterClose(t *testing.T) {
	svc := NewRecordService(persistence.NewMemoryDatabase(), 4)
	svc.Close()
	svc.Close()

	assert.NotPanics(t, func() {
		svc.Record(result("room-1", state.OutcomeWin, state.X))
	})
}
