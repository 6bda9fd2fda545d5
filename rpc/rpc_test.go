package rpc

import (
	"context"
	"net"
	"net/rpc"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/tictactoe/persistence"
	"github.com/wfunc/tictactoe/room"
	"github.com/wfunc/tictactoe/services"
	"github.com/wfunc/tictactoe/state"
)

type fakeLiveStats struct {
	stats    room.Stats
	sessions int
}

func (f fakeLiveStats) RoomStats(ctx context.Context) (room.Stats, error) { return f.stats, nil }
func (f fakeLiveStats) SessionCount() int                                 { return f.sessions }

func newTestClient(t *testing.T) *rpc.Client {
	t.Helper()

	records := services.NewRecordService(persistence.NewMemoryDatabase(), 4)
	records.Record(state.Result{RoomID: "room-1", Outcome: state.OutcomeWin, Winner: state.X})
	records.Record(state.Result{RoomID: "room-2", Outcome: state.OutcomeDraw})
	records.Close()

	live := fakeLiveStats{stats: room.Stats{Rooms: 2, Players: 3, Open: 1, Active: 1}, sessions: 4}
	srv, err := NewServer("127.0.0.1:0", NewGameService(live, records))
	require.NoError(t, err)
	go srv.Start()
	t.Cleanup(srv.Stop)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	client := rpc.NewClient(conn)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestGameService_Stats(t *testing.T) {
	client := newTestClient(t)

	var live StatsReply
	require.NoError(t, client.Call("GameService.Stats", &StatsArgs{}, &live))
	assert.Equal(t, 4, live.Sessions)
	assert.Zero(t, live.Games.TotalGames)

	var reply StatsReply
	require.NoError(t, client.Call("GameService.Stats", &StatsArgs{IncludeHistory: true}, &reply))

	assert.Equal(t, 2, reply.Rooms.Rooms)
	assert.Equal(t, 3, reply.Rooms.Players)
	assert.Equal(t, 4, reply.Sessions)
	assert.Equal(t, 2, reply.Games.TotalGames)
	assert.Equal(t, 1, reply.Games.XWins)
	assert.Equal(t, 1, reply.Games.Draws)
}

func TestGameService_RecentGames(t *testing.T) {
	client := newTestClient(t)

	var reply RecentGamesReply
	require.NoError(t, client.Call("GameService.RecentGames", &RecentGamesArgs{Limit: 1}, &reply))

	require.Len(t, reply.Games, 1)
	assert.Equal(t, "room-2", reply.Games[0].RoomID)
}
