// state/interfaces.go
package state

// NoSeat is returned by RoomContext.SeatOf for players that are not seated.
const NoSeat = -1

// Player defines the minimal interface for a player entity that a state needs to interact with.
type Player interface {
	GetID() string
}

// RoomContext defines the interface that a Room must implement to be managed by the state machine.
// This breaks the import cycle between room and state.
type RoomContext interface {
	GetID() string
	SeatedCount() int
	// SeatOf returns the seat of player, or NoSeat.
	SeatOf(player Player) int
	// PlayerAt returns the player in seat, or nil.
	PlayerAt(seat int) Player
	Game() *Game
	ChangeState(newState State) error
	// BroadcastBoard sends the current board to every seated player.
	BroadcastBoard()
	// BroadcastOutcome sends win, lose or draw to every seated player.
	BroadcastOutcome(result Result)
	RecordResult(result Result)
}
