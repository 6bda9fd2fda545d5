// Package protocol defines the JSON messages exchanged over a game connection.
//
// Every frame is a JSON object discriminated by its "type" field. Decode validates
// the shape once, at the boundary, and returns one of the concrete message types
// below, so game code never sees untyped payloads.
package protocol

import (
	"fmt"
)

type Type string

const (
	TypePlayerInfo  Type = "playerInfo"
	TypeRoomStatus  Type = "roomStatus"
	TypeMove        Type = "move"
	TypeBoardUpdate Type = "boardUpdate"
	TypeWin         Type = "win"
	TypeLose        Type = "lose"
	TypeDraw        Type = "draw"
	TypeError       Type = "error"
)

// Message is implemented by every concrete message type.
type Message interface {
	MessageType() Type
}

// PlayerInfo tells a freshly seated client its symbol and whether it moves first.
type PlayerInfo struct {
	Symbol   string `json:"symbol"`
	YourTurn bool   `json:"yourTurn"`
}

func (PlayerInfo) MessageType() Type { return TypePlayerInfo }

// RoomStatus reports how many players are seated in the room.
type RoomStatus struct {
	Status string `json:"status"`
}

func (RoomStatus) MessageType() Type { return TypeRoomStatus }

// NewRoomStatus builds the occupancy text shown by the web client.
func NewRoomStatus(seated int) RoomStatus {
	return RoomStatus{Status: fmt.Sprintf("Graczy w pokoju: %d", seated)}
}

// Move is a move attempt. Coordinates stay float64 so that non-integer values reach
// rule validation instead of failing as malformed JSON.
type Move struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

func (Move) MessageType() Type { return TypeMove }

// BoardUpdate carries a full board snapshot. Empty cells are "".
type BoardUpdate struct {
	Board    [3][3]string `json:"board"`
	YourTurn bool         `json:"yourTurn"`
}

func (BoardUpdate) MessageType() Type { return TypeBoardUpdate }

// Outcome is one of the field-less terminal messages: win, lose or draw.
type Outcome struct {
	kind Type
}

func (o Outcome) MessageType() Type { return o.kind }

var (
	Win  = Outcome{kind: TypeWin}
	Lose = Outcome{kind: TypeLose}
	Draw = Outcome{kind: TypeDraw}
)

// Error reports a rejected action to the client that attempted it.
type Error struct {
	Info string `json:"info"`
}

func (Error) MessageType() Type { return TypeError }

// NewError wraps err for the wire.
func NewError(err error) Error {
	return Error{Info: err.Error()}
}
