package room

import (
	"github.com/wfunc/tictactoe/protocol"
	"github.com/wfunc/tictactoe/session"
	"github.com/wfunc/tictactoe/state"
)

// Broadcaster delivers messages to sessions. Delivery is fail-safe: implementations
// log failures instead of returning them, and skip sessions whose transport is gone.
// This is defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	SendTo(s *session.Session, msg protocol.Message)
	// Broadcast sends each session the message built for it.
	Broadcast(sessions []*session.Session, build func(s *session.Session) protocol.Message)
}

// Recorder receives the result of every finished game. It must not block.
type Recorder interface {
	Record(result state.Result)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(result state.Result)

func (f RecorderFunc) Record(result state.Result) { f(result) }

// Metrics is the subset of monitoring the manager reports to.
type Metrics interface {
	GameFinished(outcome string)
	MoveRejected(reason string)
	SetActiveRooms(count int)
}
