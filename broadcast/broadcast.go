// broadcast/broadcast.go
package broadcast

import (
	"github.com/wfunc/tictactoe/logger"
	"github.com/wfunc/tictactoe/protocol"
	"github.com/wfunc/tictactoe/session"
)

// Counter is told about every message the broadcaster delivers or drops.
type Counter interface {
	MessageSent(msgType string)
	MessageDropped(msgType string)
}

// 基于会话的广播器. Send failures are logged and swallowed so one broken connection
// never interrupts delivery to the rest of a room.
type SessionBroadcaster struct {
	counter Counter
}

// NewSessionBroadcaster creates a broadcaster. counter may be nil.
func NewSessionBroadcaster(counter Counter) *SessionBroadcaster {
	return &SessionBroadcaster{counter: counter}
}

// SendTo delivers msg to s unless its connection has already gone away.
func (b *SessionBroadcaster) SendTo(s *session.Session, msg protocol.Message) {
	msgType := string(msg.MessageType())
	if !s.Alive() {
		b.dropped(msgType)
		return
	}
	if err := s.Send(msg); err != nil {
		// 处理发送错误: the read side will observe the close and clean up
		logger.Log.Warnf("Send %s to session %s failed: %v", msgType, s.GetID(), err)
		b.dropped(msgType)
		return
	}
	if b.counter != nil {
		b.counter.MessageSent(msgType)
	}
}

// Broadcast sends each session the message build returns for it.
func (b *SessionBroadcaster) Broadcast(sessions []*session.Session, build func(s *session.Session) protocol.Message) {
	for _, s := range sessions {
		b.SendTo(s, build(s))
	}
}

func (b *SessionBroadcaster) dropped(msgType string) {
	if b.counter != nil {
		b.counter.MessageDropped(msgType)
	}
}
