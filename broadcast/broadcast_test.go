package broadcast

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wfunc/tictactoe/network"
	"github.com/wfunc/tictactoe/protocol"
	"github.com/wfunc/tictactoe/session"
)

type mockConnection struct {
	sent    []string
	closed  bool
	sendErr error
}

func (m *mockConnection) ID() string { return "mock" }
func (m *mockConnection) Send(data []byte) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, string(data))
	return nil
}
func (m *mockConnection) Close() error         { m.closed = true; return nil }
func (m *mockConnection) Closed() bool         { return m.closed }
func (m *mockConnection) RemoteAddr() net.Addr { return &net.TCPAddr{} }

type mockCounter struct {
	sent, dropped map[string]int
}

func (c *mockCounter) MessageSent(t string)    { c.sent[t]++ }
func (c *mockCounter) MessageDropped(t string) { c.dropped[t]++ }

func TestSessionBroadcaster_Broadcast(t *testing.T) {
	counter := &mockCounter{sent: map[string]int{}, dropped: map[string]int{}}
	b := NewSessionBroadcaster(counter)

	live := &mockConnection{}
	dead := &mockConnection{closed: true}
	full := &mockConnection{sendErr: network.ErrSendBufferFull}
	sessions := []*session.Session{
		session.NewSession("live", live),
		session.NewSession("dead", dead),
		session.NewSession("full", full),
	}

	b.Broadcast(sessions, func(s *session.Session) protocol.Message {
		return protocol.NewRoomStatus(2)
	})

	assert.Equal(t, []string{`{"type":"roomStatus","status":"Graczy w pokoju: 2"}`}, live.sent)
	assert.Empty(t, dead.sent)
	assert.Empty(t, full.sent)
	assert.Equal(t, 1, counter.sent["roomStatus"])
	assert.Equal(t, 2, counter.dropped["roomStatus"])
}

func TestSessionBroadcaster_PerSessionMessages(t *testing.T) {
	b := NewSessionBroadcaster(nil)
	first, second := &mockConnection{}, &mockConnection{}
	sessions := []*session.Session{session.NewSession("a", first), session.NewSession("b", second)}

	b.Broadcast(sessions, func(s *session.Session) protocol.Message {
		if s.ID == "a" {
			return protocol.Win
		}
		return protocol.Lose
	})

	assert.Equal(t, []string{`{"type":"win"}`}, first.sent)
	assert.Equal(t, []string{`{"type":"lose"}`}, second.sent)
}
