package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wfunc/tictactoe/logger"
	"github.com/wfunc/tictactoe/monitor"
	"github.com/wfunc/tictactoe/network"
	"github.com/wfunc/tictactoe/protocol"
	"github.com/wfunc/tictactoe/room"
	"github.com/wfunc/tictactoe/session"
)

var ErrStopped = errors.New("dispatcher stopped")

type eventKind int

const (
	eventOpen eventKind = iota
	eventMessage
	eventClose
	eventQuery
)

type event struct {
	kind     eventKind
	conn     network.Connection
	data     []byte
	received time.Time
	query    func()
}

// Dispatcher serializes every connection event onto one goroutine. Read pumps only
// enqueue; sessions, rooms and boards are touched exclusively inside Run, so the game
// code needs no locks.
type Dispatcher struct {
	events   chan event
	stopped  chan struct{}
	rooms    *room.Manager
	sessions *session.Manager
	monitor  *monitor.Monitor
}

func NewDispatcher(rooms *room.Manager, sessions *session.Manager, mon *monitor.Monitor) *Dispatcher {
	return &Dispatcher{
		events:   make(chan event, 256),
		stopped:  make(chan struct{}),
		rooms:    rooms,
		sessions: sessions,
		monitor:  mon,
	}
}

// Run handles events until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.stopped)
	for {
		select {
		case ev := <-d.events:
			d.handle(ev)
		case <-ctx.Done():
			logger.Log.Info("Dispatcher stopped")
			return
		}
	}
}

func (d *Dispatcher) enqueue(ev event) bool {
	select {
	case d.events <- ev:
		return true
	case <-d.stopped:
		return false
	}
}

// --- network.Handler, called from the connection goroutines ---

func (d *Dispatcher) OnOpen(conn network.Connection) {
	d.enqueue(event{kind: eventOpen, conn: conn})
}

func (d *Dispatcher) OnMessage(conn network.Connection, data []byte) {
	d.enqueue(event{kind: eventMessage, conn: conn, data: data, received: time.Now()})
}

func (d *Dispatcher) OnClose(conn network.Connection) {
	d.enqueue(event{kind: eventClose, conn: conn})
}

// Do runs fn on the event loop and waits for it to finish.
func (d *Dispatcher) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	ev := event{kind: eventQuery, query: func() {
		fn()
		close(finished)
	}}

	select {
	case d.events <- ev:
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RoomStats reads the room counters on the event loop.
func (d *Dispatcher) RoomStats(ctx context.Context) (room.Stats, error) {
	var stats room.Stats
	err := d.Do(ctx, func() {
		stats = d.rooms.Stats()
	})
	return stats, err
}

// --- event loop ---

func (d *Dispatcher) handle(ev event) {
	switch ev.kind {
	case eventOpen:
		d.handleOpen(ev.conn)
	case eventMessage:
		d.handleMessage(ev.conn, ev.data)
		d.monitor.ObserveMessageLatency(time.Since(ev.received))
	case eventClose:
		d.handleClose(ev.conn)
	case eventQuery:
		ev.query()
	}
}

func (d *Dispatcher) handleOpen(conn network.Connection) {
	sess := session.NewSession(conn.ID(), conn)
	d.sessions.Add(sess)
	d.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())
	d.rooms.AssignRoom(sess)
}

func (d *Dispatcher) handleMessage(conn network.Connection, data []byte) {
	sess, exists := d.sessions.Get(conn.ID())
	if !exists {
		return
	}
	sess.Touch()
	d.monitor.IncMessagesReceived()

	msg, err := protocol.Decode(data)
	if err != nil {
		logger.Log.Debugf("Session %s sent a bad frame: %v", sess.GetID(), err)
		d.rooms.Reject(sess, err)
		return
	}

	switch m := msg.(type) {
	case protocol.Move:
		if err := d.rooms.HandleMove(sess, m); err != nil {
			logger.Log.Debugf("Session %s move rejected: %v", sess.GetID(), err)
		}
	default:
		d.rooms.Reject(sess, fmt.Errorf("%w: %s", protocol.ErrUnexpectedType, msg.MessageType()))
	}
}

func (d *Dispatcher) handleClose(conn network.Connection) {
	sess, exists := d.sessions.Get(conn.ID())
	if !exists {
		return
	}
	d.sessions.Remove(sess.GetID())
	d.monitor.DecOnlinePlayers()

	logger.Log.Infof("Connection closed from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())
	d.rooms.Leave(sess)
}
