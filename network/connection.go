// network/connection.go
package network

import (
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wfunc/tictactoe/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	DefaultSendBuffer     = 256
	DefaultMaxMessageSize = 4096
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("send buffer full")
)

// Connection is one client's duplex message channel.
type Connection interface {
	ID() string
	// Send queues a text frame. It never blocks; a closed or congested
	// connection reports an error instead.
	Send(data []byte) error
	Close() error
	// Closed reports whether the transport has already shut down, even if the
	// close notification has not been handled yet.
	Closed() bool
	RemoteAddr() net.Addr
}

// Handler receives the lifecycle of every connection. OnClose is called exactly once,
// after the last OnMessage.
type Handler interface {
	OnOpen(conn Connection)
	OnMessage(conn Connection, data []byte)
	OnClose(conn Connection)
}

type Options struct {
	SendBuffer     int
	MaxMessageSize int64
}

type WSConnection struct {
	id             string
	conn           *websocket.Conn
	send           chan []byte
	done           chan struct{}
	closeOnce      sync.Once
	closed         atomic.Bool
	maxMessageSize int64
}

func NewWSConnection(id string, conn *websocket.Conn, opts Options) *WSConnection {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = DefaultSendBuffer
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = DefaultMaxMessageSize
	}
	return &WSConnection{
		id:             id,
		conn:           conn,
		send:           make(chan []byte, opts.SendBuffer),
		done:           make(chan struct{}),
		maxMessageSize: opts.MaxMessageSize,
	}
}

func (c *WSConnection) ID() string {
	return c.id
}

func (c *WSConnection) Send(data []byte) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}
	select {
	case <-c.done:
		return ErrConnectionClosed
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Serve reports the connection to h and pumps frames until the peer goes away.
// It blocks, so callers run it on the goroutine that accepted the connection.
func (c *WSConnection) Serve(h Handler) {
	h.OnOpen(c)
	go c.writePump()
	c.readPump(h)
}

func (c *WSConnection) readPump(h Handler) {
	defer func() {
		c.shutdown()
		c.conn.Close()
		h.OnClose(c)
	}()

	c.conn.SetReadLimit(c.maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logger.Log.Warnf("Read error on connection %s: %v", c.id, err)
			}
			return
		}
		h.OnMessage(c, data)
	}
}

func (c *WSConnection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.shutdown()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown()
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *WSConnection) shutdown() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
	})
}

// Close asks the write pump to send a close frame and drop the socket; the read
// pump then observes the error and fires OnClose.
func (c *WSConnection) Close() error {
	c.shutdown()
	return nil
}

func (c *WSConnection) Closed() bool {
	return c.closed.Load()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
