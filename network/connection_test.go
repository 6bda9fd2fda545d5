package network

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	kind string
	data string
	conn Connection
}

type recordingHandler struct {
	events chan event
}

func (h *recordingHandler) OnOpen(conn Connection) {
	h.events <- event{kind: "open", conn: conn}
}

func (h *recordingHandler) OnMessage(conn Connection, data []byte) {
	h.events <- event{kind: "message", data: string(data), conn: conn}
}

func (h *recordingHandler) OnClose(conn Connection) {
	h.events <- event{kind: "close", conn: conn}
}

func (h *recordingHandler) next(t *testing.T) event {
	t.Helper()
	select {
	case ev := <-h.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for connection event")
		return event{}
	}
}

func newTestServer(t *testing.T, h Handler) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewWSConnection("conn-1", ws, Options{SendBuffer: 4}).Serve(h)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSConnection_Lifecycle(t *testing.T) {
	h := &recordingHandler{events: make(chan event, 16)}
	url := newTestServer(t, h)

	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	open := h.next(t)
	require.Equal(t, "open", open.kind)
	assert.Equal(t, "conn-1", open.conn.ID())
	assert.False(t, open.conn.Closed())

	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte("first")))
	require.NoError(t, client.WriteMessage(websocket.TextMessage, []byte("second")))
	assert.Equal(t, "first", h.next(t).data)
	assert.Equal(t, "second", h.next(t).data)

	require.NoError(t, open.conn.Send([]byte("hello")))
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	client.Close()
	closeEv := h.next(t)
	assert.Equal(t, "close", closeEv.kind)
	assert.True(t, closeEv.conn.Closed())
	assert.ErrorIs(t, closeEv.conn.Send([]byte("late")), ErrConnectionClosed)

	select {
	case ev := <-h.events:
		t.Fatalf("unexpected event after close: %s", ev.kind)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWSConnection_ServerClose(t *testing.T) {
	h := &recordingHandler{events: make(chan event, 16)}
	url := newTestServer(t, h)

	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	open := h.next(t)
	require.NoError(t, open.conn.Close())
	require.NoError(t, open.conn.Close())

	assert.Equal(t, "close", h.next(t).kind)
	assert.True(t, open.conn.Closed())
}
