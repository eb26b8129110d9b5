package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
)

const sendBufferSize = 256

// session binds one live connection to a client identity and, after a
// create/join, to a room code. The gateway owns this record; the transport
// handle itself carries no game state.
type session struct {
	id       string
	roomCode string

	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newSession(id string, conn *websocket.Conn) *session {
	return &session{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// writePump drains the send channel onto the socket. It exits when the
// channel closes or a write fails, closing the socket either way so the
// read loop unblocks.
func (that *session) writePump() {
	for msg := range that.send {
		if err := that.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}

	that.conn.Close()
}

// trySend queues one frame without blocking. It reports false when the
// session is already closed or its buffer is full; it never panics, so a
// racing close degrades a send to a skip.
func (that *session) trySend(data []byte) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return false
	}

	select {
	case that.send <- data:
		return true
	default:
		return false
	}
}

// close shuts the send channel exactly once; writePump then tears down the
// socket. Held under the same mutex as trySend so no send can hit a closed
// channel.
func (that *session) close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return
	}

	that.closed = true
	close(that.send)
}
