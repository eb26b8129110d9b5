package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/0x0P/omok/internal/usecase"
)

type gameManager interface {
	CreateRoom(identity string) (*usecase.RoomEvent, error)
	JoinRoom(code, identity string) (*usecase.RoomEvent, error)
	PlaceStone(code, identity string, x, y int) *usecase.MoveEvent
	RequestRestart(code, identity string) *usecase.RestartEvent
	Leave(code, identity string) *usecase.LeaveEvent
}

const (
	socketBufferSize = 1024

	shutdownTimeout = 5 * time.Second
)

type Server struct {
	logger  *slog.Logger
	manager gameManager

	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*session

	handlers map[string]func(sess *session, message *Message)
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  socketBufferSize,
			WriteBufferSize: socketBufferSize,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: make(map[string]*session),
		handlers: make(map[string]func(*session, *Message)),
	}

	server.handlers[TypeCreateRoom] = server.handleCreateRoom
	server.handlers[TypeJoinRoom] = server.handleJoinRoom
	server.handlers[TypePlaceStone] = server.handlePlaceStone
	server.handlers[TypeRequestRestart] = server.handleRequestRestart
	server.handlers[TypeLeaveRoom] = server.handleLeaveRoom

	return server
}

// Start - starts the WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.ServeWS)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeWS upgrades the request, binds the connection to a client identity
// and runs its read loop. The client's token rides in the "client" query
// parameter; without one a fresh token is issued and echoed in "hello".
func (that *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeWS")

	identity := r.URL.Query().Get("client")
	if identity == "" {
		identity = uuid.NewString()
	}

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	sess := newSession(identity, conn)

	that.mu.Lock()
	that.sessions[identity] = sess
	that.mu.Unlock()

	go sess.writePump()

	that.send(sess, TypeHello, HelloPayload{ClientID: identity})

	log.Info("client connected", "identity", identity)

	that.readLoop(sess)
}

func (that *Server) readLoop(sess *session) {
	defer that.disconnect(sess)

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			that.logger.Debug("dropped malformed message", "identity", sess.id, "error", err)
			continue
		}

		handler, ok := that.handlers[message.Type]
		if !ok {
			that.logger.Debug("dropped unknown message type", "identity", sess.id, "type", message.Type)
			continue
		}

		handler(sess, &message)
	}
}

// disconnect treats a closed socket like an explicit leave_room.
func (that *Server) disconnect(sess *session) {
	that.prune(sess)
	that.leaveCurrentRoom(sess)

	that.logger.Info("client disconnected", "identity", sess.id)
}

// leaveCurrentRoom detaches the session from whatever room it is bound to,
// broadcasting the updated state to whoever remains. A session with no
// binding is left alone.
func (that *Server) leaveCurrentRoom(sess *session) {
	code := sess.roomCode
	if code == "" {
		return
	}
	sess.roomCode = ""

	if event := that.manager.Leave(code, sess.id); event != nil && !event.Deleted {
		that.broadcast(event.Recipients, TypeRoomUpdate, RoomPayload{Room: event.State})
	}
}

// prune unregisters a session and closes it in one step, so later fan-outs
// resolving the same identity find nothing instead of a dead channel. The
// session's read loop then errors out and surfaces the leave.
func (that *Server) prune(sess *session) {
	that.mu.Lock()
	if current, ok := that.sessions[sess.id]; ok && current == sess {
		delete(that.sessions, sess.id)
	}
	that.mu.Unlock()

	sess.close()
}

// send marshals and queues one message for a session. A failed queue means
// the receiver is dead or hopelessly backpressured; the session is pruned.
func (that *Server) send(sess *session, msgType string, payload any) {
	data, err := encode(msgType, payload)
	if err != nil {
		that.logger.Error("failed to encode message", "type", msgType, "error", err)
		return
	}

	if !sess.trySend(data) {
		that.logger.Warn("failed to deliver message, pruning connection", "identity", sess.id)
		that.prune(sess)
	}
}

// broadcast fans a message out to every listed identity, best-effort. A
// recipient without a live session is skipped; one bad connection never
// aborts the loop.
func (that *Server) broadcast(recipients []string, msgType string, payload any) {
	data, err := encode(msgType, payload)
	if err != nil {
		that.logger.Error("failed to encode message", "type", msgType, "error", err)
		return
	}

	for _, identity := range recipients {
		that.mu.RLock()
		sess, ok := that.sessions[identity]
		that.mu.RUnlock()

		if !ok {
			that.logger.Warn("connection not found for client", "identity", identity)
			continue
		}

		if !sess.trySend(data) {
			that.logger.Warn("failed to deliver message, pruning connection", "identity", sess.id)
			that.prune(sess)
		}
	}
}
