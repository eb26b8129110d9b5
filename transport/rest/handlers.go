package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/0x0P/omok/internal/entity"
)

type roomCreator interface {
	CreateDetachedRoom() (*entity.RoomState, error)
}

type Handlers interface {
	CreateRoomHandler(w http.ResponseWriter, r *http.Request)
	PingHandler(w http.ResponseWriter, _ *http.Request)
}

type handlers struct {
	logger *slog.Logger
	rooms  roomCreator
}

func NewHandlers(logger *slog.Logger, rooms roomCreator) Handlers {
	return &handlers{
		logger: logger.With("component", "rest"),
		rooms:  rooms,
	}
}

type CreateRoomResponse struct {
	Code string `json:"code"`
}

// CreateRoomHandler makes a room without a websocket connection and returns
// its invite code, for collaborators that want a code before dialing in.
func (that *handlers) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "CreateRoomHandler")

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, err := that.rooms.CreateDetachedRoom()
	if err != nil {
		log.Error("failed to create room", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err = json.NewEncoder(w).Encode(CreateRoomResponse{Code: state.Code}); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

func (that *handlers) PingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
