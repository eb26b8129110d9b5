package usecase

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/0x0P/omok/internal/apperror"
	"github.com/0x0P/omok/internal/entity"
)

type roomRepo interface {
	Create() (*entity.Room, error)
	GetByCode(code string) (*entity.Room, error)
	DeleteByCode(code string) error
}

// RoomEvent is the broadcastable outcome of an operation: a snapshot of the
// room's public state and the identities attached at that moment. Snapshots
// are taken while the manager lock is held, so the gateway can fan out
// without touching live room state.
type RoomEvent struct {
	State      *entity.RoomState
	Recipients []string
}

// MoveEvent describes an accepted move. The gateway turns it into a "move"
// broadcast, or "game_end" when Won is set.
type MoveEvent struct {
	RoomEvent
	X     int
	Y     int
	Color entity.Stone
	Turn  entity.Stone
	Won   bool
}

// RestartEvent reports restart-consensus progress: either the vote tally so
// far, or the executed reset.
type RestartEvent struct {
	RoomEvent
	Restarted bool
	Votes     int
}

// LeaveEvent reports a departure. State is nil once the last connection has
// drained and the room was deleted.
type LeaveEvent struct {
	RoomEvent
	Deleted bool
}

// GameManager is the turn-based state machine over the room registry. One
// mutex serializes every operation, so for any room the effective order of
// applied operations is the arrival order of messages, and turn enforcement
// is a plain equality check.
type GameManager struct {
	logger *slog.Logger

	mu    sync.Mutex
	rooms roomRepo
	rng   *rand.Rand
}

func NewGameManager(logger *slog.Logger, rooms roomRepo, rng *rand.Rand) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),
		rooms:  rooms,
		rng:    rng,
	}
}

// CreateRoom makes a fresh room with the creator attached.
func (that *GameManager) CreateRoom(identity string) (*RoomEvent, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.rooms.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	room.Attach(identity)

	that.logger.Info("room created", "code", room.Code, "identity", identity)

	return snapshot(room), nil
}

// CreateDetachedRoom makes a room with no connections, for callers that want
// an invite code before opening a socket.
func (that *GameManager) CreateDetachedRoom() (*entity.RoomState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.rooms.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	that.logger.Info("room created", "code", room.Code)

	return room.Public(), nil
}

// JoinRoom attaches the identity's connection to the room. When the second
// seat fills, colors are dealt and the game starts. The returned event is
// broadcast whether or not colors were assigned.
func (that *GameManager) JoinRoom(code, identity string) (*RoomEvent, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.rooms.GetByCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to join room %s: %w", code, err)
	}

	if _, connected := room.Conns[identity]; !connected && room.IsFull() {
		return nil, fmt.Errorf("failed to join room %s: %w", code, apperror.ErrRoomFull)
	}

	room.Attach(identity)

	if room.CanAssignColors() {
		room.AssignColors(that.rng)
		that.logger.Info("game started", "code", room.Code)
	}

	return snapshot(room), nil
}

// PlaceStone applies a move. Stale or illegal moves (unknown room, game not
// running, wrong turn, bad coordinate, occupied cell) return nil with no
// state change; tolerating them silently is policy, not an error.
func (that *GameManager) PlaceStone(code, identity string, x, y int) *MoveEvent {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.rooms.GetByCode(code)
	if err != nil {
		return nil
	}

	player, ok := room.Players[identity]
	if !ok {
		return nil
	}
	color := player.Color

	won, applied := room.PlaceStone(identity, x, y)
	if !applied {
		that.logger.Debug("move ignored", "code", code, "identity", identity, "x", x, "y", y)
		return nil
	}

	if won {
		that.logger.Info("game won", "code", code, "winner", color)
	}

	return &MoveEvent{
		RoomEvent: *snapshot(room),
		X:         x,
		Y:         y,
		Color:     color,
		Turn:      room.Turn,
		Won:       won,
	}
}

// RequestRestart records a rematch vote. The reset runs once every occupant
// has voted (a solo occupant restarts alone); until then the tally is
// reported so clients can show progress.
func (that *GameManager) RequestRestart(code, identity string) *RestartEvent {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.rooms.GetByCode(code)
	if err != nil {
		return nil
	}

	votes := room.VoteRestart(identity)
	if votes < room.RestartQuorum() {
		return &RestartEvent{RoomEvent: *snapshot(room), Votes: votes}
	}

	room.Reset()

	that.logger.Info("game restarted", "code", code)

	return &RestartEvent{RoomEvent: *snapshot(room), Restarted: true}
}

// Leave detaches the identity, dropping its seat and score. The room is
// deleted once its last connection is gone.
func (that *GameManager) Leave(code, identity string) *LeaveEvent {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.rooms.GetByCode(code)
	if err != nil {
		return nil
	}

	room.Detach(identity)

	if room.IsEmpty() {
		if err = that.rooms.DeleteByCode(code); err != nil {
			that.logger.Error("failed to delete room", "code", code, "error", err)
		}

		that.logger.Info("room deleted", "code", code)

		return &LeaveEvent{Deleted: true}
	}

	return &LeaveEvent{RoomEvent: *snapshot(room)}
}

func snapshot(room *entity.Room) *RoomEvent {
	recipients := make([]string, 0, len(room.Conns))
	for identity := range room.Conns {
		recipients = append(recipients, identity)
	}

	return &RoomEvent{State: room.Public(), Recipients: recipients}
}
