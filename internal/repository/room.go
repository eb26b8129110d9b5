package repository

import (
	"math/rand"
	"sync"

	"github.com/0x0P/omok/internal/apperror"
	"github.com/0x0P/omok/internal/entity"
)

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type RoomRepository interface {
	Create() (*entity.Room, error)
	GetByCode(code string) (*entity.Room, error)
	DeleteByCode(code string) error
}

// inMemoryRooms is the process-local room registry. Rooms live here from
// creation until their last connection drains; nothing survives a restart.
type inMemoryRooms struct {
	mu    sync.RWMutex
	rng   *rand.Rand
	rooms map[string]*entity.Room
}

// NewRoomRepository builds a registry drawing invite codes from rng. The
// source is injected so tests can seed it.
func NewRoomRepository(rng *rand.Rand) RoomRepository {
	return &inMemoryRooms{
		rng:   rng,
		rooms: make(map[string]*entity.Room),
	}
}

func (that *inMemoryRooms) Create() (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	// Collisions are unlikely at this code length but not impossible;
	// regenerate until the code is free rather than overwrite a live room.
	code := that.generateCode()
	for _, taken := that.rooms[code]; taken; _, taken = that.rooms[code] {
		code = that.generateCode()
	}

	room := entity.NewRoom(code)
	that.rooms[code] = room

	return room, nil
}

func (that *inMemoryRooms) GetByCode(code string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[code]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room, nil
}

func (that *inMemoryRooms) DeleteByCode(code string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[code]; !ok {
		return apperror.ErrRoomNotFound
	}

	delete(that.rooms, code)

	return nil
}

func (that *inMemoryRooms) generateCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeAlphabet[that.rng.Intn(len(codeAlphabet))]
	}

	return string(code)
}
