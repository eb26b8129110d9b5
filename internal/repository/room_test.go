package repository

import (
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0P/omok/internal/apperror"
)

func newTestRepo() RoomRepository {
	return NewRoomRepository(rand.New(rand.NewSource(1)))
}

func TestRoomRepository_Create(t *testing.T) {
	t.Run("Generates a six-character uppercase alphanumeric code", func(t *testing.T) {
		// Given: a seeded registry
		repo := newTestRepo()

		// When: creating a room
		room, err := repo.Create()
		require.NoError(t, err)

		// Then: the code matches the invite format
		assert.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{6}$`), room.Code)
	})

	t.Run("Registers the room under its code", func(t *testing.T) {
		repo := newTestRepo()

		room, err := repo.Create()
		require.NoError(t, err)

		found, err := repo.GetByCode(room.Code)
		require.NoError(t, err)
		assert.Same(t, room, found)
	})

	t.Run("Initializes a waiting room with an empty board", func(t *testing.T) {
		repo := newTestRepo()

		room, err := repo.Create()
		require.NoError(t, err)

		assert.False(t, room.Started)
		assert.Empty(t, room.Players)
		assert.True(t, room.IsEmpty())
	})

	t.Run("Never hands out a duplicate code", func(t *testing.T) {
		// Given: many rooms from one registry
		repo := newTestRepo()
		seen := make(map[string]struct{})

		// When/Then: every created code is unique
		for i := 0; i < 500; i++ {
			room, err := repo.Create()
			require.NoError(t, err)

			_, dup := seen[room.Code]
			require.False(t, dup, "duplicate code %s", room.Code)
			seen[room.Code] = struct{}{}
		}
	})
}

func TestRoomRepository_GetByCode(t *testing.T) {
	t.Run("Returns ErrRoomNotFound for an unknown code", func(t *testing.T) {
		repo := newTestRepo()

		_, err := repo.GetByCode("NOPE42")

		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}

func TestRoomRepository_DeleteByCode(t *testing.T) {
	t.Run("Removes the room from the registry", func(t *testing.T) {
		// Given: a registered room
		repo := newTestRepo()
		room, err := repo.Create()
		require.NoError(t, err)

		// When: deleting it
		require.NoError(t, repo.DeleteByCode(room.Code))

		// Then: it is no longer resolvable
		_, err = repo.GetByCode(room.Code)
		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Returns ErrRoomNotFound for an unknown code", func(t *testing.T) {
		repo := newTestRepo()

		err := repo.DeleteByCode("NOPE42")

		assert.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}
