package entity

import (
	"math/rand"
	"sort"
	"time"
)

// RoomSeats is the number of players a room holds.
const RoomSeats = 2

type Player struct {
	Color Stone `json:"color"`
	Score int   `json:"score"`
}

// Room is one live game session. Players maps client identity tokens to
// their seat; Conns is the set of identities with a live connection.
// Conns and RestartVotes are server-internal and never serialized.
type Room struct {
	Code         string
	CreatedAt    time.Time
	Players      map[string]*Player
	Conns        map[string]struct{}
	Board        Board
	Turn         Stone
	Started      bool
	Winner       Stone
	RestartVotes map[string]struct{}
}

// RoomState is the client-visible projection of a Room, the payload of every
// room-wide broadcast.
type RoomState struct {
	Code    string             `json:"code"`
	Players map[string]*Player `json:"players"`
	Board   Board              `json:"board"`
	Turn    Stone              `json:"turn"`
	Started bool               `json:"started"`
	Winner  Stone              `json:"winner"`
}

func NewRoom(code string) *Room {
	return &Room{
		Code:         code,
		CreatedAt:    time.Now(),
		Players:      make(map[string]*Player),
		Conns:        make(map[string]struct{}),
		Board:        NewBoard(),
		Turn:         Black,
		RestartVotes: make(map[string]struct{}),
	}
}

// Public returns the projection safe to send to clients. Player entries are
// copied so callers cannot reach back into the live room.
func (that *Room) Public() *RoomState {
	players := make(map[string]*Player, len(that.Players))
	for identity, player := range that.Players {
		copied := *player
		players[identity] = &copied
	}

	return &RoomState{
		Code:    that.Code,
		Players: players,
		Board:   that.Board,
		Turn:    that.Turn,
		Started: that.Started,
		Winner:  that.Winner,
	}
}

func (that *Room) IsFull() bool {
	return len(that.Conns) >= RoomSeats
}

func (that *Room) IsEmpty() bool {
	return len(that.Conns) == 0
}

// Attach binds the identity's connection to the room, registering a fresh
// seat (color None, score 0) when the identity is new.
func (that *Room) Attach(identity string) {
	that.Conns[identity] = struct{}{}

	if _, ok := that.Players[identity]; !ok {
		that.Players[identity] = &Player{Color: None}
	}
}

// Detach removes the identity's connection and seat. A game cannot continue
// with a missing player, so the room drops back to not-started with no
// winner. The departing player's score goes with the seat.
func (that *Room) Detach(identity string) {
	delete(that.Conns, identity)
	delete(that.Players, identity)
	delete(that.RestartVotes, identity)

	that.Started = false
	that.Winner = None
}

// CanAssignColors reports whether the room is at the "both seats filled"
// transition: two live connections and exactly two distinct identities.
func (that *Room) CanAssignColors() bool {
	return len(that.Conns) == RoomSeats && len(that.Players) == RoomSeats
}

// AssignColors deals {Black, White} to the two seated identities by a fair
// coin flip, starts the game and resets the turn to Black. Votes from any
// earlier pairing are discarded. Identities are ordered before the flip so
// a seeded rng yields a reproducible assignment.
func (that *Room) AssignColors(rng *rand.Rand) {
	identities := make([]string, 0, len(that.Players))
	for identity := range that.Players {
		identities = append(identities, identity)
	}
	sort.Strings(identities)

	colors := [RoomSeats]Stone{Black, White}
	if rng.Intn(2) == 0 {
		colors[0], colors[1] = colors[1], colors[0]
	}

	for i, identity := range identities {
		that.Players[identity].Color = colors[i]
	}

	that.Started = true
	that.Turn = Black
	that.RestartVotes = make(map[string]struct{})
}

// PlaceStone validates and applies a move by the given identity. Illegal
// moves are reported as not applied, with no state change. A winning move
// sets the winner and bumps the player's score; otherwise the turn flips.
func (that *Room) PlaceStone(identity string, x, y int) (won, applied bool) {
	if !that.Started || that.Winner != None {
		return false, false
	}

	player, ok := that.Players[identity]
	if !ok || player.Color == None || player.Color != that.Turn {
		return false, false
	}

	if !InBounds(x, y) || that.Board[y][x] != None {
		return false, false
	}

	that.Board[y][x] = player.Color

	if that.Board.CheckWin(x, y) {
		that.Winner = player.Color
		player.Score++
		return true, true
	}

	that.Turn = that.Turn.Other()

	return false, true
}

// RestartQuorum is the number of distinct votes needed to reset the game:
// both occupants of a full room, or the solo occupant alone.
func (that *Room) RestartQuorum() int {
	if len(that.Conns) < RoomSeats {
		return len(that.Conns)
	}
	return RoomSeats
}

// VoteRestart records the identity's rematch vote and reports the tally.
func (that *Room) VoteRestart(identity string) int {
	that.RestartVotes[identity] = struct{}{}
	return len(that.RestartVotes)
}

// Reset wipes the board for a rematch. The game restarts immediately only
// when both seats are still connected; colors and scores are kept.
func (that *Room) Reset() {
	that.Board = NewBoard()
	that.Turn = Black
	that.Winner = None
	that.Started = len(that.Conns) >= RoomSeats
	that.RestartVotes = make(map[string]struct{})
}
