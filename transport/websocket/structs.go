package websocket

import (
	"encoding/json"

	"github.com/0x0P/omok/internal/entity"
)

// Inbound message types.
const (
	TypeCreateRoom     = "create_room"
	TypeJoinRoom       = "join_room"
	TypePlaceStone     = "place_stone"
	TypeRequestRestart = "request_restart"
	TypeLeaveRoom      = "leave_room"
)

// Outbound message types.
const (
	TypeHello       = "hello"
	TypeRoomCreated = "room_created"
	TypeRoomUpdate  = "room_update"
	TypeMove        = "move"
	TypeGameEnd     = "game_end"
	TypeRestart     = "restart"
	TypeRestartVote = "restart_vote"
	TypeError       = "error"
)

// Message is the wire envelope, one JSON object per websocket message.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinRoomPayload struct {
	Code string `json:"code"`
}

type PlaceStonePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type HelloPayload struct {
	ClientID string `json:"clientId"`
}

type RoomPayload struct {
	Room *entity.RoomState `json:"room"`
}

type MovePayload struct {
	X     int          `json:"x"`
	Y     int          `json:"y"`
	Color entity.Stone `json:"color"`
	Turn  entity.Stone `json:"turn"`
}

type GameEndPayload struct {
	Winner  entity.Stone              `json:"winner"`
	Board   entity.Board              `json:"board"`
	Players map[string]*entity.Player `json:"players"`
}

type RestartVotePayload struct {
	Votes int `json:"votes"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func encode(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Type: msgType, Payload: raw})
}
