package websocket

import (
	"encoding/json"
	"errors"

	"github.com/0x0P/omok/internal/apperror"
)

func (that *Server) handleCreateRoom(sess *session, _ *Message) {
	log := that.logger.With("method", "handleCreateRoom")

	// A fresh room replaces any current binding; the old room must see the
	// departure or it would hold a phantom connection forever.
	that.leaveCurrentRoom(sess)

	event, err := that.manager.CreateRoom(sess.id)
	if err != nil {
		log.Error("failed to create room", "identity", sess.id, "error", err)
		that.sendError(sess, "failed to create room")
		return
	}

	sess.roomCode = event.State.Code

	that.broadcast(event.Recipients, TypeRoomCreated, RoomPayload{Room: event.State})
}

func (that *Server) handleJoinRoom(sess *session, message *Message) {
	log := that.logger.With("method", "handleJoinRoom")

	var payload JoinRoomPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		log.Debug("dropped malformed payload", "identity", sess.id, "error", err)
		return
	}

	// Moving to a different room means leaving the current one first.
	if sess.roomCode != payload.Code {
		that.leaveCurrentRoom(sess)
	}

	event, err := that.manager.JoinRoom(payload.Code, sess.id)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		that.sendError(sess, "room not found")
		return
	}
	if errors.Is(err, apperror.ErrRoomFull) {
		that.sendError(sess, "room is full")
		return
	}
	if err != nil {
		log.Error("failed to join room", "identity", sess.id, "error", err)
		that.sendError(sess, "failed to join room")
		return
	}

	sess.roomCode = payload.Code

	that.broadcast(event.Recipients, TypeRoomUpdate, RoomPayload{Room: event.State})
}

func (that *Server) handlePlaceStone(sess *session, message *Message) {
	log := that.logger.With("method", "handlePlaceStone")

	if sess.roomCode == "" {
		return
	}

	var payload PlaceStonePayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		log.Debug("dropped malformed payload", "identity", sess.id, "error", err)
		return
	}

	event := that.manager.PlaceStone(sess.roomCode, sess.id, payload.X, payload.Y)
	if event == nil {
		return
	}

	if event.Won {
		that.broadcast(event.Recipients, TypeGameEnd, GameEndPayload{
			Winner:  event.State.Winner,
			Board:   event.State.Board,
			Players: event.State.Players,
		})
		return
	}

	that.broadcast(event.Recipients, TypeMove, MovePayload{
		X:     event.X,
		Y:     event.Y,
		Color: event.Color,
		Turn:  event.Turn,
	})
}

func (that *Server) handleRequestRestart(sess *session, _ *Message) {
	if sess.roomCode == "" {
		return
	}

	event := that.manager.RequestRestart(sess.roomCode, sess.id)
	if event == nil {
		return
	}

	if event.Restarted {
		that.broadcast(event.Recipients, TypeRestart, RoomPayload{Room: event.State})
		return
	}

	// The tally only, never who voted.
	that.broadcast(event.Recipients, TypeRestartVote, RestartVotePayload{Votes: event.Votes})
}

func (that *Server) handleLeaveRoom(sess *session, _ *Message) {
	that.leaveCurrentRoom(sess)
}

func (that *Server) sendError(sess *session, errorMsg string) {
	that.send(sess, TypeError, ErrorPayload{Message: errorMsg})
}
