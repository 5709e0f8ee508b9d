package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/geonobo/geonobo/internal/protocol"
	"github.com/geonobo/geonobo/internal/services/game"
)

// dispatch routes one inbound message to the game service. Request
// errors go back to the acting connection only; the service itself
// broadcasts all room-wide state changes.
func (h *Hub) dispatch(c *client, msg protocol.ClientMessage) {
	h.mu.RLock()
	svc := h.service
	h.mu.RUnlock()
	if svc == nil {
		log.Printf("[ws] message before service wired session=%s type=%s", c.id, msg.Type)
		return
	}

	ctx := context.Background()

	switch msg.Type {
	case protocol.MessageListRooms:
		out, err := svc.ListRooms(ctx, &game.ListRoomsInput{})
		if err != nil {
			h.sendError(c, err)
			return
		}
		h.reply(c, protocol.Event{Type: protocol.EventRoomList, Data: out.Rooms})

	case protocol.MessageCreateRoom:
		var data protocol.CreateRoomData
		if !h.decode(c, msg.Data, &data) {
			return
		}
		if _, err := svc.CreateRoom(ctx, &game.CreateRoomInput{
			RoomName:    data.RoomName,
			CreatorID:   c.id,
			CreatorName: data.Creator,
		}); err != nil {
			h.sendError(c, err)
		}

	case protocol.MessageJoinRoom:
		var data protocol.JoinRoomData
		if !h.decode(c, msg.Data, &data) {
			return
		}
		if _, err := svc.JoinRoom(ctx, &game.JoinRoomInput{
			RoomID:     data.RoomID,
			PlayerID:   c.id,
			PlayerName: data.Username,
		}); err != nil {
			h.sendError(c, err)
		}

	case protocol.MessageRequestRoomInfo:
		var data protocol.RoomIDData
		if !h.decode(c, msg.Data, &data) {
			return
		}
		out, err := svc.GetRoom(ctx, &game.GetRoomInput{RoomID: data.RoomID})
		if err != nil {
			h.sendError(c, err)
			return
		}
		h.reply(c, protocol.Event{Type: protocol.EventRoomInfo, Data: out.Room})

	case protocol.MessageLeaveRoom:
		var data protocol.RoomIDData
		if !h.decode(c, msg.Data, &data) {
			return
		}
		if _, err := svc.LeaveRoom(ctx, &game.LeaveRoomInput{
			RoomID:   data.RoomID,
			PlayerID: c.id,
		}); err != nil {
			h.sendError(c, err)
		}

	case protocol.MessageStartGame:
		var data protocol.RoomIDData
		if !h.decode(c, msg.Data, &data) {
			return
		}
		if _, err := svc.StartGame(ctx, &game.StartGameInput{
			RoomID:   data.RoomID,
			PlayerID: c.id,
		}); err != nil {
			h.sendError(c, err)
		}

	case protocol.MessageSubmitGuess:
		var data protocol.SubmitGuessData
		if !h.decode(c, msg.Data, &data) {
			return
		}
		if _, err := svc.SubmitGuess(ctx, &game.SubmitGuessInput{
			RoomID:   data.RoomID,
			PlayerID: c.id,
			Guess:    data.Guess,
		}); err != nil {
			h.sendError(c, err)
		}

	default:
		log.Printf("[ws] unknown message type session=%s type=%s", c.id, msg.Type)
		h.reply(c, protocol.Event{
			Type: protocol.EventError,
			Data: protocol.ErrorData{Message: "unknown message type"},
		})
	}
}

func (h *Hub) decode(c *client, raw json.RawMessage, v any) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		log.Printf("[ws] malformed payload session=%s: %v", c.id, err)
		h.reply(c, protocol.Event{
			Type: protocol.EventError,
			Data: protocol.ErrorData{Message: "malformed message payload"},
		})
		return false
	}
	return true
}

func (h *Hub) sendError(c *client, err error) {
	h.reply(c, protocol.Event{
		Type: protocol.EventError,
		Data: protocol.ErrorData{Message: err.Error()},
	})
}

func (h *Hub) reply(c *client, event protocol.Event) {
	if err := c.send(event); err != nil {
		log.Printf("[ws] reply failed session=%s event=%s: %v", c.id, event.Type, err)
	}
}
