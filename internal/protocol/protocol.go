// Package protocol defines the client-facing event contract. Event and
// field names mirror what the web client already speaks; the transport
// itself lives in the ws handler.
package protocol

import (
	"encoding/json"

	"github.com/geonobo/geonobo/internal/models"
)

// EventType identifies an outbound server event
type EventType string

const (
	// EventRoomList carries the summarized list of all rooms
	EventRoomList EventType = "roomList"

	// EventJoinedRoom confirms a join to the acting player
	EventJoinedRoom EventType = "joinedRoom"

	// EventRoomInfo carries a full room snapshot to a requester
	EventRoomInfo EventType = "roomInfo"

	// EventPlayerUpdate carries a room snapshot after membership changes
	EventPlayerUpdate EventType = "playerUpdate"

	// EventGameStarted announces the game has begun
	EventGameStarted EventType = "gameStarted"

	// EventRoundStart announces a new round with its panorama
	EventRoundStart EventType = "roundStart"

	// EventPlayerSubmitted announces that one player has guessed
	EventPlayerSubmitted EventType = "playerSubmitted"

	// EventRoundEnd carries the round's resolution
	EventRoundEnd EventType = "roundEnd"

	// EventGameEnd carries the final rankings and winner
	EventGameEnd EventType = "gameEnd"

	// EventGameError reports a non-fatal game-level failure to a room
	EventGameError EventType = "gameError"

	// EventError reports a request error to the acting player
	EventError EventType = "error"
)

// MessageType identifies an inbound client message
type MessageType string

const (
	MessageListRooms       MessageType = "listRooms"
	MessageCreateRoom      MessageType = "createRoom"
	MessageJoinRoom        MessageType = "joinRoom"
	MessageRequestRoomInfo MessageType = "requestRoomInfo"
	MessageLeaveRoom       MessageType = "leaveRoom"
	MessageStartGame       MessageType = "startGame"
	MessageSubmitGuess     MessageType = "submitGuess"
)

// Event is the outbound envelope.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data,omitempty"`
}

// ClientMessage is the inbound envelope; Data is decoded per type.
type ClientMessage struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// CreateRoomData is the payload for createRoom
type CreateRoomData struct {
	RoomName string `json:"roomName"`
	Creator  string `json:"creator"`
}

// JoinRoomData is the payload for joinRoom
type JoinRoomData struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// RoomIDData is the payload for requestRoomInfo, leaveRoom and startGame
type RoomIDData struct {
	RoomID string `json:"roomId"`
}

// SubmitGuessData is the payload for submitGuess
type SubmitGuessData struct {
	RoomID string            `json:"roomId"`
	Guess  models.Coordinate `json:"guess"`
}

// GameStartedData is the gameStarted payload
type GameStartedData struct {
	MaxRounds    int `json:"maxRounds"`
	TotalPlayers int `json:"totalPlayers"`
}

// RoundStartData is the roundStart payload
type RoundStartData struct {
	Round            int              `json:"round"`
	MaxRounds        int              `json:"maxRounds"`
	ImageID          string           `json:"imageId"`
	TimeLimitSeconds int              `json:"timeLimit"`
	ActivePlayers    []*models.Player `json:"activePlayers"`
}

// PlayerSubmittedData is the playerSubmitted payload
type PlayerSubmittedData struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

// RoundEndData is the roundEnd payload
type RoundEndData struct {
	CorrectLocation    models.Location         `json:"correctLocation"`
	Guesses            map[string]models.Guess `json:"guesses"`
	EliminatedPlayerID string                  `json:"eliminatedPlayer,omitempty"`
	Rankings           []models.PlayerRank     `json:"rankings"`
}

// GameEndData is the gameEnd payload
type GameEndData struct {
	FinalRankings []models.PlayerRank `json:"finalRankings"`
	WinnerID      string              `json:"winnerId,omitempty"`
	WinnerName    string              `json:"winner,omitempty"`
}

// ErrorData is the error and gameError payload
type ErrorData struct {
	Message string `json:"message"`
}
