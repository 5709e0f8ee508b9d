package models

import (
	"time"
)

// PlayerRank is one entry in a game's ranking table. Rank 1 is the
// winner; rank N is the first player eliminated in an N-player game.
type PlayerRank struct {
	// PlayerID is the session ID the rank was assigned to
	PlayerID string `json:"playerId"`

	// Name is the display name at the time the rank was assigned
	Name string `json:"username"`

	// Rank is the finishing position, 1-based
	Rank int `json:"rank"`
}

// MatchRecord is the durable summary of a completed game.
type MatchRecord struct {
	// ID is the unique identifier for the record
	ID string `json:"id"`

	// RoomID is the token of the room the game was played in
	RoomID string `json:"roomId"`

	// RoomName is the display name of the room
	RoomName string `json:"roomName"`

	// PlayerCount is how many players started the game
	PlayerCount int `json:"playerCount"`

	// RoundsPlayed is how many rounds actually resolved
	RoundsPlayed int `json:"roundsPlayed"`

	// Rankings is the final placement table, sorted by rank ascending
	Rankings []PlayerRank `json:"rankings"`

	// WinnerID is the session ID of the winner, empty if no player remained
	WinnerID string `json:"winnerId"`

	// WinnerName is the display name of the winner
	WinnerName string `json:"winner"`

	// FinishedAt is when the game completed
	FinishedAt time.Time `json:"finishedAt"`
}
