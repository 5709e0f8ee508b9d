package game

import (
	"time"

	"github.com/geonobo/geonobo/internal/common/clock"
	"github.com/geonobo/geonobo/internal/common/uuid"
	"github.com/geonobo/geonobo/internal/locations"
	"github.com/geonobo/geonobo/internal/models"
	matchRepo "github.com/geonobo/geonobo/internal/repositories/match"
)

// Config holds configuration for the game service
type Config struct {
	// MinPlayers is the membership threshold required to start a game
	MinPlayers int

	// MaxPlayers is the fixed capacity bound per room
	MaxPlayers int

	// RoundDuration is how long players have to submit a guess
	RoundDuration time.Duration

	// InterRoundDelay is the display pause between rounds and before
	// the final results broadcast
	InterRoundDelay time.Duration

	// CleanupDelay is how long a finished room lingers before removal
	CleanupDelay time.Duration

	// LocationTimeout bounds a single location fetch
	LocationTimeout time.Duration

	// LocationRetries bounds fetch attempts per round before the
	// failure is surfaced to the room
	LocationRetries int

	// Region optionally restricts panoramas to a named preset area
	Region string

	// Dependencies
	Locations     locations.Provider
	MatchRepo     matchRepo.Repository
	Broadcaster   Broadcaster
	Clock         clock.Clock
	UUIDGenerator uuid.Generator
}

// ListRoomsInput contains parameters for listing rooms
type ListRoomsInput struct {
}

// ListRoomsOutput contains the room summaries
type ListRoomsOutput struct {
	Rooms []models.RoomSummary
}

// CreateRoomInput contains parameters for creating a room
type CreateRoomInput struct {
	// RoomName is the display name for the new room
	RoomName string

	// CreatorID is the session ID of the creating player
	CreatorID string

	// CreatorName is the display name of the creating player
	CreatorName string
}

// CreateRoomOutput contains the result of creating a room
type CreateRoomOutput struct {
	// Room is a snapshot of the new room
	Room *models.Room
}

// JoinRoomInput contains parameters for joining a room
type JoinRoomInput struct {
	// RoomID is the token of the room to join
	RoomID string

	// PlayerID is the session ID of the joining player
	PlayerID string

	// PlayerName is the display name of the joining player
	PlayerName string
}

// JoinRoomOutput contains the result of joining a room
type JoinRoomOutput struct {
	// Room is a snapshot taken after the join
	Room *models.Room
}

// GetRoomInput contains parameters for fetching a room snapshot
type GetRoomInput struct {
	RoomID string
}

// GetRoomOutput contains a room snapshot
type GetRoomOutput struct {
	Room *models.Room
}

// LeaveRoomInput contains parameters for leaving a room
type LeaveRoomInput struct {
	RoomID   string
	PlayerID string
}

// LeaveRoomOutput contains the result of leaving a room
type LeaveRoomOutput struct {
	// RoomDestroyed indicates the room emptied and was removed
	RoomDestroyed bool
}

// StartGameInput contains parameters for starting a game
type StartGameInput struct {
	RoomID   string
	PlayerID string
}

// StartGameOutput contains the result of starting a game
type StartGameOutput struct {
	// MaxRounds is the planned number of rounds, player count minus one
	MaxRounds int
}

// SubmitGuessInput contains parameters for submitting a guess
type SubmitGuessInput struct {
	RoomID   string
	PlayerID string

	// Guess is the player's chosen coordinate
	Guess models.Coordinate
}

// SubmitGuessOutput contains the result of submitting a guess
type SubmitGuessOutput struct {
}

// HandleDisconnectInput contains parameters for a connection teardown
type HandleDisconnectInput struct {
	PlayerID string
}

// HandleDisconnectOutput contains the result of a connection teardown
type HandleDisconnectOutput struct {
	// RoomsLeft is how many rooms the player was removed from
	RoomsLeft int
}
