package models

import (
	"time"
)

// RoomStatus represents the lifecycle state of a room
type RoomStatus string

const (
	// RoomStatusWaiting indicates a room is waiting for players to join
	RoomStatusWaiting RoomStatus = "waiting"

	// RoomStatusPlaying indicates a game is in progress
	RoomStatusPlaying RoomStatus = "playing"

	// RoomStatusFinished indicates the game has completed
	RoomStatusFinished RoomStatus = "finished"
)

// Room is a snapshot of one game session's membership and status. The
// live round state is owned by the game service; this is what goes over
// the wire for roomInfo and playerUpdate events.
type Room struct {
	// ID is the short random token identifying the room
	ID string `json:"id"`

	// Name is the display name chosen at creation
	Name string `json:"name"`

	// HostID is the session ID of the current host. The creator hosts
	// initially; hosting passes to the longest-standing member if they
	// leave.
	HostID string `json:"hostId"`

	// HostName is the display name of the current host
	HostName string `json:"host"`

	// Status is the current lifecycle state
	Status RoomStatus `json:"status"`

	// MaxPlayers is the fixed capacity bound
	MaxPlayers int `json:"maxPlayers"`

	// Players are the current members in join order
	Players []*Player `json:"players"`

	// CreatedAt is when the room was created
	CreatedAt time.Time `json:"createdAt"`

	// FinishedAt is when the game completed, zero until then
	FinishedAt time.Time `json:"finishedAt,omitempty"`
}

// RoomSummary is the condensed room listing pushed to every client.
type RoomSummary struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Host      string     `json:"host"`
	Occupancy int        `json:"players"`
	Capacity  int        `json:"maxPlayers"`
	Status    RoomStatus `json:"status"`
}
