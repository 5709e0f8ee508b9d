package models

import (
	"time"
)

// Player is a connected participant in a room. The ID is the transport
// session identifier and is stable for the lifetime of the connection.
type Player struct {
	// ID is the session identifier assigned at connect time
	ID string `json:"id"`

	// Name is the display name chosen by the player. Names are not
	// guaranteed unique, which is why rankings key by ID.
	Name string `json:"username"`

	// JoinedAt is when the player joined their room
	JoinedAt time.Time `json:"joinedAt"`
}
