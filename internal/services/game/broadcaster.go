package game

//go:generate mockgen -package=mocks -destination=mocks/mock_broadcaster.go github.com/geonobo/geonobo/internal/services/game Broadcaster

import (
	"github.com/geonobo/geonobo/internal/protocol"
)

// Broadcaster delivers outbound events to connected clients. The game
// service is the only writer of broadcasts; the websocket hub
// implements this interface. Delivery is best effort and must never
// block game logic.
type Broadcaster interface {
	// SendToPlayer delivers an event to one connection
	SendToPlayer(playerID string, event protocol.Event)

	// SendToPlayers delivers an event to the given connections
	SendToPlayers(playerIDs []string, event protocol.Event)

	// SendToAll delivers an event to every connection
	SendToAll(event protocol.Event)
}
