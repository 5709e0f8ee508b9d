package game

// GameError is a custom error type for game-related errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRoomNotFound        GameError = "room not found"
	ErrRoomFull            GameError = "room is at maximum capacity"
	ErrGameAlreadyStarted  GameError = "game has already started"
	ErrGameNotInProgress   GameError = "game is not in progress"
	ErrRoundNotActive      GameError = "no round is currently accepting guesses"
	ErrNotEnoughPlayers    GameError = "not enough players to start the game"
	ErrNotHost             GameError = "only the host can start the game"
	ErrPlayerNotInRoom     GameError = "player is not in this room"
	ErrPlayerAlreadyInRoom GameError = "player is already in this room"
	ErrPlayerEliminated    GameError = "player has already been eliminated"
	ErrInvalidCoordinate   GameError = "coordinates are out of range"
	ErrMissingRoomName     GameError = "room name cannot be empty"
	ErrMissingPlayerName   GameError = "player name cannot be empty"
	ErrMissingPlayerID     GameError = "player ID cannot be empty"
	ErrNilConfig           GameError = "config cannot be nil"
	ErrNilBroadcaster      GameError = "broadcaster cannot be nil"
	ErrNilLocationProvider GameError = "location provider cannot be nil"
	ErrNilMatchRepo        GameError = "match repository cannot be nil"
	ErrNilClock            GameError = "clock cannot be nil"
	ErrNilUUIDGenerator    GameError = "UUID generator cannot be nil"
)
