package game

import "context"

// Service defines the interface for game session operations
type Service interface {
	// ListRooms returns summaries of every room
	ListRooms(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error)

	// CreateRoom creates a new room in the waiting state
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// JoinRoom adds a player to an existing room
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)

	// GetRoom returns a snapshot of one room
	GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error)

	// LeaveRoom removes a player from a room
	LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error)

	// StartGame begins the elimination game in a room
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// SubmitGuess records a player's guess for the current round
	SubmitGuess(ctx context.Context, input *SubmitGuessInput) (*SubmitGuessOutput, error)

	// HandleDisconnect removes a departing connection from every room it belongs to
	HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) (*HandleDisconnectOutput, error)

	// Close cancels all pending room timers during shutdown
	Close()
}
