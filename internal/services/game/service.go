package game

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/geonobo/geonobo/internal/common/clock"
	"github.com/geonobo/geonobo/internal/common/uuid"
	"github.com/geonobo/geonobo/internal/geo"
	"github.com/geonobo/geonobo/internal/locations"
	"github.com/geonobo/geonobo/internal/models"
	"github.com/geonobo/geonobo/internal/protocol"
	matchRepo "github.com/geonobo/geonobo/internal/repositories/match"
)

const (
	defaultMinPlayers      = 4
	defaultMaxPlayers      = 10
	defaultRoundDuration   = 90 * time.Second
	defaultInterRoundDelay = 5 * time.Second
	defaultCleanupDelay    = 5 * time.Minute
	defaultLocationTimeout = 15 * time.Second
	defaultLocationRetries = 3
)

// service implements the Service interface. It owns the room registry
// and is the sole author of outbound broadcasts. Registry lookups take
// the registry lock; room state takes the per-room lock. The registry
// lock is never acquired while holding a room lock, and no broadcast is
// sent while holding either.
type service struct {
	config      *Config
	locations   locations.Provider
	matchRepo   matchRepo.Repository
	broadcaster Broadcaster
	clock       clock.Clock
	uuidGen     uuid.Generator

	mu    sync.RWMutex
	rooms map[string]*room
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Locations == nil {
		return nil, ErrNilLocationProvider
	}
	if cfg.MatchRepo == nil {
		return nil, ErrNilMatchRepo
	}
	if cfg.Broadcaster == nil {
		return nil, ErrNilBroadcaster
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	// Apply defaults for unset knobs
	if cfg.MinPlayers <= 0 {
		cfg.MinPlayers = defaultMinPlayers
	}
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = defaultMaxPlayers
	}
	if cfg.RoundDuration <= 0 {
		cfg.RoundDuration = defaultRoundDuration
	}
	if cfg.InterRoundDelay <= 0 {
		cfg.InterRoundDelay = defaultInterRoundDelay
	}
	if cfg.CleanupDelay <= 0 {
		cfg.CleanupDelay = defaultCleanupDelay
	}
	if cfg.LocationTimeout <= 0 {
		cfg.LocationTimeout = defaultLocationTimeout
	}
	if cfg.LocationRetries <= 0 {
		cfg.LocationRetries = defaultLocationRetries
	}

	return &service{
		config:      cfg,
		locations:   cfg.Locations,
		matchRepo:   cfg.MatchRepo,
		broadcaster: cfg.Broadcaster,
		clock:       cfg.Clock,
		uuidGen:     cfg.UUIDGenerator,
		rooms:       make(map[string]*room),
	}, nil
}

// ListRooms returns summaries of every room
func (s *service) ListRooms(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error) {
	return &ListRoomsOutput{Rooms: s.roomSummaries()}, nil
}

// CreateRoom creates a new room in the waiting state. The creator joins
// with a separate JoinRoom call, mirroring the client flow.
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil || input.RoomName == "" {
		return nil, ErrMissingRoomName
	}
	if input.CreatorID == "" {
		return nil, ErrMissingPlayerID
	}
	if input.CreatorName == "" {
		return nil, ErrMissingPlayerName
	}

	r := &room{
		id:         s.uuidGen.NewShortID(),
		name:       input.RoomName,
		hostID:     input.CreatorID,
		hostName:   input.CreatorName,
		status:     models.RoomStatusWaiting,
		maxPlayers: s.config.MaxPlayers,
		players:    make([]*models.Player, 0, s.config.MaxPlayers),
		createdAt:  s.clock.Now(),
		phase:      phaseLobby,
		guesses:    make(map[string]*models.Guess),
		eliminated: make(map[string]bool),
		rankings:   make(map[string]int),
		names:      make(map[string]string),
	}

	s.mu.Lock()
	s.rooms[r.id] = r
	s.mu.Unlock()

	log.Printf("[game] room created id=%s name=%q host=%s", r.id, r.name, r.hostName)

	r.mu.Lock()
	snapshot := r.snapshotLocked()
	r.mu.Unlock()

	s.broadcastRoomList()

	return &CreateRoomOutput{Room: snapshot}, nil
}

// JoinRoom adds a player to an existing room
func (s *service) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrMissingPlayerID
	}
	if input.PlayerName == "" {
		return nil, ErrMissingPlayerName
	}

	r, err := s.room(input.RoomID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.status != models.RoomStatusWaiting {
		r.mu.Unlock()
		return nil, ErrGameAlreadyStarted
	}
	if len(r.players) >= r.maxPlayers {
		r.mu.Unlock()
		return nil, ErrRoomFull
	}
	if r.playerLocked(input.PlayerID) != nil {
		r.mu.Unlock()
		return nil, ErrPlayerAlreadyInRoom
	}

	r.players = append(r.players, &models.Player{
		ID:       input.PlayerID,
		Name:     input.PlayerName,
		JoinedAt: s.clock.Now(),
	})

	snapshot := r.snapshotLocked()
	memberIDs := r.memberIDsLocked()
	r.mu.Unlock()

	log.Printf("[game] player joined room=%s player=%s name=%q", r.id, input.PlayerID, input.PlayerName)

	s.broadcaster.SendToPlayer(input.PlayerID, protocol.Event{Type: protocol.EventJoinedRoom, Data: r.id})
	s.broadcaster.SendToPlayers(memberIDs, protocol.Event{Type: protocol.EventPlayerUpdate, Data: snapshot})
	s.broadcastRoomList()

	return &JoinRoomOutput{Room: snapshot}, nil
}

// GetRoom returns a snapshot of one room
func (s *service) GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error) {
	r, err := s.room(input.RoomID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	snapshot := r.snapshotLocked()
	r.mu.Unlock()

	return &GetRoomOutput{Room: snapshot}, nil
}

// LeaveRoom removes a player from a room
func (s *service) LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error) {
	r, err := s.room(input.RoomID)
	if err != nil {
		return nil, err
	}

	removed, destroyed := s.removeFromRoom(r, input.PlayerID)
	if !removed {
		return nil, ErrPlayerNotInRoom
	}

	return &LeaveRoomOutput{RoomDestroyed: destroyed}, nil
}

// HandleDisconnect removes a departing connection from every room it
// belongs to. A connection should be in at most one room, but the scan
// is deliberately exhaustive.
func (s *service) HandleDisconnect(ctx context.Context, input *HandleDisconnectInput) (*HandleDisconnectOutput, error) {
	if input == nil || input.PlayerID == "" {
		return &HandleDisconnectOutput{}, nil
	}

	s.mu.RLock()
	candidates := make([]*room, 0, len(s.rooms))
	for _, r := range s.rooms {
		candidates = append(candidates, r)
	}
	s.mu.RUnlock()

	left := 0
	for _, r := range candidates {
		if removed, _ := s.removeFromRoom(r, input.PlayerID); removed {
			left++
		}
	}

	if left > 0 {
		log.Printf("[game] disconnect player=%s rooms_left=%d", input.PlayerID, left)
	}

	return &HandleDisconnectOutput{RoomsLeft: left}, nil
}

// removeFromRoom is the shared leave/disconnect path. A player leaving
// mid-game while still active counts as an immediate elimination; if
// that drops the active count to one or below, the game finalizes
// without waiting for the round deadline.
func (s *service) removeFromRoom(r *room, playerID string) (removed, destroyed bool) {
	r.mu.Lock()

	leaving := r.playerLocked(playerID)
	if leaving == nil {
		r.mu.Unlock()
		return false, false
	}

	for i, p := range r.players {
		if p.ID == playerID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}

	// A departing host hands the room to the longest-standing member so
	// the room stays startable.
	if playerID == r.hostID && len(r.players) > 0 {
		r.hostID = r.players[0].ID
		r.hostName = r.players[0].Name
	}

	finalize := false
	resolveEpoch := -1
	if r.status == models.RoomStatusPlaying && !r.finished && !r.eliminated[playerID] {
		rank := r.eliminateLocked(playerID)
		delete(r.guesses, playerID)
		log.Printf("[game] active player left mid-game room=%s player=%s rank=%d", r.id, playerID, rank)

		if len(r.activePlayersLocked()) <= 1 {
			finalize = true
		} else if r.phase == phaseGuessing && r.allActiveSubmittedLocked() {
			// The departure may have completed the submission set.
			resolveEpoch = r.roundEpoch
		}
	}

	empty := len(r.players) == 0
	var snapshot *models.Room
	var memberIDs []string
	if !empty {
		snapshot = r.snapshotLocked()
		memberIDs = r.memberIDsLocked()
	}
	r.mu.Unlock()

	log.Printf("[game] player left room=%s player=%s name=%q", r.id, playerID, leaving.Name)

	if !empty {
		s.broadcaster.SendToPlayers(memberIDs, protocol.Event{Type: protocol.EventPlayerUpdate, Data: snapshot})
	}

	if finalize {
		s.finishGame(r)
	} else if resolveEpoch >= 0 {
		s.resolveRound(r, resolveEpoch)
	}

	if empty {
		s.destroyRoom(r.id, "empty")
		return true, true
	}

	s.broadcastRoomList()
	return true, false
}

// Close cancels every pending room timer and marks rooms finished so
// in-flight round goroutines stop at their next guard. Used during
// server shutdown.
func (s *service) Close() {
	s.mu.RLock()
	rooms := make([]*room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	s.mu.RUnlock()

	for _, r := range rooms {
		r.mu.Lock()
		r.finished = true
		r.stopTimersLocked()
		if r.cleanupTimer != nil {
			r.cleanupTimer.Stop()
			r.cleanupTimer = nil
		}
		r.mu.Unlock()
	}
}

// room looks up a room by ID under the registry lock.
func (s *service) room(roomID string) (*room, error) {
	if roomID == "" {
		return nil, ErrRoomNotFound
	}

	s.mu.RLock()
	r, ok := s.rooms[roomID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// roomSummaries snapshots every room one at a time; the registry lock
// is released before any room lock is taken.
func (s *service) roomSummaries() []models.RoomSummary {
	s.mu.RLock()
	snapshot := make([]*room, 0, len(s.rooms))
	for _, r := range s.rooms {
		snapshot = append(snapshot, r)
	}
	s.mu.RUnlock()

	summaries := make([]models.RoomSummary, 0, len(snapshot))
	for _, r := range snapshot {
		r.mu.Lock()
		summaries = append(summaries, r.summaryLocked())
		r.mu.Unlock()
	}

	// Stable listing order for clients.
	sortSummaries(summaries)
	return summaries
}

func (s *service) broadcastRoomList() {
	s.broadcaster.SendToAll(protocol.Event{
		Type: protocol.EventRoomList,
		Data: s.roomSummaries(),
	})
}

func (s *service) destroyRoom(roomID, reason string) {
	s.mu.Lock()
	r, ok := s.rooms[roomID]
	if ok {
		delete(s.rooms, roomID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	r.mu.Lock()
	r.stopTimersLocked()
	if r.cleanupTimer != nil {
		r.cleanupTimer.Stop()
		r.cleanupTimer = nil
	}
	r.mu.Unlock()

	log.Printf("[game] room destroyed id=%s reason=%s", roomID, reason)
	s.broadcastRoomList()
}

// guard that the caller submitted a plausible coordinate before any
// state is touched
func validGuess(c models.Coordinate) bool {
	return geo.ValidCoordinate(c)
}
