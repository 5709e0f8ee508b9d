package game

import (
	"sort"
	"sync"
	"time"

	"github.com/geonobo/geonobo/internal/models"
)

// roundPhase is the position of a room inside the round lifecycle.
type roundPhase string

const (
	// phaseLobby: the room is waiting and no game has started
	phaseLobby roundPhase = "lobby"

	// phaseRequesting: a panorama is being fetched; guesses are rejected
	phaseRequesting roundPhase = "requesting_location"

	// phaseGuessing: a round is open and collecting guesses
	phaseGuessing roundPhase = "guessing"

	// phaseResolving: the round outcome is being computed
	phaseResolving roundPhase = "resolving"

	// phaseDone: the game has finished
	phaseDone roundPhase = "done"
)

// room is the authoritative in-memory state of one game session. All
// fields are guarded by mu; methods suffixed Locked expect the caller
// to hold it. Broadcasts are never sent while mu is held.
type room struct {
	mu sync.Mutex

	id         string
	name       string
	hostID     string
	hostName   string
	status     models.RoomStatus
	maxPlayers int
	players    []*models.Player
	createdAt  time.Time
	finishedAt time.Time

	// Round state, reset by startGame and between rounds.
	phase          roundPhase
	currentRound   int
	maxRounds      int
	totalPlayers   int
	location       *models.Location
	roundStartedAt time.Time
	roundDeadline  time.Time
	guesses        map[string]*models.Guess

	// eliminatedOrder encodes reverse finishing rank; eliminated is the
	// membership set for O(1) checks.
	eliminatedOrder []string
	eliminated      map[string]bool

	// rankings maps player ID to finishing rank. Entries are permanent
	// once written.
	rankings map[string]int

	// names captures display names at game start, so rankings survive
	// players leaving mid-game.
	names map[string]string

	// roundEpoch increments when a round opens; timers carry the epoch
	// they were armed for so a stale deadline can never resolve a newer
	// round.
	roundEpoch int

	// resolved is the single-fire latch for the current round.
	resolved bool

	// locationFailed marks that fetching gave up and the host must retry.
	locationFailed bool

	// finished guards against double finalization.
	finished bool

	roundTimer   *time.Timer
	advanceTimer *time.Timer
	cleanupTimer *time.Timer
}

func (r *room) memberIDsLocked() []string {
	ids := make([]string, 0, len(r.players))
	for _, p := range r.players {
		ids = append(ids, p.ID)
	}
	return ids
}

func (r *room) playerLocked(playerID string) *models.Player {
	for _, p := range r.players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// activePlayersLocked returns not-yet-eliminated members in join order.
// Join order is what makes max-distance tie-breaking deterministic.
func (r *room) activePlayersLocked() []*models.Player {
	active := make([]*models.Player, 0, len(r.players))
	for _, p := range r.players {
		if !r.eliminated[p.ID] {
			active = append(active, p)
		}
	}
	return active
}

func (r *room) allActiveSubmittedLocked() bool {
	active := r.activePlayersLocked()
	if len(active) == 0 {
		return false
	}
	for _, p := range active {
		if _, ok := r.guesses[p.ID]; !ok {
			return false
		}
	}
	return true
}

// eliminateLocked appends the player to the elimination order and writes
// their permanent ranking entry.
func (r *room) eliminateLocked(playerID string) int {
	r.eliminated[playerID] = true
	r.eliminatedOrder = append(r.eliminatedOrder, playerID)

	rank := r.totalPlayers - len(r.eliminatedOrder) + 1
	if _, exists := r.rankings[playerID]; !exists {
		r.rankings[playerID] = rank
	}
	return rank
}

// rankingTableLocked builds the placement table sorted by rank.
func (r *room) rankingTableLocked() []models.PlayerRank {
	table := make([]models.PlayerRank, 0, len(r.rankings))
	for playerID, rank := range r.rankings {
		table = append(table, models.PlayerRank{
			PlayerID: playerID,
			Name:     r.nameLocked(playerID),
			Rank:     rank,
		})
	}
	sort.Slice(table, func(i, j int) bool {
		return table[i].Rank < table[j].Rank
	})
	return table
}

func (r *room) nameLocked(playerID string) string {
	if name, ok := r.names[playerID]; ok {
		return name
	}
	if p := r.playerLocked(playerID); p != nil {
		return p.Name
	}
	return ""
}

// snapshotLocked copies the room into its wire representation.
func (r *room) snapshotLocked() *models.Room {
	players := make([]*models.Player, len(r.players))
	for i, p := range r.players {
		copied := *p
		players[i] = &copied
	}

	return &models.Room{
		ID:         r.id,
		Name:       r.name,
		HostID:     r.hostID,
		HostName:   r.hostName,
		Status:     r.status,
		MaxPlayers: r.maxPlayers,
		Players:    players,
		CreatedAt:  r.createdAt,
		FinishedAt: r.finishedAt,
	}
}

func (r *room) summaryLocked() models.RoomSummary {
	return models.RoomSummary{
		ID:        r.id,
		Name:      r.name,
		Host:      r.hostName,
		Occupancy: len(r.players),
		Capacity:  r.maxPlayers,
		Status:    r.status,
	}
}

// stopTimersLocked cancels every pending timer except cleanup. Stale
// fires are additionally fenced by roundEpoch and the finished flag.
func (r *room) stopTimersLocked() {
	if r.roundTimer != nil {
		r.roundTimer.Stop()
		r.roundTimer = nil
	}
	if r.advanceTimer != nil {
		r.advanceTimer.Stop()
		r.advanceTimer = nil
	}
}

// sortSummaries orders room listings by name, then ID, so clients see
// a stable list across refreshes.
func sortSummaries(summaries []models.RoomSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Name != summaries[j].Name {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].ID < summaries[j].ID
	})
}
