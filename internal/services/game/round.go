package game

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/geonobo/geonobo/internal/geo"
	"github.com/geonobo/geonobo/internal/locations"
	"github.com/geonobo/geonobo/internal/models"
	"github.com/geonobo/geonobo/internal/protocol"
	matchRepo "github.com/geonobo/geonobo/internal/repositories/match"
)

// Non-submitters are scored with a fixed far-north placeholder guess so
// the resolution payload always has an entry per active player.
const (
	noGuessLat = 85.0
	noGuessLng = 180.0
)

// StartGame begins a game on a waiting room, or retries the pending
// round's panorama fetch after a location failure. Only the host may
// call it.
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	r, err := s.room(input.RoomID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()

	if r.hostID != input.PlayerID {
		r.mu.Unlock()
		return nil, ErrNotHost
	}

	if r.status == models.RoomStatusPlaying {
		if !r.locationFailed {
			r.mu.Unlock()
			return nil, ErrGameAlreadyStarted
		}
		// Host retry after a failed panorama fetch: the round number
		// is already set, only the fetch restarts.
		r.locationFailed = false
		round := r.currentRound
		maxRounds := r.maxRounds
		r.mu.Unlock()

		log.Printf("[game] host retrying location fetch room=%s round=%d", r.id, round)
		go s.requestLocation(r, round)
		return &StartGameOutput{MaxRounds: maxRounds}, nil
	}

	if r.status != models.RoomStatusWaiting {
		r.mu.Unlock()
		return nil, ErrGameAlreadyStarted
	}
	if len(r.players) < s.config.MinPlayers {
		r.mu.Unlock()
		return nil, ErrNotEnoughPlayers
	}

	r.status = models.RoomStatusPlaying
	r.phase = phaseRequesting
	r.totalPlayers = len(r.players)
	r.maxRounds = r.totalPlayers - 1
	r.currentRound = 1

	// Names are captured up front so players who leave mid-game keep
	// their entry in the final ranking table.
	for _, p := range r.players {
		r.names[p.ID] = p.Name
	}

	maxRounds := r.maxRounds
	totalPlayers := r.totalPlayers
	memberIDs := r.memberIDsLocked()
	r.mu.Unlock()

	log.Printf("[game] game started room=%s players=%d rounds=%d", r.id, totalPlayers, maxRounds)

	s.broadcaster.SendToPlayers(memberIDs, protocol.Event{
		Type: protocol.EventGameStarted,
		Data: protocol.GameStartedData{MaxRounds: maxRounds, TotalPlayers: totalPlayers},
	})
	s.broadcastRoomList()

	go s.requestLocation(r, 1)

	return &StartGameOutput{MaxRounds: maxRounds}, nil
}

// SubmitGuess records a guess for the current round. Resubmitting
// overwrites the previous guess. When the last active player submits,
// the round resolves immediately.
func (s *service) SubmitGuess(ctx context.Context, input *SubmitGuessInput) (*SubmitGuessOutput, error) {
	if !validGuess(input.Guess) {
		return nil, ErrInvalidCoordinate
	}

	r, err := s.room(input.RoomID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()

	if r.status != models.RoomStatusPlaying {
		r.mu.Unlock()
		return nil, ErrGameNotInProgress
	}
	if r.phase != phaseGuessing {
		r.mu.Unlock()
		return nil, ErrRoundNotActive
	}
	if r.playerLocked(input.PlayerID) == nil {
		r.mu.Unlock()
		return nil, ErrPlayerNotInRoom
	}
	if r.eliminated[input.PlayerID] {
		r.mu.Unlock()
		return nil, ErrPlayerEliminated
	}

	r.guesses[input.PlayerID] = &models.Guess{
		Lat:         input.Guess.Lat,
		Lng:         input.Guess.Lng,
		DistanceKM:  geo.Distance(input.Guess, r.location.Coordinate()),
		SubmittedAt: s.clock.Now(),
	}

	playerName := r.nameLocked(input.PlayerID)
	memberIDs := r.memberIDsLocked()
	allSubmitted := r.allActiveSubmittedLocked()
	epoch := r.roundEpoch
	r.mu.Unlock()

	s.broadcaster.SendToPlayers(memberIDs, protocol.Event{
		Type: protocol.EventPlayerSubmitted,
		Data: protocol.PlayerSubmittedData{PlayerID: input.PlayerID, PlayerName: playerName},
	})

	if allSubmitted {
		s.resolveRound(r, epoch)
	}

	return &SubmitGuessOutput{}, nil
}

// requestLocation fetches a panorama for the given round, retrying a
// bounded number of times. On exhaustion the room is flagged so the
// host can retry via StartGame.
func (s *service) requestLocation(r *room, round int) {
	var loc *models.Location
	for attempt := 1; attempt <= s.config.LocationRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.LocationTimeout)
		out, err := s.locations.FetchLocation(ctx, &locations.FetchLocationInput{Region: s.config.Region})
		cancel()
		if err == nil {
			loc = out.Location
			break
		}
		log.Printf("[game] location fetch failed room=%s round=%d attempt=%d: %v", r.id, round, attempt, err)
	}

	if loc == nil {
		r.mu.Lock()
		if r.finished || r.status != models.RoomStatusPlaying || r.currentRound != round {
			r.mu.Unlock()
			return
		}
		r.locationFailed = true
		memberIDs := r.memberIDsLocked()
		r.mu.Unlock()

		s.broadcaster.SendToPlayers(memberIDs, protocol.Event{
			Type: protocol.EventGameError,
			Data: protocol.ErrorData{Message: "could not find a panorama for this round, the host can retry"},
		})
		return
	}

	s.beginRound(r, round, loc)
}

// beginRound transitions the room into the guessing phase and arms the
// round deadline timer.
func (s *service) beginRound(r *room, round int, loc *models.Location) {
	r.mu.Lock()

	// The room may have finished or advanced while the fetch ran.
	if r.finished || r.status != models.RoomStatusPlaying || r.currentRound != round || r.phase != phaseRequesting {
		r.mu.Unlock()
		return
	}

	r.phase = phaseGuessing
	r.location = loc
	r.guesses = make(map[string]*models.Guess)
	r.roundStartedAt = s.clock.Now()
	r.roundDeadline = r.roundStartedAt.Add(s.config.RoundDuration)
	r.resolved = false
	r.roundEpoch++
	epoch := r.roundEpoch

	if r.roundTimer != nil {
		r.roundTimer.Stop()
	}
	r.roundTimer = time.AfterFunc(s.config.RoundDuration, func() {
		s.resolveRound(r, epoch)
	})

	active := r.activePlayersLocked()
	start := protocol.RoundStartData{
		Round:            round,
		MaxRounds:        r.maxRounds,
		ImageID:          loc.ImageID,
		TimeLimitSeconds: int(s.config.RoundDuration / time.Second),
		ActivePlayers:    active,
	}
	memberIDs := r.memberIDsLocked()
	r.mu.Unlock()

	log.Printf("[game] round started room=%s round=%d image=%s active=%d", r.id, round, loc.ImageID, len(active))

	s.broadcaster.SendToPlayers(memberIDs, protocol.Event{
		Type: protocol.EventRoundStart,
		Data: start,
	})
}

// resolveRound scores the current round and eliminates at most one
// player. It fires at most once per round: the deadline timer, the
// all-submitted path and the mid-round leave path all funnel here, and
// the resolved latch plus epoch fence make the extra calls no-ops.
func (s *service) resolveRound(r *room, epoch int) {
	r.mu.Lock()

	if r.finished || r.phase != phaseGuessing || r.roundEpoch != epoch || r.resolved {
		r.mu.Unlock()
		return
	}
	r.resolved = true
	r.phase = phaseResolving
	if r.roundTimer != nil {
		r.roundTimer.Stop()
		r.roundTimer = nil
	}

	// Players who never submitted are scored with the placeholder guess
	// and an unbeatable distance.
	active := r.activePlayersLocked()
	for _, p := range active {
		if _, ok := r.guesses[p.ID]; !ok {
			r.guesses[p.ID] = &models.Guess{
				Lat:         noGuessLat,
				Lng:         noGuessLng,
				DistanceKM:  math.MaxFloat64,
				SubmittedAt: s.clock.Now(),
			}
		}
	}

	// Strictly worst guess goes out; on an exact tie the earlier
	// joiner survives.
	var eliminatedID string
	if len(active) > 1 {
		worstID := active[0].ID
		worst := r.guesses[worstID].DistanceKM
		for _, p := range active[1:] {
			if d := r.guesses[p.ID].DistanceKM; d > worst {
				worstID = p.ID
				worst = d
			}
		}
		rank := r.eliminateLocked(worstID)
		eliminatedID = worstID
		log.Printf("[game] player eliminated room=%s round=%d player=%s distance=%.1f rank=%d",
			r.id, r.currentRound, worstID, worst, rank)
	}

	guesses := make(map[string]models.Guess, len(r.guesses))
	for id, g := range r.guesses {
		guesses[id] = *g
	}
	end := protocol.RoundEndData{
		CorrectLocation:    *r.location,
		Guesses:            guesses,
		EliminatedPlayerID: eliminatedID,
		Rankings:           r.rankingTableLocked(),
	}

	remaining := len(r.activePlayersLocked())
	if r.advanceTimer != nil {
		r.advanceTimer.Stop()
	}
	if remaining <= 1 || r.currentRound >= r.maxRounds {
		r.advanceTimer = time.AfterFunc(s.config.InterRoundDelay, func() {
			s.finishGame(r)
		})
	} else {
		r.currentRound++
		r.phase = phaseRequesting
		next := r.currentRound
		r.advanceTimer = time.AfterFunc(s.config.InterRoundDelay, func() {
			s.requestLocation(r, next)
		})
	}
	memberIDs := r.memberIDsLocked()
	r.mu.Unlock()

	s.broadcaster.SendToPlayers(memberIDs, protocol.Event{
		Type: protocol.EventRoundEnd,
		Data: end,
	})
}

// finishGame finalizes the room: the last active player takes rank 1,
// the gameEnd broadcast goes out, the match record is persisted, and
// the room is scheduled for removal.
func (s *service) finishGame(r *room) {
	r.mu.Lock()

	if r.finished {
		r.mu.Unlock()
		return
	}
	r.finished = true
	r.status = models.RoomStatusFinished
	r.phase = phaseDone
	r.finishedAt = s.clock.Now()
	r.stopTimersLocked()

	active := r.activePlayersLocked()
	switch {
	case len(active) == 1:
		if _, exists := r.rankings[active[0].ID]; !exists {
			r.rankings[active[0].ID] = 1
		}
	case len(active) > 1:
		// Should not happen: finalization requires one survivor. Fill
		// the remaining ranks deterministically by join order so the
		// table stays a permutation of 1..N.
		log.Printf("[game] finalizing with %d active players room=%s", len(active), r.id)
		for i, p := range active {
			if _, exists := r.rankings[p.ID]; !exists {
				r.rankings[p.ID] = i + 1
			}
		}
	}

	var winnerID, winnerName string
	if len(active) >= 1 {
		winnerID = active[0].ID
		winnerName = r.nameLocked(winnerID)
	}

	table := r.rankingTableLocked()
	record := &models.MatchRecord{
		ID:           s.uuidGen.NewUUID(),
		RoomID:       r.id,
		RoomName:     r.name,
		PlayerCount:  r.totalPlayers,
		RoundsPlayed: r.currentRound,
		Rankings:     table,
		WinnerID:     winnerID,
		WinnerName:   winnerName,
		FinishedAt:   r.finishedAt,
	}
	memberIDs := r.memberIDsLocked()

	r.cleanupTimer = time.AfterFunc(s.config.CleanupDelay, func() {
		s.destroyRoom(r.id, "finished")
	})
	r.mu.Unlock()

	log.Printf("[game] game finished room=%s winner=%s rounds=%d", r.id, winnerID, record.RoundsPlayed)

	s.broadcaster.SendToPlayers(memberIDs, protocol.Event{
		Type: protocol.EventGameEnd,
		Data: protocol.GameEndData{FinalRankings: table, WinnerID: winnerID, WinnerName: winnerName},
	})
	s.broadcastRoomList()

	if err := s.matchRepo.SaveMatch(context.Background(), &matchRepo.SaveMatchInput{Match: record}); err != nil {
		log.Printf("[game] failed to save match record room=%s: %v", r.id, err)
	}
}
