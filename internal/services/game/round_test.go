package game

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/geonobo/geonobo/internal/locations"
	"github.com/geonobo/geonobo/internal/models"
	"github.com/geonobo/geonobo/internal/protocol"
	matchRepo "github.com/geonobo/geonobo/internal/repositories/match"
	"go.uber.org/mock/gomock"
)

func (s *GameServiceTestSuite) expectLocation(imageID string, lat, lng float64) {
	s.mockLocations.EXPECT().FetchLocation(gomock.Any(), gomock.Any()).AnyTimes().
		Return(&locations.FetchLocationOutput{
			Location: &models.Location{ImageID: imageID, Lat: lat, Lng: lng},
		}, nil)
}

// startFourPlayerGame creates a room with players A-D, starts the game
// as host A and waits for round 1 to open.
func (s *GameServiceTestSuite) startFourPlayerGame() string {
	roomID := s.createRoom("Arena", "A", "alice")
	s.joinRoom(roomID, "A", "alice")
	s.joinRoom(roomID, "B", "bob")
	s.joinRoom(roomID, "C", "carol")
	s.joinRoom(roomID, "D", "dave")

	out, err := s.service.StartGame(s.ctx, &StartGameInput{RoomID: roomID, PlayerID: "A"})
	s.Require().NoError(err)
	s.Require().Equal(3, out.MaxRounds)

	s.waitForEvents(protocol.EventRoundStart, 1)
	return roomID
}

func (s *GameServiceTestSuite) waitForEvents(t protocol.EventType, n int) {
	s.Require().Eventually(func() bool {
		return s.recorder.countOfType(t) >= n
	}, 2*time.Second, 5*time.Millisecond, "expected %d %s events", n, t)
}

func (s *GameServiceTestSuite) submit(roomID, playerID string, lat, lng float64) {
	_, err := s.service.SubmitGuess(s.ctx, &SubmitGuessInput{
		RoomID:   roomID,
		PlayerID: playerID,
		Guess:    models.Coordinate{Lat: lat, Lng: lng},
	})
	s.Require().NoError(err)
}

func (s *GameServiceTestSuite) TestStartGame_Validation() {
	s.newService(nil)
	s.expectLocation("img-1", 0, 0)

	roomID := s.createRoom("Arena", "A", "alice")
	s.joinRoom(roomID, "A", "alice")
	s.joinRoom(roomID, "B", "bob")
	s.joinRoom(roomID, "C", "carol")

	_, err := s.service.StartGame(s.ctx, &StartGameInput{RoomID: "nope", PlayerID: "A"})
	s.Equal(ErrRoomNotFound, err)

	_, err = s.service.StartGame(s.ctx, &StartGameInput{RoomID: roomID, PlayerID: "B"})
	s.Equal(ErrNotHost, err)

	_, err = s.service.StartGame(s.ctx, &StartGameInput{RoomID: roomID, PlayerID: "A"})
	s.Equal(ErrNotEnoughPlayers, err)

	s.joinRoom(roomID, "D", "dave")
	_, err = s.service.StartGame(s.ctx, &StartGameInput{RoomID: roomID, PlayerID: "A"})
	s.Require().NoError(err)

	_, err = s.service.StartGame(s.ctx, &StartGameInput{RoomID: roomID, PlayerID: "A"})
	s.Equal(ErrGameAlreadyStarted, err)

	_, err = s.service.JoinRoom(s.ctx, &JoinRoomInput{RoomID: roomID, PlayerID: "E", PlayerName: "eve"})
	s.Equal(ErrGameAlreadyStarted, err)

	s.waitForEvents(protocol.EventRoundStart, 1)
}

func (s *GameServiceTestSuite) TestStartGame_RoundStartPayload() {
	s.newService(nil)
	s.expectLocation("img-1", 37.5665, 126.978)
	s.startFourPlayerGame()

	started, ok := s.recorder.lastOfType(protocol.EventGameStarted)
	s.Require().True(ok)
	startedData := started.event.Data.(protocol.GameStartedData)
	s.Equal(3, startedData.MaxRounds)
	s.Equal(4, startedData.TotalPlayers)

	round, ok := s.recorder.lastOfType(protocol.EventRoundStart)
	s.Require().True(ok)
	s.Len(round.targets, 4)

	data := round.event.Data.(protocol.RoundStartData)
	s.Equal(1, data.Round)
	s.Equal(3, data.MaxRounds)
	s.Equal("img-1", data.ImageID)
	s.Equal(60, data.TimeLimitSeconds)
	s.Len(data.ActivePlayers, 4)
}

func (s *GameServiceTestSuite) TestSubmitGuess_Validation() {
	s.newService(nil)
	s.expectLocation("img-1", 0, 0)

	_, err := s.service.SubmitGuess(s.ctx, &SubmitGuessInput{
		RoomID:   "whatever",
		PlayerID: "A",
		Guess:    models.Coordinate{Lat: 91, Lng: 0},
	})
	s.Equal(ErrInvalidCoordinate, err)

	roomID := s.createRoom("Arena", "A", "alice")
	s.joinRoom(roomID, "A", "alice")

	_, err = s.service.SubmitGuess(s.ctx, &SubmitGuessInput{
		RoomID:   roomID,
		PlayerID: "A",
		Guess:    models.Coordinate{Lat: 0, Lng: 0},
	})
	s.Equal(ErrGameNotInProgress, err, "no guesses before the game starts")
}

func (s *GameServiceTestSuite) TestSubmitGuess_NonMemberAndEliminated() {
	s.newService(nil)
	s.expectLocation("img-1", 0, 0)
	roomID := s.startFourPlayerGame()

	_, err := s.service.SubmitGuess(s.ctx, &SubmitGuessInput{
		RoomID:   roomID,
		PlayerID: "Z",
		Guess:    models.Coordinate{Lat: 0, Lng: 0},
	})
	s.Equal(ErrPlayerNotInRoom, err)

	// Round 1: D's guess is strictly worst, so D goes out.
	s.submit(roomID, "A", 0, 0)
	s.submit(roomID, "B", 0, 1)
	s.submit(roomID, "C", 10, 10)
	s.submit(roomID, "D", 20, 20)

	s.waitForEvents(protocol.EventRoundEnd, 1)
	s.waitForEvents(protocol.EventRoundStart, 2)

	_, err = s.service.SubmitGuess(s.ctx, &SubmitGuessInput{
		RoomID:   roomID,
		PlayerID: "D",
		Guess:    models.Coordinate{Lat: 0, Lng: 0},
	})
	s.Equal(ErrPlayerEliminated, err)
}

func (s *GameServiceTestSuite) TestSubmitGuess_RejectedBetweenRounds() {
	s.newService(func(cfg *Config) { cfg.InterRoundDelay = 500 * time.Millisecond })
	s.expectLocation("img-1", 0, 0)
	roomID := s.startFourPlayerGame()

	s.submit(roomID, "A", 0, 0)
	s.submit(roomID, "B", 0, 1)
	s.submit(roomID, "C", 10, 10)
	s.submit(roomID, "D", 20, 20)
	s.waitForEvents(protocol.EventRoundEnd, 1)

	// The next round has not opened yet; guesses are rejected while
	// the next panorama is pending.
	_, err := s.service.SubmitGuess(s.ctx, &SubmitGuessInput{
		RoomID:   roomID,
		PlayerID: "A",
		Guess:    models.Coordinate{Lat: 0, Lng: 0},
	})
	s.Equal(ErrRoundNotActive, err)
}

func (s *GameServiceTestSuite) TestRound_WorstGuessEliminated() {
	s.newService(nil)
	s.expectLocation("img-1", 0, 0)
	roomID := s.startFourPlayerGame()

	s.submit(roomID, "A", 0, 0)
	s.submit(roomID, "B", 0, 1)
	s.submit(roomID, "C", 10, 10)
	s.submit(roomID, "D", 20, 20)

	s.waitForEvents(protocol.EventRoundEnd, 1)
	s.Equal(4, s.recorder.countOfType(protocol.EventPlayerSubmitted))

	end, ok := s.recorder.lastOfType(protocol.EventRoundEnd)
	s.Require().True(ok)
	data := end.event.Data.(protocol.RoundEndData)

	s.Equal("img-1", data.CorrectLocation.ImageID)
	s.Equal("D", data.EliminatedPlayerID)
	s.Require().Len(data.Guesses, 4)
	s.InDelta(0, data.Guesses["A"].DistanceKM, 0.001)
	s.InDelta(111.19, data.Guesses["B"].DistanceKM, 0.5)
	s.Greater(data.Guesses["D"].DistanceKM, data.Guesses["C"].DistanceKM)

	s.Require().Len(data.Rankings, 1)
	s.Equal("D", data.Rankings[0].PlayerID)
	s.Equal(4, data.Rankings[0].Rank)
	s.Equal("dave", data.Rankings[0].Name)
}

func (s *GameServiceTestSuite) TestFullGameToCompletion() {
	s.newService(nil)
	s.expectLocation("img-1", 0, 0)

	saved := make(chan *models.MatchRecord, 1)
	s.mockMatchRepo.EXPECT().SaveMatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *matchRepo.SaveMatchInput) error {
			saved <- input.Match
			return nil
		})

	roomID := s.startFourPlayerGame()

	// Round 1: D out.
	s.submit(roomID, "A", 0, 0)
	s.submit(roomID, "B", 0, 1)
	s.submit(roomID, "C", 10, 10)
	s.submit(roomID, "D", 20, 20)
	s.waitForEvents(protocol.EventRoundStart, 2)

	// Round 2: C out.
	s.submit(roomID, "A", 0, 0)
	s.submit(roomID, "B", 0, 1)
	s.submit(roomID, "C", 20, 20)
	s.waitForEvents(protocol.EventRoundStart, 3)

	// Round 3: B out, A wins.
	s.submit(roomID, "A", 0, 0)
	s.submit(roomID, "B", 20, 20)
	s.waitForEvents(protocol.EventGameEnd, 1)

	end, ok := s.recorder.lastOfType(protocol.EventGameEnd)
	s.Require().True(ok)
	data := end.event.Data.(protocol.GameEndData)

	s.Equal("A", data.WinnerID)
	s.Equal("alice", data.WinnerName)
	s.Require().Len(data.FinalRankings, 4)
	for i, want := range []models.PlayerRank{
		{PlayerID: "A", Name: "alice", Rank: 1},
		{PlayerID: "B", Name: "bob", Rank: 2},
		{PlayerID: "C", Name: "carol", Rank: 3},
		{PlayerID: "D", Name: "dave", Rank: 4},
	} {
		s.Equal(want, data.FinalRankings[i])
	}

	select {
	case record := <-saved:
		s.Equal("match00001", record.ID)
		s.Equal(roomID, record.RoomID)
		s.Equal("Arena", record.RoomName)
		s.Equal(4, record.PlayerCount)
		s.Equal(3, record.RoundsPlayed)
		s.Equal("A", record.WinnerID)
		s.Equal("alice", record.WinnerName)
		s.Equal(s.testTime, record.FinishedAt)
	case <-time.After(2 * time.Second):
		s.Fail("match record was never saved")
	}

	// Finished rooms keep accepting snapshot reads until cleanup.
	room, err := s.service.GetRoom(s.ctx, &GetRoomInput{RoomID: roomID})
	s.Require().NoError(err)
	s.Equal(models.RoomStatusFinished, room.Room.Status)
}

func (s *GameServiceTestSuite) TestDeadline_NonSubmitterEliminated() {
	s.newService(func(cfg *Config) { cfg.RoundDuration = 300 * time.Millisecond })
	s.expectLocation("img-1", 0, 0)
	roomID := s.startFourPlayerGame()

	s.submit(roomID, "A", 0, 0)
	s.submit(roomID, "B", 0, 1)
	s.submit(roomID, "C", 10, 10)
	// D never submits; the deadline timer resolves the round.

	s.waitForEvents(protocol.EventRoundEnd, 1)

	end, _ := s.recorder.lastOfType(protocol.EventRoundEnd)
	data := end.event.Data.(protocol.RoundEndData)

	s.Equal("D", data.EliminatedPlayerID)
	s.Require().Contains(data.Guesses, "D")
	s.Equal(85.0, data.Guesses["D"].Lat)
	s.Equal(180.0, data.Guesses["D"].Lng)
	s.Equal(math.MaxFloat64, data.Guesses["D"].DistanceKM)

	s.Require().Len(data.Rankings, 1)
	s.Equal("D", data.Rankings[0].PlayerID)
	s.Equal(4, data.Rankings[0].Rank)
}

func (s *GameServiceTestSuite) TestResolveRound_ConcurrentTriggersResolveOnce() {
	s.newService(func(cfg *Config) {
		cfg.RoundDuration = 50 * time.Millisecond
		cfg.InterRoundDelay = time.Hour
	})
	s.expectLocation("img-1", 0, 0)
	roomID := s.startFourPlayerGame()

	r, err := s.service.room(roomID)
	s.Require().NoError(err)

	r.mu.Lock()
	epoch := r.roundEpoch
	r.mu.Unlock()

	// Hammer resolution from many goroutines while the real deadline
	// timer also fires; the latch must let exactly one through.
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.service.resolveRound(r, epoch)
		}()
	}
	wg.Wait()

	s.waitForEvents(protocol.EventRoundEnd, 1)

	// Give the deadline timer time to fire on top of the manual calls.
	time.Sleep(150 * time.Millisecond)

	s.Equal(1, s.recorder.countOfType(protocol.EventRoundEnd))

	r.mu.Lock()
	rankings := len(r.rankings)
	eliminations := len(r.eliminatedOrder)
	r.mu.Unlock()
	s.Equal(1, rankings, "exactly one player is ranked per resolved round")
	s.Equal(1, eliminations)
}

func (s *GameServiceTestSuite) TestRankings_DuplicateDisplayNamesStayDistinct() {
	s.newService(nil)
	s.expectLocation("img-1", 0, 0)
	s.mockMatchRepo.EXPECT().SaveMatch(gomock.Any(), gomock.Any()).Return(nil)

	roomID := s.createRoom("Arena", "p1", "alice")
	s.joinRoom(roomID, "p1", "alice")
	s.joinRoom(roomID, "p2", "alice")
	s.joinRoom(roomID, "p3", "bob")
	s.joinRoom(roomID, "p4", "carol")

	_, err := s.service.StartGame(s.ctx, &StartGameInput{RoomID: roomID, PlayerID: "p1"})
	s.Require().NoError(err)
	s.waitForEvents(protocol.EventRoundStart, 1)

	// Round 1: the second alice guesses strictly worst and goes out.
	s.submit(roomID, "p1", 0, 0)
	s.submit(roomID, "p2", 20, 20)
	s.submit(roomID, "p3", 0, 1)
	s.submit(roomID, "p4", 10, 10)
	s.waitForEvents(protocol.EventRoundStart, 2)

	for _, playerID := range []string{"p4", "p3"} {
		_, err := s.service.LeaveRoom(s.ctx, &LeaveRoomInput{RoomID: roomID, PlayerID: playerID})
		s.Require().NoError(err)
	}
	s.waitForEvents(protocol.EventGameEnd, 1)

	end, _ := s.recorder.lastOfType(protocol.EventGameEnd)
	data := end.event.Data.(protocol.GameEndData)

	// Two players share the name "alice" but keep separate entries,
	// keyed by their session IDs.
	s.Require().Len(data.FinalRankings, 4)
	s.Equal(models.PlayerRank{PlayerID: "p1", Name: "alice", Rank: 1}, data.FinalRankings[0])
	s.Equal(models.PlayerRank{PlayerID: "p2", Name: "alice", Rank: 4}, data.FinalRankings[3])
	s.NotEqual(data.FinalRankings[0].PlayerID, data.FinalRankings[3].PlayerID)
}

func (s *GameServiceTestSuite) TestLeaveMidRound_CompletesSubmissionSet() {
	s.newService(nil)
	s.expectLocation("img-1", 0, 0)
	roomID := s.startFourPlayerGame()

	s.submit(roomID, "A", 0, 0)
	s.submit(roomID, "B", 0, 1)
	s.submit(roomID, "C", 10, 10)

	// D leaving both eliminates D and completes the round's submission
	// set, so the round resolves without waiting for the deadline.
	_, err := s.service.LeaveRoom(s.ctx, &LeaveRoomInput{RoomID: roomID, PlayerID: "D"})
	s.Require().NoError(err)

	s.waitForEvents(protocol.EventRoundEnd, 1)

	end, _ := s.recorder.lastOfType(protocol.EventRoundEnd)
	data := end.event.Data.(protocol.RoundEndData)
	s.Equal("C", data.EliminatedPlayerID, "worst remaining guess goes out")
	s.Require().Len(data.Rankings, 2)
	s.Equal("D", data.Rankings[1].PlayerID)
	s.Equal(4, data.Rankings[1].Rank)
	s.Equal("C", data.Rankings[0].PlayerID)
	s.Equal(3, data.Rankings[0].Rank)
}

func (s *GameServiceTestSuite) TestLeave_LastOpponentGoneFinishesGame() {
	s.newService(nil)
	s.expectLocation("img-1", 0, 0)

	saved := make(chan *models.MatchRecord, 1)
	s.mockMatchRepo.EXPECT().SaveMatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *matchRepo.SaveMatchInput) error {
			saved <- input.Match
			return nil
		})

	roomID := s.startFourPlayerGame()

	for _, playerID := range []string{"D", "B", "C"} {
		_, err := s.service.LeaveRoom(s.ctx, &LeaveRoomInput{RoomID: roomID, PlayerID: playerID})
		s.Require().NoError(err)
	}

	s.waitForEvents(protocol.EventGameEnd, 1)

	end, _ := s.recorder.lastOfType(protocol.EventGameEnd)
	data := end.event.Data.(protocol.GameEndData)
	s.Equal("A", data.WinnerID)
	s.Require().Len(data.FinalRankings, 4)
	for i, want := range []models.PlayerRank{
		{PlayerID: "A", Name: "alice", Rank: 1},
		{PlayerID: "C", Name: "carol", Rank: 2},
		{PlayerID: "B", Name: "bob", Rank: 3},
		{PlayerID: "D", Name: "dave", Rank: 4},
	} {
		s.Equal(want, data.FinalRankings[i])
	}

	select {
	case record := <-saved:
		s.Equal("A", record.WinnerID)
		s.Equal(1, record.RoundsPlayed)
	case <-time.After(2 * time.Second):
		s.Fail("match record was never saved")
	}
}

func (s *GameServiceTestSuite) TestLocationFailure_HostCanRetry() {
	s.newService(nil)

	s.mockLocations.EXPECT().FetchLocation(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("mapillary unavailable"))
	s.expectLocation("img-1", 0, 0)

	roomID := s.createRoom("Arena", "A", "alice")
	s.joinRoom(roomID, "A", "alice")
	s.joinRoom(roomID, "B", "bob")
	s.joinRoom(roomID, "C", "carol")
	s.joinRoom(roomID, "D", "dave")

	_, err := s.service.StartGame(s.ctx, &StartGameInput{RoomID: roomID, PlayerID: "A"})
	s.Require().NoError(err)

	s.waitForEvents(protocol.EventGameError, 1)
	s.Equal(0, s.recorder.countOfType(protocol.EventRoundStart))

	// The retry path is only open to the host.
	_, err = s.service.StartGame(s.ctx, &StartGameInput{RoomID: roomID, PlayerID: "B"})
	s.Equal(ErrNotHost, err)

	out, err := s.service.StartGame(s.ctx, &StartGameInput{RoomID: roomID, PlayerID: "A"})
	s.Require().NoError(err)
	s.Equal(3, out.MaxRounds)

	s.waitForEvents(protocol.EventRoundStart, 1)

	round, _ := s.recorder.lastOfType(protocol.EventRoundStart)
	s.Equal(1, round.event.Data.(protocol.RoundStartData).Round)
}
