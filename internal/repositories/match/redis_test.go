package match

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/geonobo/geonobo/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	// Create a new miniredis server for each test
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.testNow = time.Date(2025, 7, 12, 20, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) newRecord(id string, finishedAt time.Time) *models.MatchRecord {
	return &models.MatchRecord{
		ID:          id,
		RoomID:      "room-" + id,
		RoomName:    "Friday Night",
		PlayerCount: 4,
		RoundsPlayed: 3,
		Rankings: []models.PlayerRank{
			{PlayerID: "p1", Name: "alice", Rank: 1},
			{PlayerID: "p2", Name: "bob", Rank: 2},
			{PlayerID: "p3", Name: "carol", Rank: 3},
			{PlayerID: "p4", Name: "dave", Rank: 4},
		},
		WinnerID:   "p1",
		WinnerName: "alice",
		FinishedAt: finishedAt,
	}
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetMatch() {
	record := s.newRecord("test-match-id", s.testNow)

	err := s.repo.SaveMatch(context.Background(), &SaveMatchInput{
		Match: record,
	})
	s.Require().NoError(err)

	retrieved, err := s.repo.GetMatch(context.Background(), &GetMatchInput{
		MatchID: "test-match-id",
	})
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)

	s.Equal("test-match-id", retrieved.ID)
	s.Equal("room-test-match-id", retrieved.RoomID)
	s.Equal(4, retrieved.PlayerCount)
	s.Equal("alice", retrieved.WinnerName)
	s.Len(retrieved.Rankings, 4)
	s.Equal(1, retrieved.Rankings[0].Rank)
}

func (s *RedisRepositoryTestSuite) TestGetMatchNotFound() {
	_, err := s.repo.GetMatch(context.Background(), &GetMatchInput{
		MatchID: "does-not-exist",
	})
	s.Require().ErrorIs(err, ErrMatchNotFound)
}

func (s *RedisRepositoryTestSuite) TestListRecentMatchesNewestFirst() {
	for i, id := range []string{"first", "second", "third"} {
		err := s.repo.SaveMatch(context.Background(), &SaveMatchInput{
			Match: s.newRecord(id, s.testNow.Add(time.Duration(i)*time.Minute)),
		})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListRecentMatches(context.Background(), &ListRecentMatchesInput{})
	s.Require().NoError(err)
	s.Require().Len(out.Matches, 3)

	s.Equal("third", out.Matches[0].ID)
	s.Equal("second", out.Matches[1].ID)
	s.Equal("first", out.Matches[2].ID)
}

func (s *RedisRepositoryTestSuite) TestListRecentMatchesLimit() {
	for i, id := range []string{"a", "b", "c", "d"} {
		err := s.repo.SaveMatch(context.Background(), &SaveMatchInput{
			Match: s.newRecord(id, s.testNow.Add(time.Duration(i)*time.Minute)),
		})
		s.Require().NoError(err)
	}

	out, err := s.repo.ListRecentMatches(context.Background(), &ListRecentMatchesInput{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(out.Matches, 2)

	s.Equal("d", out.Matches[0].ID)
	s.Equal("c", out.Matches[1].ID)
}

func (s *RedisRepositoryTestSuite) TestListRecentMatchesEmpty() {
	out, err := s.repo.ListRecentMatches(context.Background(), &ListRecentMatchesInput{})
	s.Require().NoError(err)
	s.Empty(out.Matches)
}
