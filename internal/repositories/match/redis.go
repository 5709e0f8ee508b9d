package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/geonobo/geonobo/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	matchKeyPrefix   = "match:"
	recentMatchesKey = "recent_matches"

	// defaultListLimit bounds ListRecentMatches when no limit is given
	defaultListLimit = 20
)

// ErrMatchNotFound is returned when a match record is not found
var ErrMatchNotFound = errors.New("match not found")

// Config holds configuration for the Redis match repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed match repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveMatch persists a finished match record to Redis
func (r *redisRepository) SaveMatch(ctx context.Context, input *SaveMatchInput) error {
	if input == nil || input.Match == nil {
		return errors.New("input and match cannot be nil")
	}

	if input.Match.ID == "" {
		return errors.New("match ID cannot be empty")
	}

	matchJSON, err := json.Marshal(input.Match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}

	pipe := r.client.Pipeline()

	matchKey := fmt.Sprintf("%s%s", matchKeyPrefix, input.Match.ID)
	pipe.Set(ctx, matchKey, matchJSON, 0)

	// Index by finish time so recent matches can be listed newest first.
	pipe.ZAdd(ctx, recentMatchesKey, redis.Z{
		Score:  float64(input.Match.FinishedAt.UnixNano()),
		Member: input.Match.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}

// GetMatch retrieves a match record by ID from Redis
func (r *redisRepository) GetMatch(ctx context.Context, input *GetMatchInput) (*models.MatchRecord, error) {
	if input == nil || input.MatchID == "" {
		return nil, errors.New("input and match ID cannot be empty")
	}

	matchKey := fmt.Sprintf("%s%s", matchKeyPrefix, input.MatchID)
	matchJSON, err := r.client.Get(ctx, matchKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	var record models.MatchRecord
	if err := json.Unmarshal([]byte(matchJSON), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &record, nil
}

// ListRecentMatches retrieves the most recently finished matches from Redis
func (r *redisRepository) ListRecentMatches(ctx context.Context, input *ListRecentMatchesInput) (*ListRecentMatchesOutput, error) {
	if input == nil {
		input = &ListRecentMatchesInput{}
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	ids, err := r.client.ZRevRange(ctx, recentMatchesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent matches: %w", err)
	}

	matches := make([]*models.MatchRecord, 0, len(ids))
	for _, id := range ids {
		record, err := r.GetMatch(ctx, &GetMatchInput{MatchID: id})
		if err != nil {
			if errors.Is(err, ErrMatchNotFound) {
				// Index entry without a record; skip rather than fail the listing.
				continue
			}
			return nil, err
		}
		matches = append(matches, record)
	}

	return &ListRecentMatchesOutput{Matches: matches}, nil
}
