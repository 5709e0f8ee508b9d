package match

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/geonobo/geonobo/internal/repositories/match Repository

import (
	"context"

	"github.com/geonobo/geonobo/internal/models"
)

// Repository defines the interface for completed-match persistence
type Repository interface {
	// SaveMatch persists a finished match record
	SaveMatch(ctx context.Context, input *SaveMatchInput) error

	// GetMatch retrieves a match record by ID
	GetMatch(ctx context.Context, input *GetMatchInput) (*models.MatchRecord, error)

	// ListRecentMatches retrieves the most recently finished matches
	ListRecentMatches(ctx context.Context, input *ListRecentMatchesInput) (*ListRecentMatchesOutput, error)
}
