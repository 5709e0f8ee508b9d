package match

import "github.com/geonobo/geonobo/internal/models"

type SaveMatchInput struct {
	Match *models.MatchRecord
}

type GetMatchInput struct {
	MatchID string
}

type ListRecentMatchesInput struct {
	// Limit caps how many records are returned, defaulted when zero
	Limit int
}

type ListRecentMatchesOutput struct {
	Matches []*models.MatchRecord
}
