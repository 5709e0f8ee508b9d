package locations

//go:generate mockgen -package=mocks -destination=mocks/mock_provider.go github.com/geonobo/geonobo/internal/locations Provider

import (
	"context"
)

// Provider supplies panorama locations for game rounds. Implementations
// may suspend on network calls; callers bound retries themselves rather
// than relying on the provider to loop forever.
type Provider interface {
	// FetchLocation returns a panorama image identifier and its true coordinates
	FetchLocation(ctx context.Context, input *FetchLocationInput) (*FetchLocationOutput, error)
}
