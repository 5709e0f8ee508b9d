package locations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/geonobo/geonobo/internal/models"
)

// ErrNoImagery is returned when sampling exhausts its attempts without
// finding a panorama image.
var ErrNoImagery = errors.New("no panorama imagery found")

// ErrUnknownRegion is returned for a region name with no preset.
var ErrUnknownRegion = errors.New("unknown region")

const (
	// Half-width in degrees of the bounding box around a sample point.
	bboxHalfWidth = 0.5

	// Latitude band sampled for world-wide locations. Imagery above
	// 85 degrees is effectively nonexistent.
	maxSampleLat = 85.0
)

// Config holds configuration for the Mapillary location provider
type Config struct {
	// Client is the Mapillary API client
	Client *Client

	// MaxAttempts bounds how many random samples one fetch may try
	MaxAttempts int

	// Rand is an optional random source, seeded from time when nil
	Rand *rand.Rand
}

// MapillaryProvider implements the Provider interface against the
// Mapillary Graph API by sampling random bounding boxes until one
// contains panorama imagery.
type MapillaryProvider struct {
	client      *Client
	maxAttempts int
	random      *rand.Rand
}

// NewMapillary creates a new Mapillary-backed location provider
func NewMapillary(cfg *Config) (*MapillaryProvider, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Client == nil {
		return nil, errors.New("client cannot be nil")
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	random := cfg.Rand
	if random == nil {
		random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &MapillaryProvider{
		client:      cfg.Client,
		maxAttempts: maxAttempts,
		random:      random,
	}, nil
}

// FetchLocation returns a panorama image and its true coordinates. With
// a region it samples around the preset center; otherwise it samples
// random world coordinates, retrying empty areas up to the attempt
// ceiling before giving up with ErrNoImagery.
func (p *MapillaryProvider) FetchLocation(ctx context.Context, input *FetchLocationInput) (*FetchLocationOutput, error) {
	if input == nil {
		input = &FetchLocationInput{}
	}

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		lat, lng, limit, err := p.samplePoint(input.Region)
		if err != nil {
			return nil, err
		}

		location, err := p.fetchNear(ctx, lat, lng, limit)
		if err != nil {
			return nil, err
		}
		if location == nil {
			log.Printf("[locations] attempt %d/%d: no imagery near (%.2f, %.2f)", attempt, p.maxAttempts, lat, lng)
			continue
		}

		return &FetchLocationOutput{Location: location}, nil
	}

	return nil, ErrNoImagery
}

// samplePoint picks the next search center. Region searches use a wider
// result limit so repeated rounds do not always land on the same image.
func (p *MapillaryProvider) samplePoint(region string) (lat, lng float64, limit int, err error) {
	if region == "" {
		lat = p.random.Float64()*2*maxSampleLat - maxSampleLat
		lng = p.random.Float64()*360 - 180
		return lat, lng, 1, nil
	}

	preset, ok := regionPresets[region]
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: %s", ErrUnknownRegion, region)
	}
	return preset.Lat, preset.Lng, 10, nil
}

func (p *MapillaryProvider) fetchNear(ctx context.Context, lat, lng float64, limit int) (*models.Location, error) {
	bbox := fmt.Sprintf("%f,%f,%f,%f", lng-bboxHalfWidth, lat-bboxHalfWidth, lng+bboxHalfWidth, lat+bboxHalfWidth)

	images, err := p.client.SearchImages(ctx, &SearchImagesParams{
		BBox:  bbox,
		Pano:  true,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, nil
	}

	image := images[p.random.Intn(len(images))]

	detail, err := p.client.GetImageDetail(ctx, image.ID, "")
	if err != nil {
		return nil, err
	}

	geometry := detail.BestGeometry()
	if geometry == nil {
		// An image without coordinates is useless as a target.
		return nil, nil
	}

	return &models.Location{
		ImageID: image.ID,
		Lat:     geometry.Coordinates[1],
		Lng:     geometry.Coordinates[0],
	}, nil
}
