package models

import (
	"time"
)

// Coordinate is a point on the globe in decimal degrees.
type Coordinate struct {
	// Lat is the latitude in degrees, valid range [-90, 90]
	Lat float64 `json:"lat"`

	// Lng is the longitude in degrees, valid range [-180, 180]
	Lng float64 `json:"lng"`
}

// Location is a panorama target for one round: an opaque provider image
// plus the true coordinate the guesses are scored against.
type Location struct {
	// ImageID is the panorama image identifier from the provider
	ImageID string `json:"imageId"`

	// Lat is the true latitude of the panorama
	Lat float64 `json:"lat"`

	// Lng is the true longitude of the panorama
	Lng float64 `json:"lng"`
}

// Coordinate returns the location's true coordinate.
func (l Location) Coordinate() Coordinate {
	return Coordinate{Lat: l.Lat, Lng: l.Lng}
}

// Guess is a player's submitted position for the current round.
type Guess struct {
	// Lat is the guessed latitude in degrees
	Lat float64 `json:"lat"`

	// Lng is the guessed longitude in degrees
	Lng float64 `json:"lng"`

	// DistanceKM is the great-circle distance to the round's true location
	DistanceKM float64 `json:"distance"`

	// SubmittedAt is when the guess was received
	SubmittedAt time.Time `json:"timestamp"`
}
