package locations

import (
	"github.com/geonobo/geonobo/internal/models"
)

// FetchLocationInput contains parameters for fetching a location
type FetchLocationInput struct {
	// Region optionally restricts sampling to a named preset area.
	// Empty means anywhere in the world.
	Region string
}

// FetchLocationOutput contains the result of fetching a location
type FetchLocationOutput struct {
	// Location is the panorama image and its true coordinates
	Location *models.Location
}

// regionPreset is a center point a region search samples around.
type regionPreset struct {
	Lat float64
	Lng float64
}

// regionPresets are the named search areas carried over from the
// original region list.
var regionPresets = map[string]regionPreset{
	"seoul":   {Lat: 37.5665, Lng: 126.9780},
	"newyork": {Lat: 40.7128, Lng: -74.0060},
	"london":  {Lat: 51.5074, Lng: -0.1278},
	"tokyo":   {Lat: 35.6762, Lng: 139.6503},
	"paris":   {Lat: 48.8566, Lng: 2.3522},
}
