package uuid

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_uuid.go github.com/geonobo/geonobo/internal/common/uuid Generator

// Generator produces identifiers: full UUIDs for sessions and short
// url-friendly tokens for room IDs.
type Generator interface {
	NewUUID() string
	NewShortID() string
}

const (
	shortIDLength  = 9
	shortIDCharset = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// DefaultGenerator implements the Generator interface using the uuid
// package and a seeded random source for short tokens.
type DefaultGenerator struct {
	random *rand.Rand
}

func New() *DefaultGenerator {
	return &DefaultGenerator{
		random: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewUUID returns a new UUID
func (d *DefaultGenerator) NewUUID() string {
	return uuid.New().String()
}

// NewShortID returns a 9 character base36 token
func (d *DefaultGenerator) NewShortID() string {
	b := make([]byte, shortIDLength)
	for i := range b {
		b[i] = shortIDCharset[d.random.Intn(len(shortIDCharset))]
	}
	return string(b)
}
