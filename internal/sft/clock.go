package sft

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts identity minting so tests are deterministic.
// Generated values must be globally unique and sort by creation time.
type IDGenerator interface {
	New() string
}

// UUIDv7Generator produces time-ordered UUIDv7 identities.
type UUIDv7Generator struct{}

func (UUIDv7Generator) New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 fails only if the entropy source does; fall back to v4
		// rather than minting no identity at all.
		return uuid.New().String()
	}
	return id.String()
}
