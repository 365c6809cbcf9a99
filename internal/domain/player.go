package domain

import (
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID           uuid.UUID
	Name         string // short key, unique within the league
	FullName     string
	RegisteredAt time.Time

	GamesPlayed int
	RatingRank  int
	Rating      Rating
}

// Rating is the rating state of a single player. Deviation and Volatility
// stay zero under plain Elo.
type Rating struct {
	Rating     float64
	Deviation  float64
	Volatility float64
}

// Snapshot is one player's state right after a rating period was processed.
// Snapshots are append-only, the history never rewrites them.
type Snapshot struct {
	PlayerID uuid.UUID
	Period   int
	Rating   Rating
}
