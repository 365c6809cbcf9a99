package rating

import (
	"errors"
	"math"

	"github.com/goserg/chesstable/internal/domain"
)

var (
	// ErrMalformedInput reports a game with a result outside {win, loss, draw}
	// or an unparseable period key. Not recoverable, the whole pass aborts.
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnknownPlayer reports a game referencing a player that is not in the
	// roster while auto-creation is off.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrNumericDegeneracy reports a non-positive deviation or d² inside the
	// Glicko update. Always a configuration or data bug, never clamped away.
	ErrNumericDegeneracy = errors.New("numeric degeneracy")
)

// Encounter is one game seen from one player's side. Opponent carries the
// opponent's state frozen at the start of the rating period, so results
// inside a period stay order independent.
type Encounter struct {
	Opponent domain.Rating
	Score    domain.Score
}

// Algorithm turns a player's pre-period state and the period's encounters
// into the post-period state. An empty encounter list means the player sat
// the period out.
type Algorithm interface {
	Name() string
	Initial() domain.Rating
	Update(pre domain.Rating, encounters []Encounter) (domain.Rating, error)
}

// Settings are the plain values the rating variants are built from. How they
// are supplied (toml, flags) is not this package's concern.
type Settings struct {
	InitialRating float64
	KFactor       float64

	InitialDeviation float64
	MinDeviation     float64
	MaxDeviation     float64
	// ApproxDeviation is the estimated deviation of a frequent player, used
	// to derive the idle growth constant when C is not set explicitly.
	ApproxDeviation float64
	// ReturnPeriods is the number of idle periods after which a frequent
	// player's deviation is back at MaxDeviation.
	ReturnPeriods int
	C             float64

	Volatility float64
}

// DeviationGrowth returns the per-period deviation growth constant c,
// deriving it from ApproxDeviation and ReturnPeriods when not set.
func (s Settings) DeviationGrowth() float64 {
	if s.C > 0 {
		return s.C
	}
	return math.Sqrt((s.MaxDeviation*s.MaxDeviation - s.ApproxDeviation*s.ApproxDeviation) / float64(s.ReturnPeriods))
}

// DefaultSettings mirrors the classic chess club setup: everybody starts at
// 1500, K=20, deviations between 50 and 350.
func DefaultSettings() Settings {
	return Settings{
		InitialRating:    1500,
		KFactor:          20,
		InitialDeviation: 350,
		MinDeviation:     50,
		MaxDeviation:     350,
		ApproxDeviation:  60,
		ReturnPeriods:    10,
		Volatility:       0.06,
	}
}
