package elo

import (
	"math"

	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/rating"
)

// Algorithm is the classic Elo system applied per rating period: every game
// of the period contributes K*(S-E) computed from period-start ratings, the
// contributions are summed and applied once. Sequential per-game Elo would
// make the result depend on game order inside a period, batching does not.
type Algorithm struct {
	k       float64
	initial float64
}

var _ rating.Algorithm = (*Algorithm)(nil)

func New(s rating.Settings) *Algorithm {
	return &Algorithm{
		k:       s.KFactor,
		initial: s.InitialRating,
	}
}

func (a *Algorithm) Name() string {
	return "elo"
}

func (a *Algorithm) Initial() domain.Rating {
	return domain.Rating{Rating: a.initial}
}

func (a *Algorithm) Update(pre domain.Rating, encounters []rating.Encounter) (domain.Rating, error) {
	var sum float64
	for _, e := range encounters {
		sum += float64(e.Score) - Expected(pre.Rating, e.Opponent.Rating)
	}
	return domain.Rating{Rating: pre.Rating + a.k*sum}, nil
}

// Expected is the expected score of a player rated ra against rb.
func Expected(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rb-ra)/400.0))
}
