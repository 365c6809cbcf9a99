package glicko

import (
	"fmt"
	"math"

	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/rating"
)

// q converts between the Elo scale and the natural-log scale Glicko works on.
const q = math.Ln10 / 400

// Algorithm is Glickman's original Glicko system. On top of the Elo-style
// rating every player carries a deviation: it shrinks with games against
// well-known opponents and grows by c per idle period until it is back at
// the maximum.
type Algorithm struct {
	s rating.Settings
	c float64
}

var _ rating.Algorithm = (*Algorithm)(nil)

func New(s rating.Settings) *Algorithm {
	return &Algorithm{
		s: s,
		c: s.DeviationGrowth(),
	}
}

func (a *Algorithm) Name() string {
	return "glicko"
}

func (a *Algorithm) Initial() domain.Rating {
	return domain.Rating{
		Rating:    a.s.InitialRating,
		Deviation: a.s.InitialDeviation,
	}
}

func (a *Algorithm) Update(pre domain.Rating, encounters []rating.Encounter) (domain.Rating, error) {
	if pre.Deviation <= 0 {
		return domain.Rating{}, fmt.Errorf("deviation %v: %w", pre.Deviation, rating.ErrNumericDegeneracy)
	}

	if len(encounters) == 0 {
		// No games this period: certainty decays, the rating stays.
		rd := math.Sqrt(pre.Deviation*pre.Deviation + a.c*a.c)
		return domain.Rating{
			Rating:    pre.Rating,
			Deviation: a.clamp(rd),
		}, nil
	}

	var dInv, improvement float64
	for _, e := range encounters {
		g := weight(e.Opponent.Deviation)
		expected := 1.0 / (1.0 + math.Pow(10, -g*(pre.Rating-e.Opponent.Rating)/400.0))
		dInv += g * g * expected * (1 - expected)
		improvement += g * (float64(e.Score) - expected)
	}
	dInv *= q * q // now 1/d²
	if dInv <= 0 || math.IsNaN(dInv) {
		return domain.Rating{}, fmt.Errorf("d² denominator %v: %w", dInv, rating.ErrNumericDegeneracy)
	}

	denom := 1.0/(pre.Deviation*pre.Deviation) + dInv
	return domain.Rating{
		Rating:    pre.Rating + q/denom*improvement,
		Deviation: a.clamp(math.Sqrt(1.0 / denom)),
	}, nil
}

func (a *Algorithm) clamp(rd float64) float64 {
	if rd < a.s.MinDeviation {
		return a.s.MinDeviation
	}
	if rd > a.s.MaxDeviation {
		return a.s.MaxDeviation
	}
	return rd
}

// weight is Glicko's g(RD), discounting games against uncertain opponents.
func weight(rd float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*q*q*rd*rd/(math.Pi*math.Pi))
}
