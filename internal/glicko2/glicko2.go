package glicko2

import (
	"fmt"
	"math"

	glicko "github.com/zelenin/go-glicko2"

	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/rating"
)

// scale converts deviations between the Glicko scale and Glicko-2's
// internal one.
const scale = 173.7178

// Algorithm is the Glicko-2 system. The period math is delegated to the
// zelenin library; this wrapper only freezes opponents, maps scores and
// applies the configured deviation bounds so the variant stays
// interchangeable with the others.
type Algorithm struct {
	s rating.Settings
}

var _ rating.Algorithm = (*Algorithm)(nil)

func New(s rating.Settings) *Algorithm {
	return &Algorithm{s: s}
}

func (a *Algorithm) Name() string {
	return "glicko2"
}

func (a *Algorithm) Initial() domain.Rating {
	return domain.Rating{
		Rating:     a.s.InitialRating,
		Deviation:  a.s.InitialDeviation,
		Volatility: a.s.Volatility,
	}
}

func (a *Algorithm) Update(pre domain.Rating, encounters []rating.Encounter) (domain.Rating, error) {
	if pre.Deviation <= 0 {
		return domain.Rating{}, fmt.Errorf("deviation %v: %w", pre.Deviation, rating.ErrNumericDegeneracy)
	}

	if len(encounters) == 0 {
		// Glicko-2 step 6 for a player without games: the deviation grows
		// with the volatility, the rating stays.
		phi := pre.Deviation / scale
		rd := scale * math.Sqrt(phi*phi+pre.Volatility*pre.Volatility)
		return domain.Rating{
			Rating:     pre.Rating,
			Deviation:  a.clamp(rd),
			Volatility: pre.Volatility,
		}, nil
	}

	player := glicko.NewPlayer(glicko.NewRating(pre.Rating, pre.Deviation, pre.Volatility))
	period := glicko.NewRatingPeriod()
	for _, e := range encounters {
		vol := e.Opponent.Volatility
		if vol == 0 {
			vol = a.s.Volatility
		}
		opponent := glicko.NewPlayer(glicko.NewRating(e.Opponent.Rating, e.Opponent.Deviation, vol))
		// Encounter scores are from the updated player's own side, 1 is a
		// win whichever color they held.
		var result glicko.MatchResult
		switch e.Score {
		case 1:
			result = glicko.MATCH_RESULT_WIN
		case 0.5:
			result = glicko.MATCH_RESULT_DRAW
		case 0:
			result = glicko.MATCH_RESULT_LOSS
		default:
			return domain.Rating{}, fmt.Errorf("score %v: %w", e.Score, rating.ErrMalformedInput)
		}
		period.AddMatch(player, opponent, result)
	}
	period.Calculate()

	next := player.Rating()
	if next.Rd() <= 0 || math.IsNaN(next.Rd()) || math.IsNaN(next.R()) {
		return domain.Rating{}, fmt.Errorf("post-period deviation %v: %w", next.Rd(), rating.ErrNumericDegeneracy)
	}
	return domain.Rating{
		Rating:     next.R(),
		Deviation:  a.clamp(next.Rd()),
		Volatility: next.Sigma(),
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
