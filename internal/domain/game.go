package domain

import (
	"time"

	"github.com/google/uuid"
)

// Score is a game result from the white player's side.
type Score float64

const (
	WhiteWins Score = 1
	Draw      Score = 0.5
	BlackWins Score = 0
)

func (s Score) Valid() bool {
	return s == WhiteWins || s == Draw || s == BlackWins
}

// Inverse is the same result from the black player's side.
func (s Score) Inverse() Score {
	return 1 - s
}

type Game struct {
	ID         int
	White      Player
	Black      Player
	ScoreWhite Score
	PlayedAt   time.Time

	// PeriodKey groups games rated simultaneously, one key per calendar day.
	PeriodKey string

	// RatingChange* are filled by projections, not stored.
	RatingChangeWhite float64
	RatingChangeBlack float64
}

// ScoreOf returns the game result from the given player's side.
func (g Game) ScoreOf(id uuid.UUID) Score {
	if g.White.ID == id {
		return g.ScoreWhite
	}
	return g.ScoreWhite.Inverse()
}

// Opponent returns the other side of the game.
func (g Game) Opponent(id uuid.UUID) Player {
	if g.White.ID == id {
		return g.Black
	}
	return g.White
}

// Winner returns the winning player, or false on a draw.
func (g Game) Winner() (Player, bool) {
	switch g.ScoreWhite {
	case WhiteWins:
		return g.White, true
	case BlackWins:
		return g.Black, true
	}
	return Player{}, false
}

// DayKey is the period key of a calendar day.
func DayKey(t time.Time) string {
	return t.Format("20060102")
}
