package web

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goserg/chesstable/internal/domain"
)

type createGame struct {
	WhiteID uuid.UUID `json:"whiteId"`
	BlackID uuid.UUID `json:"blackId"`
	Score   float64   `json:"scoreWhite"`
}

var (
	ErrMissingPlayer = errors.New("оба игрока должны присутствовать")
	ErrSamePlayer    = errors.New("игрок не может играть сам с собой")
	ErrBadScore      = errors.New("результат должен быть 1-0, 0-1 или ничья")
)

func (c createGame) Validate() error {
	if c.WhiteID == uuid.Nil || c.BlackID == uuid.Nil {
		return ErrMissingPlayer
	}
	if c.WhiteID == c.BlackID {
		return ErrSamePlayer
	}
	if !domain.Score(c.Score).Valid() {
		return ErrBadScore
	}
	return nil
}

func (c createGame) convertToDomainGame() domain.Game {
	return domain.Game{
		White:      domain.Player{ID: c.WhiteID},
		Black:      domain.Player{ID: c.BlackID},
		ScoreWhite: domain.Score(c.Score),
		PlayedAt:   time.Now(),
	}
}

type playerHistoryResponse struct {
	PlayerID string               `json:"playerId"`
	Name     string               `json:"name"`
	Periods  []string             `json:"periods"`
	Points   []historyPointRecord `json:"points"`
}

type historyPointRecord struct {
	Period    int     `json:"period"`
	Rating    float64 `json:"rating"`
	Deviation float64 `json:"deviation,omitempty"`
}

func convertHistory(player domain.Player, periods []string, series []domain.Snapshot) playerHistoryResponse {
	resp := playerHistoryResponse{
		PlayerID: player.ID.String(),
		Name:     player.Name,
		Periods:  periods,
		Points:   make([]historyPointRecord, 0, len(series)),
	}
	for _, snap := range series {
		resp.Points = append(resp.Points, historyPointRecord{
			Period:    snap.Period,
			Rating:    snap.Rating.Rating,
			Deviation: snap.Rating.Deviation,
		})
	}
	return resp
}

func formValueScore(ctx *fiber.Ctx) float64 {
	switch ctx.FormValue("result") {
	case "white":
		return 1
	case "black":
		return 0
	case "draw":
		return 0.5
	}
	return -1
}

func formatDate(t time.Time) string {
	return t.Format("02.01.2006")
}
