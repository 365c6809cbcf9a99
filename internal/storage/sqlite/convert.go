package sqlite

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/goserg/chesstable/gen/model"
	"github.com/goserg/chesstable/internal/domain"
)

func convertPlayerToDomain(player model.Players) (domain.Player, error) {
	id, err := uuid.Parse(player.ID)
	if err != nil {
		return domain.Player{}, fmt.Errorf("player %q: %w", player.Name, err)
	}
	return domain.Player{
		ID:           id,
		Name:         player.Name,
		FullName:     player.FullName,
		RegisteredAt: player.CreatedAt,
	}, nil
}

func convertPlayersToDomain(players []model.Players) ([]domain.Player, error) {
	converted := make([]domain.Player, 0, len(players))
	for _, player := range players {
		p, err := convertPlayerToDomain(player)
		if err != nil {
			return nil, err
		}
		converted = append(converted, p)
	}
	return converted, nil
}

func convertPlayerFromDomain(player domain.Player) model.Players {
	return model.Players{
		ID:        player.ID.String(),
		Name:      player.Name,
		FullName:  player.FullName,
		CreatedAt: player.RegisteredAt,
	}
}

func convertGamesToDomain(games []model.Games) ([]domain.Game, error) {
	converted := make([]domain.Game, 0, len(games))
	for _, game := range games {
		whiteID, err := uuid.Parse(game.WhiteID)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", game.ID, err)
		}
		blackID, err := uuid.Parse(game.BlackID)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", game.ID, err)
		}
		converted = append(converted, domain.Game{
			ID:         int(game.ID),
			White:      domain.Player{ID: whiteID},
			Black:      domain.Player{ID: blackID},
			ScoreWhite: domain.Score(game.ScoreWhite),
			PlayedAt:   game.PlayedAt,
			PeriodKey:  domain.DayKey(game.PlayedAt),
		})
	}
	return converted, nil
}

func convertGameFromDomain(game domain.Game) model.Games {
	return model.Games{
		ID:         int32(game.ID),
		WhiteID:    game.White.ID.String(),
		BlackID:    game.Black.ID.String(),
		ScoreWhite: float64(game.ScoreWhite),
		PlayedAt:   game.PlayedAt,
	}
}
