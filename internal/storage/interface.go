package storage

import (
	"github.com/google/uuid"

	"github.com/goserg/chesstable/internal/domain"
)

type PlayerStorage interface {
	ListPlayers() ([]domain.Player, error)
	Get(uuid.UUID) (domain.Player, error)
	GetByName(string) (domain.Player, error)
	Add(domain.Player) (domain.Player, error)

	ImportPlayers([]domain.Player) error
}

type GameStorage interface {
	ListGames() ([]domain.Game, error)
	Create(domain.Game) (domain.Game, error)

	ImportGames([]domain.Game) error
}
