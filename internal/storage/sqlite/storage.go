package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-jet/jet/v2/qrm"
	jetsqlite "github.com/go-jet/jet/v2/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goserg/chesstable/gen/model"
	"github.com/goserg/chesstable/gen/table"
	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/migrate"
	"github.com/goserg/chesstable/internal/normalize"
	"github.com/goserg/chesstable/internal/storage"
)

type Storage struct {
	db  *sql.DB
	log *logrus.Entry
}

var _ storage.PlayerStorage = (*Storage)(nil)
var _ storage.GameStorage = (*Storage)(nil)

var ErrNotFound = errors.New("not found")

func New(fileName string, l *logrus.Logger) (*Storage, error) {
	log := l.WithField("from", "storage")
	db, err := sql.Open("sqlite3", buildSource(fileName))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if err := migrate.UpServerDB(db); err != nil {
		return nil, err
	}
	log.Info("storage connected")
	return &Storage{
		db:  db,
		log: log,
	}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func buildSource(fileName string) string {
	return "file:" + fileName + "?cache=shared"
}

func (s *Storage) ListPlayers() ([]domain.Player, error) {
	var players []model.Players
	err := table.Players.
		SELECT(table.Players.AllColumns).
		FROM(table.Players).
		ORDER_BY(table.Players.CreatedAt.ASC()).
		Query(s.db, &players)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	return convertPlayersToDomain(players)
}

func (s *Storage) Get(id uuid.UUID) (domain.Player, error) {
	var player model.Players
	err := table.Players.
		SELECT(table.Players.AllColumns).
		FROM(table.Players).
		WHERE(table.Players.ID.EQ(jetsqlite.String(id.String()))).
		Query(s.db, &player)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return domain.Player{}, ErrNotFound
		}
		return domain.Player{}, err
	}
	return convertPlayerToDomain(player)
}

func (s *Storage) GetByName(name string) (domain.Player, error) {
	var player model.Players
	err := table.Players.
		SELECT(table.Players.AllColumns).
		FROM(table.Players).
		WHERE(table.Players.Name.EQ(jetsqlite.String(normalize.Name(name)))).
		Query(s.db, &player)
	if err != nil {
		if errors.Is(err, qrm.ErrNoRows) {
			return domain.Player{}, ErrNotFound
		}
		return domain.Player{}, err
	}
	return convertPlayerToDomain(player)
}

func (s *Storage) Add(player domain.Player) (domain.Player, error) {
	_, err := table.Players.
		INSERT(table.Players.AllColumns).
		MODEL(convertPlayerFromDomain(player)).
		Exec(s.db)
	if err != nil {
		return domain.Player{}, err
	}
	s.log.WithField("player", player.Name).Info("player added")
	return player, nil
}

func (s *Storage) ListGames() ([]domain.Game, error) {
	var games []model.Games
	err := table.Games.
		SELECT(table.Games.AllColumns).
		FROM(table.Games).
		ORDER_BY(table.Games.PlayedAt.ASC(), table.Games.ID.ASC()).
		Query(s.db, &games)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, err
	}
	players, err := s.ListPlayers()
	if err != nil {
		return nil, err
	}
	playerMap := make(map[uuid.UUID]domain.Player, len(players))
	for _, p := range players {
		playerMap[p.ID] = p
	}
	domainGames, err := convertGamesToDomain(games)
	if err != nil {
		return nil, err
	}
	for i := range domainGames {
		white, ok := playerMap[domainGames[i].White.ID]
		if !ok {
			return nil, fmt.Errorf("game %d: white %s: %w", domainGames[i].ID, domainGames[i].White.ID, ErrNotFound)
		}
		black, ok := playerMap[domainGames[i].Black.ID]
		if !ok {
			return nil, fmt.Errorf("game %d: black %s: %w", domainGames[i].ID, domainGames[i].Black.ID, ErrNotFound)
		}
		domainGames[i].White = white
		domainGames[i].Black = black
	}
	return domainGames, nil
}

func (s *Storage) Create(game domain.Game) (domain.Game, error) {
	var created model.Games
	err := table.Games.
		INSERT(table.Games.MutableColumns).
		MODEL(convertGameFromDomain(game)).
		RETURNING(table.Games.AllColumns).
		Query(s.db, &created)
	if err != nil {
		return domain.Game{}, err
	}
	game.ID = int(created.ID)
	return game, nil
}

func (s *Storage) ImportPlayers(players []domain.Player) error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := table.Players.DELETE().WHERE(jetsqlite.Bool(true)).Exec(tx); err != nil {
			return err
		}
		for _, player := range players {
			_, err := table.Players.
				INSERT(table.Players.AllColumns).
				MODEL(convertPlayerFromDomain(player)).
				Exec(tx)
			if err != nil {
				return fmt.Errorf("import player %q: %w", player.Name, err)
			}
		}
		return nil
	})
}

func (s *Storage) ImportGames(games []domain.Game) error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := table.Games.DELETE().WHERE(jetsqlite.Bool(true)).Exec(tx); err != nil {
			return err
		}
		for _, game := range games {
			_, err := table.Games.
				INSERT(table.Games.MutableColumns).
				MODEL(convertGameFromDomain(game)).
				Exec(tx)
			if err != nil {
				return fmt.Errorf("import game %s - %s: %w", game.White.Name, game.Black.Name, err)
			}
		}
		return nil
	})
}

func (s *Storage) inTx(f func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
