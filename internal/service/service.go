package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goserg/chesstable/internal/cache/mem"
	"github.com/goserg/chesstable/internal/config"
	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/elo"
	"github.com/goserg/chesstable/internal/glicko"
	"github.com/goserg/chesstable/internal/glicko2"
	"github.com/goserg/chesstable/internal/normalize"
	"github.com/goserg/chesstable/internal/parse"
	"github.com/goserg/chesstable/internal/rating"
	"github.com/goserg/chesstable/internal/storage"
)

var (
	ErrNotFound   = errors.New("player not found")
	ErrBadGame    = errors.New("invalid game")
	ErrNameTaken  = errors.New("name taken")
	ErrBadAlgo    = errors.New("unknown rating algorithm")
	ErrBadVersion = errors.New("invalid export file version")
)

// PlayerService computes rating tables and histories as pure projections of
// the stored game list. Any write invalidates the projection; the next read
// replays the whole history through the engine.
type PlayerService struct {
	playerStorage storage.PlayerStorage
	gameStorage   storage.GameStorage
	engine        *rating.Engine
	cache         *mem.Cache
	log           *logrus.Entry

	mu      sync.Mutex
	history *rating.History
}

func New(ps storage.PlayerStorage, gs storage.GameStorage, cfg config.Rating, log *logrus.Logger) (*PlayerService, error) {
	alg, err := NewAlgorithm(cfg)
	if err != nil {
		return nil, err
	}
	return &PlayerService{
		playerStorage: ps,
		gameStorage:   gs,
		engine:        rating.NewEngine(alg, rating.Policy{AutoCreate: cfg.AutoCreatePlayers}, log),
		cache:         mem.New(),
		log:           log.WithField("from", "player-service"),
	}, nil
}

// NewAlgorithm builds the configured rating variant. The engine itself never
// knows which one it drives.
func NewAlgorithm(cfg config.Rating) (rating.Algorithm, error) {
	s := cfg.Settings()
	switch cfg.Algorithm {
	case "elo":
		return elo.New(s), nil
	case "glicko":
		return glicko.New(s), nil
	case "glicko2":
		return glicko2.New(s), nil
	}
	return nil, fmt.Errorf("%q: %w", cfg.Algorithm, ErrBadAlgo)
}

// History returns the full rating history, replaying the stored games if
// needed.
func (s *PlayerService) History() (*rating.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historyLocked()
}

func (s *PlayerService) historyLocked() (*rating.History, error) {
	if s.history != nil {
		return s.history, nil
	}
	players, err := s.playerStorage.ListPlayers()
	if err != nil {
		return nil, err
	}
	games, err := s.gameStorage.ListGames()
	if err != nil {
		return nil, err
	}
	history, err := s.engine.Run(players, games)
	if err != nil {
		return nil, err
	}
	s.history = history
	return history, nil
}

func (s *PlayerService) invalidate() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
	s.cache.Invalidate()
}

// GetRatings returns the roster ranked by current rating. The last computed
// table is served from cache until a write invalidates it.
func (s *PlayerService) GetRatings() ([]domain.Player, error) {
	if s.cache.Valid() {
		return s.cache.GetRatings(), nil
	}
	history, err := s.History()
	if err != nil {
		return nil, err
	}
	games, err := s.gameStorage.ListGames()
	if err != nil {
		return nil, err
	}
	gamesPlayed := make(map[uuid.UUID]int)
	for _, game := range games {
		gamesPlayed[game.White.ID]++
		gamesPlayed[game.Black.ID]++
	}

	current := make(map[uuid.UUID]domain.Rating)
	for _, snap := range history.Latest() {
		current[snap.PlayerID] = snap.Rating
	}
	players := history.Players()
	for i := range players {
		// A league with no rated periods yet still shows everyone at the
		// algorithm's starting state.
		r, ok := current[players[i].ID]
		if !ok {
			r = s.engine.Initial()
		}
		players[i].Rating = r
		players[i].GamesPlayed = gamesPlayed[players[i].ID]
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Rating.Rating > players[j].Rating.Rating
	})
	for i := range players {
		players[i].RatingRank = i + 1
	}
	s.cache.Update(players)
	return players, nil
}

// GetRatingsAt returns the roster ranked as it stood after the given period.
func (s *PlayerService) GetRatingsAt(period int) ([]domain.Player, error) {
	history, err := s.History()
	if err != nil {
		return nil, err
	}
	if period < 0 || period >= len(history.Periods()) {
		return nil, fmt.Errorf("period %d: %w", period, ErrNotFound)
	}
	games, err := s.gameStorage.ListGames()
	if err != nil {
		return nil, err
	}
	periodIndex := make(map[string]int)
	for i, key := range history.Periods() {
		periodIndex[key] = i
	}
	gamesPlayed := make(map[uuid.UUID]int)
	for _, game := range games {
		if idx, ok := periodIndex[game.PeriodKey]; !ok || idx > period {
			continue
		}
		gamesPlayed[game.White.ID]++
		gamesPlayed[game.Black.ID]++
	}

	at := make(map[uuid.UUID]domain.Rating)
	for _, snap := range history.At(period) {
		at[snap.PlayerID] = snap.Rating
	}
	players := history.Players()
	for i := range players {
		players[i].Rating = at[players[i].ID]
		players[i].GamesPlayed = gamesPlayed[players[i].ID]
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Rating.Rating > players[j].Rating.Rating
	})
	for i := range players {
		players[i].RatingRank = i + 1
	}
	return players, nil
}

// Stats are one player's results over the stored games.
type Stats struct {
	Wins   int
	Losses int
	Draws  int
}

func (s *PlayerService) PlayerStats(id uuid.UUID) (Stats, error) {
	games, err := s.gameStorage.ListGames()
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	for _, game := range games {
		if game.White.ID != id && game.Black.ID != id {
			continue
		}
		switch game.ScoreOf(id) {
		case domain.WhiteWins:
			stats.Wins++
		case domain.BlackWins:
			stats.Losses++
		default:
			stats.Draws++
		}
	}
	return stats, nil
}

func (s *PlayerService) Get(id uuid.UUID) (domain.Player, error) {
	players, err := s.GetRatings()
	if err != nil {
		return domain.Player{}, err
	}
	for _, player := range players {
		if player.ID == id {
			return player, nil
		}
	}
	return domain.Player{}, fmt.Errorf("%s: %w", id, ErrNotFound)
}

func (s *PlayerService) GetByName(name string) (domain.Player, error) {
	if player, ok := s.cache.GetPlayerByName(name); ok {
		return player, nil
	}
	if _, err := s.GetRatings(); err != nil {
		return domain.Player{}, err
	}
	player, ok := s.cache.GetPlayerByName(name)
	if !ok {
		return domain.Player{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return player, nil
}

// GetPlayerHistory returns one player's per-period snapshots, oldest first.
func (s *PlayerService) GetPlayerHistory(id uuid.UUID) ([]domain.Snapshot, error) {
	history, err := s.History()
	if err != nil {
		return nil, err
	}
	series := history.Player(id)
	if series == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return series, nil
}

// GetGames returns all games newest first, annotated with each side's rating
// change over the game's period.
func (s *PlayerService) GetGames() ([]domain.Game, error) {
	history, err := s.History()
	if err != nil {
		return nil, err
	}
	games, err := s.gameStorage.ListGames()
	if err != nil {
		return nil, err
	}
	periodIndex := make(map[string]int)
	for i, key := range history.Periods() {
		periodIndex[key] = i
	}
	for i := range games {
		idx, ok := periodIndex[games[i].PeriodKey]
		if !ok {
			continue
		}
		games[i].RatingChangeWhite = s.periodChange(history, games[i].White.ID, idx)
		games[i].RatingChangeBlack = s.periodChange(history, games[i].Black.ID, idx)
	}
	reverse(games)
	return games, nil
}

func (s *PlayerService) periodChange(history *rating.History, id uuid.UUID, period int) float64 {
	series := history.Player(id)
	if len(series) == 0 {
		return 0
	}
	i := period - series[0].Period
	if i < 0 || i >= len(series) {
		return 0
	}
	after := series[i].Rating.Rating
	before := s.engine.Initial().Rating
	if i > 0 {
		before = series[i-1].Rating.Rating
	}
	return after - before
}

func reverse(games []domain.Game) {
	for i, j := 0, len(games)-1; i < j; i, j = i+1, j-1 {
		games[i], games[j] = games[j], games[i]
	}
}

// CreateGame validates and stores a new result, invalidating the projection.
func (s *PlayerService) CreateGame(game domain.Game) (domain.Game, error) {
	if game.White.ID == uuid.Nil || game.Black.ID == uuid.Nil {
		return domain.Game{}, fmt.Errorf("both players required: %w", ErrBadGame)
	}
	if game.White.ID == game.Black.ID {
		return domain.Game{}, fmt.Errorf("player cannot play against themselves: %w", ErrBadGame)
	}
	if !game.ScoreWhite.Valid() {
		return domain.Game{}, fmt.Errorf("score %v: %w", game.ScoreWhite, ErrBadGame)
	}
	if game.PlayedAt.IsZero() {
		game.PlayedAt = time.Now()
	}
	game.PeriodKey = domain.DayKey(game.PlayedAt)
	created, err := s.gameStorage.Create(game)
	if err != nil {
		return domain.Game{}, err
	}
	s.invalidate()
	s.log.WithFields(logrus.Fields{
		"white": game.White.Name,
		"black": game.Black.Name,
		"score": game.ScoreWhite,
	}).Info("game recorded")
	return created, nil
}

// AddPlayer registers a new player under a unique short name.
func (s *PlayerService) AddPlayer(name, fullName string) (domain.Player, error) {
	name = normalize.Name(name)
	if name == "" {
		return domain.Player{}, fmt.Errorf("empty name: %w", ErrBadGame)
	}
	if _, err := s.playerStorage.GetByName(name); err == nil {
		return domain.Player{}, fmt.Errorf("%q: %w", name, ErrNameTaken)
	}
	player := domain.Player{
		ID:           uuid.New(),
		Name:         name,
		FullName:     fullName,
		RegisteredAt: time.Now(),
	}
	created, err := s.playerStorage.Add(player)
	if err != nil {
		return domain.Player{}, err
	}
	s.invalidate()
	return created, nil
}

// ImportFiles replaces the stored data with the parsed game and name lists.
// Players referenced by games but absent from the name list are created with
// their short name as display name.
func (s *PlayerService) ImportFiles(names map[string]string, records []parse.GameRecord) error {
	players := make(map[string]domain.Player)
	var order []string
	addPlayer := func(short, full string, at time.Time) {
		key := normalize.Name(short)
		if _, ok := players[key]; ok {
			return
		}
		if full == "" {
			full = short
		}
		players[key] = domain.Player{
			ID:           uuid.New(),
			Name:         key,
			FullName:     full,
			RegisteredAt: at,
		}
		order = append(order, key)
	}

	registered := time.Now()
	if len(records) > 0 {
		registered = records[0].Date
	}
	for short, full := range names {
		addPlayer(short, full, registered)
	}

	games := make([]domain.Game, 0, len(records))
	for _, record := range records {
		addPlayer(record.White, "", record.Date)
		addPlayer(record.Black, "", record.Date)
		games = append(games, domain.Game{
			White:      players[normalize.Name(record.White)],
			Black:      players[normalize.Name(record.Black)],
			ScoreWhite: record.Score,
			PlayedAt:   record.Date,
			PeriodKey:  domain.DayKey(record.Date),
		})
	}

	roster := make([]domain.Player, 0, len(order))
	for _, key := range order {
		roster = append(roster, players[key])
	}
	if err := s.playerStorage.ImportPlayers(roster); err != nil {
		return err
	}
	if err := s.gameStorage.ImportGames(games); err != nil {
		return err
	}
	s.invalidate()
	s.log.WithFields(logrus.Fields{
		"players": len(roster),
		"games":   len(games),
	}).Info("files imported")
	return nil
}

const exportVersion = 1

type export struct {
	Version int
	Players []domain.Player
	Games   []domain.Game
}

func (s *PlayerService) Export() ([]byte, error) {
	players, err := s.playerStorage.ListPlayers()
	if err != nil {
		return nil, err
	}
	games, err := s.gameStorage.ListGames()
	if err != nil {
		return nil, err
	}
	return json.Marshal(export{
		Version: exportVersion,
		Players: players,
		Games:   games,
	})
}

func (s *PlayerService) Import(data []byte) error {
	var importData export
	if err := json.Unmarshal(data, &importData); err != nil {
		return err
	}
	if importData.Version != exportVersion {
		return ErrBadVersion
	}
	if err := s.playerStorage.ImportPlayers(importData.Players); err != nil {
		return err
	}
	if err := s.gameStorage.ImportGames(importData.Games); err != nil {
		return err
	}
	s.invalidate()
	return nil
}
