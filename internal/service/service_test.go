package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/goserg/chesstable/internal/config"
	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/parse"
	"github.com/goserg/chesstable/internal/storage"
)

type memStorage struct {
	players []domain.Player
	games   []domain.Game
	nextID  int
}

var _ storage.PlayerStorage = (*memStorage)(nil)
var _ storage.GameStorage = (*memStorage)(nil)

func (m *memStorage) ListPlayers() ([]domain.Player, error) {
	return append([]domain.Player(nil), m.players...), nil
}

func (m *memStorage) Get(id uuid.UUID) (domain.Player, error) {
	for _, p := range m.players {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Player{}, fmt.Errorf("%s: %w", id, ErrNotFound)
}

func (m *memStorage) GetByName(name string) (domain.Player, error) {
	for _, p := range m.players {
		if p.Name == name {
			return p, nil
		}
	}
	return domain.Player{}, fmt.Errorf("%s: %w", name, ErrNotFound)
}

func (m *memStorage) Add(p domain.Player) (domain.Player, error) {
	m.players = append(m.players, p)
	return p, nil
}

func (m *memStorage) ImportPlayers(players []domain.Player) error {
	m.players = append([]domain.Player(nil), players...)
	return nil
}

func (m *memStorage) ListGames() ([]domain.Game, error) {
	return append([]domain.Game(nil), m.games...), nil
}

func (m *memStorage) Create(g domain.Game) (domain.Game, error) {
	m.nextID++
	g.ID = m.nextID
	m.games = append(m.games, g)
	return g, nil
}

func (m *memStorage) ImportGames(games []domain.Game) error {
	m.games = append([]domain.Game(nil), games...)
	m.nextID = len(games)
	return nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newService(t *testing.T, algorithm string) (*PlayerService, *memStorage) {
	t.Helper()
	st := &memStorage{}
	cfg := config.Default().Rating
	cfg.Algorithm = algorithm
	cfg.KFactor = 32
	s, err := New(st, st, cfg, testLogger())
	require.NoError(t, err)
	return s, st
}

func day(d int) time.Time {
	return time.Date(2023, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestGetRatings(t *testing.T) {
	s, _ := newService(t, "elo")
	a, err := s.AddPlayer("A", "Alice")
	require.NoError(t, err)
	b, err := s.AddPlayer("B", "Bob")
	require.NoError(t, err)

	_, err = s.CreateGame(domain.Game{White: a, Black: b, ScoreWhite: domain.WhiteWins, PlayedAt: day(1)})
	require.NoError(t, err)

	players, err := s.GetRatings()
	require.NoError(t, err)
	require.Len(t, players, 2)
	require.Equal(t, "a", players[0].Name)
	require.Equal(t, 1516.0, players[0].Rating.Rating)
	require.Equal(t, 1, players[0].RatingRank)
	require.Equal(t, 1484.0, players[1].Rating.Rating)
	require.Equal(t, 2, players[1].RatingRank)
	require.Equal(t, 1, players[0].GamesPlayed)
}

func TestGetRatingsFreshLeague(t *testing.T) {
	t.Run("elo", func(t *testing.T) {
		s, _ := newService(t, "elo")
		_, err := s.AddPlayer("A", "Alice")
		require.NoError(t, err)

		players, err := s.GetRatings()
		require.NoError(t, err)
		require.Len(t, players, 1)
		require.Equal(t, 1500.0, players[0].Rating.Rating, "no games yet must still show the starting rating")
		require.Equal(t, 1, players[0].RatingRank)
		require.Equal(t, 0, players[0].GamesPlayed)
	})
	t.Run("glicko", func(t *testing.T) {
		s, _ := newService(t, "glicko")
		_, err := s.AddPlayer("A", "Alice")
		require.NoError(t, err)

		players, err := s.GetRatings()
		require.NoError(t, err)
		require.Len(t, players, 1)
		require.Equal(t, 1500.0, players[0].Rating.Rating)
		require.Equal(t, 350.0, players[0].Rating.Deviation, "starting deviation, not zero")
	})
}

func TestGetRatingsServedFromCache(t *testing.T) {
	s, st := newService(t, "elo")
	a, err := s.AddPlayer("A", "")
	require.NoError(t, err)
	b, err := s.AddPlayer("B", "")
	require.NoError(t, err)
	_, err = s.CreateGame(domain.Game{White: a, Black: b, ScoreWhite: domain.WhiteWins, PlayedAt: day(1)})
	require.NoError(t, err)

	first, err := s.GetRatings()
	require.NoError(t, err)

	// A write behind the service's back is invisible until invalidation.
	st.games = append(st.games, domain.Game{ID: 99, White: b, Black: a, ScoreWhite: domain.WhiteWins, PlayedAt: day(2), PeriodKey: domain.DayKey(day(2))})
	cached, err := s.GetRatings()
	require.NoError(t, err)
	require.Equal(t, first, cached)

	_, err = s.AddPlayer("C", "")
	require.NoError(t, err)
	recomputed, err := s.GetRatings()
	require.NoError(t, err)
	require.Len(t, recomputed, 3)
	require.Equal(t, 2, recomputed[0].GamesPlayed)
}

func TestGetByNameUsesCache(t *testing.T) {
	s, _ := newService(t, "elo")
	_, err := s.AddPlayer("SF", "Sofia")
	require.NoError(t, err)

	got, err := s.GetByName("sf")
	require.NoError(t, err)
	require.Equal(t, "Sofia", got.FullName)

	_, err = s.GetByName("nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateGameValidation(t *testing.T) {
	s, _ := newService(t, "elo")
	a, err := s.AddPlayer("A", "")
	require.NoError(t, err)

	_, err = s.CreateGame(domain.Game{White: a, Black: a, ScoreWhite: domain.Draw})
	require.ErrorIs(t, err, ErrBadGame)

	_, err = s.CreateGame(domain.Game{White: a, ScoreWhite: domain.Draw})
	require.ErrorIs(t, err, ErrBadGame)

	b, err := s.AddPlayer("B", "")
	require.NoError(t, err)
	_, err = s.CreateGame(domain.Game{White: a, Black: b, ScoreWhite: 0.7})
	require.ErrorIs(t, err, ErrBadGame)
}

func TestAddPlayerRejectsDuplicates(t *testing.T) {
	s, _ := newService(t, "elo")
	_, err := s.AddPlayer("SF", "Sofia")
	require.NoError(t, err)
	_, err = s.AddPlayer("sf", "Someone Else")
	require.ErrorIs(t, err, ErrNameTaken)
}

func TestGetGamesAnnotatesChanges(t *testing.T) {
	s, _ := newService(t, "elo")
	a, err := s.AddPlayer("A", "")
	require.NoError(t, err)
	b, err := s.AddPlayer("B", "")
	require.NoError(t, err)
	_, err = s.CreateGame(domain.Game{White: a, Black: b, ScoreWhite: domain.WhiteWins, PlayedAt: day(1)})
	require.NoError(t, err)
	_, err = s.CreateGame(domain.Game{White: b, Black: a, ScoreWhite: domain.Draw, PlayedAt: day(2)})
	require.NoError(t, err)

	games, err := s.GetGames()
	require.NoError(t, err)
	require.Len(t, games, 2)
	// Newest first.
	require.Equal(t, domain.Draw, games[0].ScoreWhite)
	// Day one: A +16, B -16.
	require.InDelta(t, 16, games[1].RatingChangeWhite, 1e-9)
	require.InDelta(t, -16, games[1].RatingChangeBlack, 1e-9)
	// Day two: the favorite loses ground on a draw.
	require.Less(t, games[0].RatingChangeBlack, 0.0)
	require.Greater(t, games[0].RatingChangeWhite, 0.0)
}

func TestGetRatingsAt(t *testing.T) {
	s, _ := newService(t, "elo")
	a, err := s.AddPlayer("A", "")
	require.NoError(t, err)
	b, err := s.AddPlayer("B", "")
	require.NoError(t, err)
	_, err = s.CreateGame(domain.Game{White: a, Black: b, ScoreWhite: domain.WhiteWins, PlayedAt: day(1)})
	require.NoError(t, err)
	_, err = s.CreateGame(domain.Game{White: b, Black: a, ScoreWhite: domain.WhiteWins, PlayedAt: day(2)})
	require.NoError(t, err)

	afterDayOne, err := s.GetRatingsAt(0)
	require.NoError(t, err)
	require.Equal(t, 1516.0, afterDayOne[0].Rating.Rating)
	require.Equal(t, 1, afterDayOne[0].GamesPlayed, "later games must not count yet")

	latest, err := s.GetRatings()
	require.NoError(t, err)
	afterDayTwo, err := s.GetRatingsAt(1)
	require.NoError(t, err)
	require.Equal(t, latest[0].Rating, afterDayTwo[0].Rating)

	_, err = s.GetRatingsAt(5)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPlayerStats(t *testing.T) {
	s, _ := newService(t, "elo")
	a, err := s.AddPlayer("A", "")
	require.NoError(t, err)
	b, err := s.AddPlayer("B", "")
	require.NoError(t, err)
	_, err = s.CreateGame(domain.Game{White: a, Black: b, ScoreWhite: domain.WhiteWins, PlayedAt: day(1)})
	require.NoError(t, err)
	_, err = s.CreateGame(domain.Game{White: b, Black: a, ScoreWhite: domain.WhiteWins, PlayedAt: day(2)})
	require.NoError(t, err)
	_, err = s.CreateGame(domain.Game{White: a, Black: b, ScoreWhite: domain.Draw, PlayedAt: day(3)})
	require.NoError(t, err)

	stats, err := s.PlayerStats(a.ID)
	require.NoError(t, err)
	require.Equal(t, Stats{Wins: 1, Losses: 1, Draws: 1}, stats)
}

func TestImportFiles(t *testing.T) {
	s, st := newService(t, "glicko")
	games, err := parse.ReadGames(strings.NewReader("20230305\nSF ME 1 0\n20230312\nME NB 0.5 0.5\n"))
	require.NoError(t, err)
	names, err := parse.ReadNames(strings.NewReader("SF Sofia\nME Merten\n"))
	require.NoError(t, err)

	require.NoError(t, s.ImportFiles(names, games))
	require.Len(t, st.players, 3, "NB must be created from the game list")
	require.Len(t, st.games, 2)

	players, err := s.GetRatings()
	require.NoError(t, err)
	require.Equal(t, "sf", players[0].Name, "the only winner leads the table")

	history, err := s.GetPlayerHistory(players[0].ID)
	require.NoError(t, err)
	require.Len(t, history, 2, "one snapshot per period, idle period included")
	require.Greater(t, history[1].Rating.Deviation, history[0].Rating.Deviation, "idle Glicko period grows deviation")
}

func TestExportImportRoundTrip(t *testing.T) {
	s, _ := newService(t, "elo")
	a, err := s.AddPlayer("A", "")
	require.NoError(t, err)
	b, err := s.AddPlayer("B", "")
	require.NoError(t, err)
	_, err = s.CreateGame(domain.Game{White: a, Black: b, ScoreWhite: domain.BlackWins, PlayedAt: day(3)})
	require.NoError(t, err)

	data, err := s.Export()
	require.NoError(t, err)

	s2, _ := newService(t, "elo")
	require.NoError(t, s2.Import(data))
	want, err := s.GetRatings()
	require.NoError(t, err)
	got, err := s2.GetRatings()
	require.NoError(t, err)
	require.Equal(t, len(want), len(got))
	for i := range want {
		require.Equal(t, want[i].Name, got[i].Name)
		require.Equal(t, want[i].Rating, got[i].Rating)
	}

	require.ErrorIs(t, s2.Import([]byte(`{"Version":99}`)), ErrBadVersion)
}

func TestUnknownAlgorithm(t *testing.T) {
	st := &memStorage{}
	cfg := config.Default().Rating
	cfg.Algorithm = "truescale"
	_, err := New(st, st, cfg, testLogger())
	require.ErrorIs(t, err, ErrBadAlgo)
}
