package rating_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/elo"
	"github.com/goserg/chesstable/internal/glicko"
	"github.com/goserg/chesstable/internal/rating"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func newPlayer(name string) domain.Player {
	return domain.Player{ID: uuid.New(), Name: name, RegisteredAt: time.Now()}
}

func settings(k float64) rating.Settings {
	s := rating.DefaultSettings()
	s.KFactor = k
	return s
}

func game(white, black domain.Player, score domain.Score, key string) domain.Game {
	return domain.Game{White: white, Black: black, ScoreWhite: score, PeriodKey: key}
}

func TestEngineEloSingleGame(t *testing.T) {
	a := newPlayer("A")
	b := newPlayer("B")
	engine := rating.NewEngine(elo.New(settings(32)), rating.Policy{}, testLogger())

	history, err := engine.Run([]domain.Player{a, b}, []domain.Game{
		game(a, b, domain.WhiteWins, "day1"),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"day1"}, history.Periods())
	require.Equal(t, 1516.0, history.Player(a.ID)[0].Rating.Rating)
	require.Equal(t, 1484.0, history.Player(b.ID)[0].Rating.Rating)
}

// Two games on the same day must both be rated against period-start states,
// so a player's second game of the day ignores the first game's outcome.
func TestEngineSimultaneity(t *testing.T) {
	a := newPlayer("A")
	b := newPlayer("B")
	c := newPlayer("C")
	engine := rating.NewEngine(elo.New(settings(32)), rating.Policy{}, testLogger())

	history, err := engine.Run([]domain.Player{a, b, c}, []domain.Game{
		game(a, b, domain.WhiteWins, "day1"),
		game(a, c, domain.WhiteWins, "day1"),
	})
	require.NoError(t, err)
	// Both wins against 1500-rated opponents from a 1500 start: +16 each.
	require.Equal(t, 1532.0, history.Player(a.ID)[0].Rating.Rating)
}

func TestEngineOrderIndependenceWithinPeriod(t *testing.T) {
	algorithms := map[string]func() rating.Algorithm{
		"elo":    func() rating.Algorithm { return elo.New(settings(20)) },
		"glicko": func() rating.Algorithm { return glicko.New(settings(20)) },
	}
	for name, alg := range algorithms {
		alg := alg
		t.Run(name, func(t *testing.T) {
			a := newPlayer("A")
			b := newPlayer("B")
			c := newPlayer("C")
			roster := []domain.Player{a, b, c}
			games := []domain.Game{
				game(a, b, domain.WhiteWins, "day1"),
				game(b, c, domain.Draw, "day1"),
				game(c, a, domain.BlackWins, "day1"),
			}
			shuffled := []domain.Game{games[2], games[0], games[1]}

			h1, err := rating.NewEngine(alg(), rating.Policy{}, testLogger()).Run(roster, games)
			require.NoError(t, err)
			h2, err := rating.NewEngine(alg(), rating.Policy{}, testLogger()).Run(roster, shuffled)
			require.NoError(t, err)

			for _, p := range roster {
				require.Equal(t, h1.Player(p.ID), h2.Player(p.ID), "player %s", p.Name)
			}
		})
	}
}

func TestEngineReplayIsIdempotent(t *testing.T) {
	a := newPlayer("A")
	b := newPlayer("B")
	c := newPlayer("C")
	roster := []domain.Player{a, b, c}
	games := []domain.Game{
		game(a, b, domain.WhiteWins, "d1"),
		game(b, c, domain.BlackWins, "d1"),
		game(a, c, domain.Draw, "d2"),
		game(b, a, domain.WhiteWins, "d3"),
	}
	run := func() *rating.History {
		h, err := rating.NewEngine(glicko.New(settings(20)), rating.Policy{}, testLogger()).Run(roster, games)
		require.NoError(t, err)
		return h
	}
	h1, h2 := run(), run()
	require.Equal(t, h1.Periods(), h2.Periods())
	for _, p := range roster {
		require.Equal(t, h1.Player(p.ID), h2.Player(p.ID))
	}
}

// Idle players still get a snapshot every period; under Glicko their
// deviation keeps growing without play.
func TestEngineIdlePlayerSnapshots(t *testing.T) {
	a := newPlayer("A")
	b := newPlayer("B")
	c := newPlayer("C")
	s := settings(20)
	s.InitialDeviation = 100
	s.C = 50
	engine := rating.NewEngine(glicko.New(s), rating.Policy{}, testLogger())

	var games []domain.Game
	keys := []string{"d1", "d2", "d3", "d4", "d5"}
	for _, key := range keys {
		games = append(games, game(a, b, domain.Draw, key))
	}
	history, err := engine.Run([]domain.Player{a, b, c}, games)
	require.NoError(t, err)

	series := history.Player(c.ID)
	require.Len(t, series, len(keys))
	prev := 0.0
	for i, snap := range series {
		require.Equal(t, 1500.0, snap.Rating.Rating, "idle rating must not move")
		require.Greater(t, snap.Rating.Deviation, prev, "period %d", i)
		prev = snap.Rating.Deviation
	}
	// Growth never passes the configured maximum.
	require.LessOrEqual(t, prev, 350.0)

	// Players who did play shrink instead.
	require.Less(t, history.Player(a.ID)[0].Rating.Deviation, 100.0)
}

func TestEngineUnknownPlayerPolicy(t *testing.T) {
	a := newPlayer("A")
	stranger := newPlayer("X")

	t.Run("rejected by default", func(t *testing.T) {
		engine := rating.NewEngine(elo.New(settings(20)), rating.Policy{}, testLogger())
		_, err := engine.Run([]domain.Player{a}, []domain.Game{
			game(a, stranger, domain.WhiteWins, "d1"),
		})
		require.ErrorIs(t, err, rating.ErrUnknownPlayer)
	})

	t.Run("auto-created when allowed", func(t *testing.T) {
		engine := rating.NewEngine(elo.New(settings(32)), rating.Policy{AutoCreate: true}, testLogger())
		history, err := engine.Run([]domain.Player{a}, []domain.Game{
			game(a, stranger, domain.WhiteWins, "d1"),
		})
		require.NoError(t, err)
		require.Len(t, history.Players(), 2)
		require.Equal(t, 1484.0, history.Player(stranger.ID)[0].Rating.Rating)
	})
}

func TestEngineDuplicateRosterEntry(t *testing.T) {
	a := newPlayer("A")
	engine := rating.NewEngine(elo.New(settings(20)), rating.Policy{}, testLogger())
	_, err := engine.Run([]domain.Player{a, a}, nil)
	require.ErrorIs(t, err, rating.ErrMalformedInput)
}

func TestEngineFailsBeforeExposingHistory(t *testing.T) {
	a := newPlayer("A")
	b := newPlayer("B")
	engine := rating.NewEngine(elo.New(settings(20)), rating.Policy{}, testLogger())
	history, err := engine.Run([]domain.Player{a, b}, []domain.Game{
		game(a, b, domain.WhiteWins, "d1"),
		game(a, b, 0.25, "d2"),
	})
	require.Error(t, err)
	require.Nil(t, history)
}

func TestHistoryProjections(t *testing.T) {
	a := newPlayer("A")
	b := newPlayer("B")
	engine := rating.NewEngine(elo.New(settings(32)), rating.Policy{}, testLogger())
	history, err := engine.Run([]domain.Player{a, b}, []domain.Game{
		game(a, b, domain.WhiteWins, "d1"),
		game(a, b, domain.BlackWins, "d2"),
	})
	require.NoError(t, err)

	day1 := history.At(0)
	require.Len(t, day1, 2)
	latest := history.Latest()
	require.Len(t, latest, 2)
	// A win each: back near the start, exact symmetry preserved.
	var ra, rb float64
	for _, snap := range latest {
		if snap.PlayerID == a.ID {
			ra = snap.Rating.Rating
		} else {
			rb = snap.Rating.Rating
		}
	}
	require.InDelta(t, 3000, ra+rb, 1e-9, "total rating is conserved under equal K")
	require.Less(t, ra, 1516.0)
	require.Greater(t, rb, 1484.0)
}
