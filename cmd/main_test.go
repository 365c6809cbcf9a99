package main

import (
	"bytes"
	"strings"
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

func testHistory(t *testing.T, alg rating.Algorithm) *rating.History {
	t.Helper()
	a := domain.Player{ID: uuid.New(), Name: "a", FullName: "Alice"}
	b := domain.Player{ID: uuid.New(), Name: "b", FullName: "Bob"}
	played := time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)
	engine := rating.NewEngine(alg, rating.Policy{}, testLogger())
	history, err := engine.Run(
		[]domain.Player{a, b},
		[]domain.Game{{White: a, Black: b, ScoreWhite: domain.WhiteWins, PlayedAt: played, PeriodKey: domain.DayKey(played)}},
	)
	require.NoError(t, err)
	return history
}

func TestWriteStandings(t *testing.T) {
	t.Run("glicko table carries the RD column", func(t *testing.T) {
		history := testHistory(t, glicko.New(rating.DefaultSettings()))
		var buf bytes.Buffer
		require.NoError(t, writeStandings(&buf, history))
		out := buf.String()
		require.Contains(t, out, "=== 20230305 ===")
		require.Contains(t, out, "Alice")
		require.Contains(t, out, "RD")
		require.Less(t, strings.Index(out, "Alice"), strings.Index(out, "Bob"), "winner listed first")
	})
	t.Run("elo table has no RD column", func(t *testing.T) {
		history := testHistory(t, elo.New(rating.DefaultSettings()))
		var buf bytes.Buffer
		require.NoError(t, writeStandings(&buf, history))
		require.NotContains(t, buf.String(), "RD")
	})
}

func TestResultShares(t *testing.T) {
	games := []domain.Game{
		{ScoreWhite: domain.WhiteWins},
		{ScoreWhite: domain.WhiteWins},
		{ScoreWhite: domain.BlackWins},
		{ScoreWhite: domain.Draw},
	}
	white, black, draws := resultShares(games)
	require.InDelta(t, 50.0, white, 1e-9)
	require.InDelta(t, 25.0, black, 1e-9)
	require.InDelta(t, 25.0, draws, 1e-9)

	white, black, draws = resultShares(nil)
	require.Zero(t, white)
	require.Zero(t, black)
	require.Zero(t, draws)
}
