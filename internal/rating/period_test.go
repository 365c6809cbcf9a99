package rating

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goserg/chesstable/internal/domain"
)

func game(white, black domain.Player, score domain.Score, key string) domain.Game {
	return domain.Game{White: white, Black: black, ScoreWhite: score, PeriodKey: key}
}

func TestGroup(t *testing.T) {
	a := domain.Player{Name: "A"}
	b := domain.Player{Name: "B"}
	c := domain.Player{Name: "C"}

	t.Run("keys keep first-seen order", func(t *testing.T) {
		periods, err := Group([]domain.Game{
			game(a, b, domain.WhiteWins, "20230312"),
			game(a, c, domain.Draw, "20230305"),
			game(b, c, domain.BlackWins, "20230312"),
		})
		require.NoError(t, err)
		require.Len(t, periods, 2)
		require.Equal(t, "20230312", periods[0].Key)
		require.Equal(t, "20230305", periods[1].Key)
		require.Equal(t, 0, periods[0].Index)
		require.Equal(t, 1, periods[1].Index)
	})

	t.Run("same key joins one period regardless of position", func(t *testing.T) {
		periods, err := Group([]domain.Game{
			game(a, b, domain.WhiteWins, "d1"),
			game(a, c, domain.Draw, "d2"),
			game(b, c, domain.BlackWins, "d1"),
		})
		require.NoError(t, err)
		require.Len(t, periods, 2)
		require.Len(t, periods[0].Games, 2)
		// Input order survives within the period.
		require.Equal(t, "B", periods[0].Games[0].Black.Name)
		require.Equal(t, "B", periods[0].Games[1].White.Name)
	})

	t.Run("empty input", func(t *testing.T) {
		periods, err := Group(nil)
		require.NoError(t, err)
		require.Empty(t, periods)
	})

	t.Run("bad score", func(t *testing.T) {
		_, err := Group([]domain.Game{game(a, b, 0.3, "d1")})
		require.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("missing period key", func(t *testing.T) {
		_, err := Group([]domain.Game{game(a, b, domain.Draw, "")})
		require.ErrorIs(t, err, ErrMalformedInput)
	})
}
