package rating

import (
	"fmt"

	"github.com/goserg/chesstable/internal/domain"
)

// Period is a batch of games treated as simultaneous for rating purposes.
type Period struct {
	Index int
	Key   string
	Games []domain.Game
}

// Group partitions games into periods by their period key. Periods keep the
// first-seen order of the keys, games keep their input order within a period,
// and games sharing a key always land in the same period no matter where
// they sit in the input.
func Group(games []domain.Game) ([]Period, error) {
	var periods []Period
	index := make(map[string]int)
	for _, game := range games {
		if !game.ScoreWhite.Valid() {
			return nil, fmt.Errorf("game %s - %s: score %v: %w", game.White.Name, game.Black.Name, game.ScoreWhite, ErrMalformedInput)
		}
		if game.PeriodKey == "" {
			return nil, fmt.Errorf("game %s - %s: empty period key: %w", game.White.Name, game.Black.Name, ErrMalformedInput)
		}
		i, ok := index[game.PeriodKey]
		if !ok {
			i = len(periods)
			index[game.PeriodKey] = i
			periods = append(periods, Period{Index: i, Key: game.PeriodKey})
		}
		periods[i].Games = append(periods[i].Games, game)
	}
	return periods, nil
}
