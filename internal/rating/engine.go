package rating

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goserg/chesstable/internal/domain"
)

// Policy decides what the engine does with a game referencing a player
// outside the roster.
type Policy struct {
	// AutoCreate adds unknown players with the algorithm's initial state on
	// first sight instead of failing the pass.
	AutoCreate bool
}

// Engine replays a game history period by period. All updates inside one
// period read pre-period states only: a game's outcome never leaks into
// another update of the same period.
type Engine struct {
	alg    Algorithm
	policy Policy
	log    *logrus.Entry
}

func NewEngine(alg Algorithm, policy Policy, log *logrus.Logger) *Engine {
	return &Engine{
		alg:    alg,
		policy: policy,
		log:    log.WithField("from", "rating-engine"),
	}
}

// Initial is the state a new player enters the league with.
func (e *Engine) Initial() domain.Rating {
	return e.alg.Initial()
}

// Run groups games into periods and evolves every player's rating through
// them. It returns the full history or the first error, never both: no
// partial history leaves this function.
func (e *Engine) Run(roster []domain.Player, games []domain.Game) (*History, error) {
	periods, err := Group(games)
	if err != nil {
		return nil, err
	}

	history := newHistory()
	current := make(map[uuid.UUID]domain.Rating)
	for _, p := range roster {
		if _, ok := current[p.ID]; ok {
			return nil, fmt.Errorf("player %q listed twice: %w", p.Name, ErrMalformedInput)
		}
		history.addPlayer(p)
		current[p.ID] = e.alg.Initial()
	}

	for _, period := range periods {
		if err := e.processPeriod(period, history, current); err != nil {
			return nil, fmt.Errorf("period %s: %w", period.Key, err)
		}
	}
	e.log.WithFields(logrus.Fields{
		"algorithm": e.alg.Name(),
		"periods":   len(periods),
		"players":   len(current),
		"games":     len(games),
	}).Info("history computed")
	return history, nil
}

func (e *Engine) processPeriod(period Period, history *History, current map[uuid.UUID]domain.Rating) error {
	active := mapset.NewSet[uuid.UUID]()
	for _, game := range period.Games {
		for _, p := range []domain.Player{game.White, game.Black} {
			if _, ok := current[p.ID]; !ok {
				if !e.policy.AutoCreate {
					return fmt.Errorf("%q: %w", p.Name, ErrUnknownPlayer)
				}
				history.addPlayer(p)
				current[p.ID] = e.alg.Initial()
				e.log.WithField("player", p.Name).Debug("created on first sight")
			}
			active.Add(p.ID)
		}
	}

	// Freeze pre-period states before anything is recomputed.
	pre := make(map[uuid.UUID]domain.Rating, len(current))
	for id, r := range current {
		pre[id] = r
	}
	encounters := make(map[uuid.UUID][]Encounter)
	for _, game := range period.Games {
		encounters[game.White.ID] = append(encounters[game.White.ID], Encounter{
			Opponent: pre[game.Black.ID],
			Score:    game.ScoreWhite,
		})
		encounters[game.Black.ID] = append(encounters[game.Black.ID], Encounter{
			Opponent: pre[game.White.ID],
			Score:    game.ScoreWhite.Inverse(),
		})
	}

	// Every known player gets an update, idle ones with no encounters so
	// deviation-based variants can decay their certainty. New states are
	// staged and committed only after the whole roster is computed.
	snapshots := make([]domain.Snapshot, 0, len(current))
	for _, p := range history.Players() {
		next, err := e.alg.Update(pre[p.ID], encounters[p.ID])
		if err != nil {
			return fmt.Errorf("player %q: %w", p.Name, err)
		}
		snapshots = append(snapshots, domain.Snapshot{
			PlayerID: p.ID,
			Period:   period.Index,
			Rating:   next,
		})
	}
	for _, snap := range snapshots {
		current[snap.PlayerID] = snap.Rating
	}
	history.append(period.Key, snapshots)
	e.log.WithFields(logrus.Fields{
		"period": period.Key,
		"games":  len(period.Games),
		"active": active.Cardinality(),
		"idle":   len(snapshots) - active.Cardinality(),
	}).Debug("period committed")
	return nil
}
