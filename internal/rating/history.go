package rating

import (
	"github.com/google/uuid"

	"github.com/goserg/chesstable/internal/domain"
)

// History is the append-only log of per-period snapshots produced by one
// engine run. Every known player gets a snapshot every period, idle players
// included. Renderers downstream only ever read it.
type History struct {
	keys    []string
	order   []uuid.UUID
	players map[uuid.UUID]domain.Player
	series  map[uuid.UUID][]domain.Snapshot
}

func newHistory() *History {
	return &History{
		players: make(map[uuid.UUID]domain.Player),
		series:  make(map[uuid.UUID][]domain.Snapshot),
	}
}

func (h *History) addPlayer(p domain.Player) {
	if _, ok := h.players[p.ID]; ok {
		return
	}
	h.order = append(h.order, p.ID)
	h.players[p.ID] = p
}

func (h *History) append(key string, snapshots []domain.Snapshot) {
	h.keys = append(h.keys, key)
	for _, snap := range snapshots {
		h.series[snap.PlayerID] = append(h.series[snap.PlayerID], snap)
	}
}

// Periods returns the processed period keys in processing order.
func (h *History) Periods() []string {
	return h.keys
}

// Players returns the full roster in order of first appearance.
func (h *History) Players() []domain.Player {
	players := make([]domain.Player, 0, len(h.order))
	for _, id := range h.order {
		players = append(players, h.players[id])
	}
	return players
}

// Player returns one player's snapshot series, oldest first. The slice is
// shared with the history and must not be mutated.
func (h *History) Player(id uuid.UUID) []domain.Snapshot {
	return h.series[id]
}

// At returns every roster player's snapshot for one period. Players unseen
// before that period report their earliest known state.
func (h *History) At(period int) []domain.Snapshot {
	snapshots := make([]domain.Snapshot, 0, len(h.order))
	for _, id := range h.order {
		series := h.series[id]
		if len(series) == 0 {
			continue
		}
		i := period - series[0].Period
		switch {
		case i < 0:
			i = 0
		case i >= len(series):
			i = len(series) - 1
		}
		snapshots = append(snapshots, series[i])
	}
	return snapshots
}

// Latest returns the final snapshot of every roster player.
func (h *History) Latest() []domain.Snapshot {
	if len(h.keys) == 0 {
		return nil
	}
	return h.At(len(h.keys) - 1)
}
