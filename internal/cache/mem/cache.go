package mem

import (
	"sort"
	"sync"

	"github.com/goserg/chesstable/internal/domain"
	"github.com/goserg/chesstable/internal/normalize"
)

// Cache keeps the last computed ranking so name lookups and table renders
// don't replay the whole game history on every request.
type Cache struct {
	mu      sync.RWMutex
	valid   bool
	players map[string]domain.Player
}

func New() *Cache {
	return &Cache{
		players: make(map[string]domain.Player),
	}
}

func (c *Cache) Update(players []domain.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.players = make(map[string]domain.Player, len(players))
	for i := range players {
		c.players[normalize.Name(players[i].Name)] = players[i]
	}
	c.valid = true
}

// Invalidate marks the cache stale, forcing the next read to recompute.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}

func (c *Cache) Valid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.valid
}

func (c *Cache) GetPlayerByName(name string) (domain.Player, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid {
		return domain.Player{}, false
	}
	player, ok := c.players[normalize.Name(name)]
	return player, ok
}

func (c *Cache) GetRatings() []domain.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()

	players := make([]domain.Player, 0, len(c.players))
	for _, player := range c.players {
		players = append(players, player)
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Rating.Rating > players[j].Rating.Rating
	})
	return players
}
