package memory

import (
	"context"
	"sync"

	"github.com/bardown/lacrosse-tracker/internal/domain/stats"
)

type StatsRepository struct {
	mu          sync.RWMutex
	teamStats   map[string]stats.GameStats
	playerStats map[string]stats.PlayerGameStats
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		teamStats:   make(map[string]stats.GameStats),
		playerStats: make(map[string]stats.PlayerGameStats),
	}
}

func (r *StatsRepository) UpsertGameStats(_ context.Context, item stats.GameStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := item.GameID + "#" + item.TeamID
	if existing, ok := r.teamStats[key]; ok {
		item.ID = existing.ID
	}
	r.teamStats[key] = item
	return nil
}

func (r *StatsRepository) UpsertPlayerGameStats(_ context.Context, item stats.PlayerGameStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := item.GameID + "#" + item.PlayerID
	if existing, ok := r.playerStats[key]; ok {
		item.ID = existing.ID
	}
	r.playerStats[key] = item
	return nil
}

func (r *StatsRepository) HasPlayerStats(_ context.Context, gameID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.playerStats {
		if item.GameID == gameID {
			return true, nil
		}
	}
	return false, nil
}

// TeamStats returns the stored aggregate for a (game, team) pair, used by
// tests.
func (r *StatsRepository) TeamStats(gameID, teamID string) (stats.GameStats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teamStats[gameID+"#"+teamID]
	return item, ok
}

// PlayerStatsForGame returns every stored player line for a game, used by
// tests.
func (r *StatsRepository) PlayerStatsForGame(gameID string) []stats.PlayerGameStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []stats.PlayerGameStats
	for _, item := range r.playerStats {
		if item.GameID == gameID {
			out = append(out, item)
		}
	}
	return out
}
