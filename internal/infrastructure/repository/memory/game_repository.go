package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/bardown/lacrosse-tracker/internal/domain/game"
)

type GameRepository struct {
	mu       sync.RWMutex
	items    map[string]game.Game
	orders   []string
	quarters map[string]game.QuarterScore
	loc      *time.Location
}

// NewGameRepository builds a game store anchored to the given location for
// calendar-day matching. A nil location means time.Local.
func NewGameRepository(games []game.Game, loc *time.Location) *GameRepository {
	if loc == nil {
		loc = time.Local
	}

	items := make(map[string]game.Game, len(games))
	orders := make([]string, 0, len(games))
	for _, item := range games {
		items[item.ID] = item
		orders = append(orders, item.ID)
	}

	return &GameRepository{
		items:    items,
		orders:   orders,
		quarters: make(map[string]game.QuarterScore),
		loc:      loc,
	}
}

func (r *GameRepository) FindByExternalID(_ context.Context, externalID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if externalID == "" {
		return game.Game{}, false, nil
	}
	for _, id := range r.orders {
		item := r.items[id]
		if item.ExternalID == externalID || item.StatBroadcastID == externalID {
			return item, true, nil
		}
	}
	return game.Game{}, false, nil
}

func (r *GameRepository) FindByTeamsOnDay(_ context.Context, homeTeamID, awayTeamID string, day time.Time) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	target := day.In(r.loc)
	for _, id := range r.orders {
		item := r.items[id]
		if item.HomeTeamID != homeTeamID || item.AwayTeamID != awayTeamID {
			continue
		}
		start := item.StartTime.In(r.loc)
		if start.Year() == target.Year() && start.YearDay() == target.YearDay() {
			return item, true, nil
		}
	}
	return game.Game{}, false, nil
}

func (r *GameRepository) ListLive(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Game
	for _, id := range r.orders {
		if r.items[id].Status == game.StatusLive {
			out = append(out, r.items[id])
		}
	}
	return out, nil
}

func (r *GameRepository) ListNeedingBoxScores(_ context.Context) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.Game
	for _, id := range r.orders {
		item := r.items[id]
		if item.StatBroadcastID == "" {
			continue
		}
		if item.Status == game.StatusLive || item.Status == game.StatusFinal {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *GameRepository) Upsert(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *GameRepository) UpsertQuarterScore(_ context.Context, item game.QuarterScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := quarterKey(item.GameID, item.Quarter)
	if existing, ok := r.quarters[key]; ok {
		item.ID = existing.ID
	}
	r.quarters[key] = item
	return nil
}

// QuarterScores returns the stored periods for a game in quarter order,
// used by tests.
func (r *GameRepository) QuarterScores(gameID string) []game.QuarterScore {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []game.QuarterScore
	for quarter := 1; ; quarter++ {
		item, ok := r.quarters[quarterKey(gameID, quarter)]
		if !ok {
			break
		}
		out = append(out, item)
	}
	return out
}

func quarterKey(gameID string, quarter int) string {
	return gameID + "#" + strconv.Itoa(quarter)
}
