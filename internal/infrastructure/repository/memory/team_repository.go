package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/bardown/lacrosse-tracker/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	items  map[string]team.Team
	orders []string
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[string]team.Team, len(teams))
	orders := make([]string, 0, len(teams))

	for _, item := range teams {
		items[item.ID] = item
		orders = append(orders, item.ID)
	}

	return &TeamRepository{
		items:  items,
		orders: orders,
	}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[teamID]
	return item, ok, nil
}

func (r *TeamRepository) FindByExternalID(_ context.Context, externalID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if externalID == "" {
		return team.Team{}, false, nil
	}
	for _, id := range r.orders {
		item := r.items[id]
		if item.ExternalID == externalID || item.StatBroadcastID == externalID {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) FindByNames(_ context.Context, names []string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range names {
		if name == "" {
			continue
		}
		for _, id := range r.orders {
			if strings.EqualFold(r.items[id].Name, name) {
				return r.items[id], true, nil
			}
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) FindByAbbreviation(_ context.Context, abbreviation string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if abbreviation == "" {
		return team.Team{}, false, nil
	}
	for _, id := range r.orders {
		if strings.EqualFold(r.items[id].Abbreviation, abbreviation) {
			return r.items[id], true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) Upsert(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = item
	return nil
}
