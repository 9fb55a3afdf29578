package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/bardown/lacrosse-tracker/internal/domain/conference"
)

type ConferenceRepository struct {
	mu     sync.RWMutex
	items  map[string]conference.Conference
	orders []string
}

func NewConferenceRepository(conferences []conference.Conference) *ConferenceRepository {
	items := make(map[string]conference.Conference, len(conferences))
	orders := make([]string, 0, len(conferences))

	for _, item := range conferences {
		items[item.ID] = item
		orders = append(orders, item.ID)
	}

	return &ConferenceRepository{
		items:  items,
		orders: orders,
	}
}

func (r *ConferenceRepository) ListAll(_ context.Context) ([]conference.Conference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]conference.Conference, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *ConferenceRepository) GetByID(_ context.Context, conferenceID string) (conference.Conference, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[conferenceID]
	return item, ok, nil
}

func (r *ConferenceRepository) FindByAbbreviation(_ context.Context, abbreviation string) (conference.Conference, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		if strings.EqualFold(r.items[id].Abbreviation, abbreviation) {
			return r.items[id], true, nil
		}
	}
	return conference.Conference{}, false, nil
}

func (r *ConferenceRepository) FindByName(_ context.Context, name string) (conference.Conference, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.orders {
		if strings.EqualFold(r.items[id].Name, name) {
			return r.items[id], true, nil
		}
	}
	return conference.Conference{}, false, nil
}

func (r *ConferenceRepository) First(_ context.Context) (conference.Conference, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.orders) == 0 {
		return conference.Conference{}, false, nil
	}
	return r.items[r.orders[0]], true, nil
}

func (r *ConferenceRepository) Create(_ context.Context, item conference.Conference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.orders = append(r.orders, item.ID)
	}
	r.items[item.ID] = item
	return nil
}
