package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"controle-gado/internal/domain/health"
)

type healthRepo struct {
	mu   sync.RWMutex
	byID map[string]health.Event
}

func NewHealthRepo() health.Repository {
	return &healthRepo{
		byID: make(map[string]health.Event),
	}
}

func (r *healthRepo) Create(ctx context.Context, ev health.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.ID == "" {
		return errors.New("health event id required")
	}

	r.byID[ev.ID] = ev
	return nil
}

func (r *healthRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return health.ErrNotFound
	}

	delete(r.byID, id)
	return nil
}

func (r *healthRepo) GetByID(ctx context.Context, id string) (health.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ev, ok := r.byID[id]
	if !ok {
		return health.Event{}, health.ErrNotFound
	}
	return ev, nil
}

func (r *healthRepo) ListByAnimal(ctx context.Context, animalID string) ([]health.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]health.Event, 0)
	for _, ev := range r.byID {
		if ev.AnimalID == animalID {
			out = append(out, ev)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DataAplicacao.After(out[j].DataAplicacao)
	})
	return out, nil
}

func (r *healthRepo) ListScheduled(ctx context.Context) ([]health.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]health.Event, 0)
	for _, ev := range r.byID {
		if ev.ProximaAplicacao != nil {
			out = append(out, ev)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ProximaAplicacao.Before(*out[j].ProximaAplicacao)
	})
	return out, nil
}
