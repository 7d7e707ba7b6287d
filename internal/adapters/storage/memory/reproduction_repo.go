package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"controle-gado/internal/domain/reproduction"
)

type reproEventRepo struct {
	mu   sync.RWMutex
	byID map[string]reproduction.Event
}

func NewReproEventRepo() reproduction.EventRepository {
	return &reproEventRepo{
		byID: make(map[string]reproduction.Event),
	}
}

func (r *reproEventRepo) Create(ctx context.Context, ev reproduction.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev.ID == "" {
		return errors.New("event id required")
	}

	r.byID[ev.ID] = ev
	return nil
}

func (r *reproEventRepo) Update(ctx context.Context, ev reproduction.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[ev.ID]; !ok {
		return reproduction.ErrNotFound
	}

	r.byID[ev.ID] = ev
	return nil
}

func (r *reproEventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return reproduction.ErrNotFound
	}

	delete(r.byID, id)
	return nil
}

func (r *reproEventRepo) GetByID(ctx context.Context, id string) (reproduction.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ev, ok := r.byID[id]
	if !ok {
		return reproduction.Event{}, reproduction.ErrNotFound
	}
	return ev, nil
}

func (r *reproEventRepo) ListByAnimal(ctx context.Context, animalID string) ([]reproduction.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reproduction.Event, 0)
	for _, ev := range r.byID {
		if ev.AnimalID == animalID {
			out = append(out, ev)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DataEvento.After(out[j].DataEvento)
	})
	return out, nil
}

type bullRepo struct {
	mu   sync.RWMutex
	byID map[string]reproduction.Bull
}

func NewBullRepo() reproduction.BullRepository {
	return &bullRepo{
		byID: make(map[string]reproduction.Bull),
	}
}

func (r *bullRepo) Create(ctx context.Context, b reproduction.Bull) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		return errors.New("bull id required")
	}
	for _, other := range r.byID {
		if strings.EqualFold(other.Brinco, b.Brinco) {
			return reproduction.ErrBrincoTaken
		}
	}

	r.byID[b.ID] = b
	return nil
}

func (r *bullRepo) Update(ctx context.Context, b reproduction.Bull) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[b.ID]; !ok {
		return reproduction.ErrBullNotFound
	}

	r.byID[b.ID] = b
	return nil
}

func (r *bullRepo) GetByID(ctx context.Context, id string) (reproduction.Bull, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return reproduction.Bull{}, reproduction.ErrBullNotFound
	}
	return b, nil
}

func (r *bullRepo) List(ctx context.Context, onlyActive bool) ([]reproduction.Bull, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reproduction.Bull, 0, len(r.byID))
	for _, b := range r.byID {
		if onlyActive && !b.Ativo {
			continue
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Brinco < out[j].Brinco
	})
	return out, nil
}
