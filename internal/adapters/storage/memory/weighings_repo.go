package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"controle-gado/internal/domain/weighings"
)

type weighingRepo struct {
	mu   sync.RWMutex
	byID map[string]weighings.WeightRecord
}

func NewWeighingRepo() weighings.Repository {
	return &weighingRepo{
		byID: make(map[string]weighings.WeightRecord),
	}
}

func (r *weighingRepo) Create(ctx context.Context, rec weighings.WeightRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == "" {
		return errors.New("weighing id required")
	}

	r.byID[rec.ID] = rec
	return nil
}

func (r *weighingRepo) Update(ctx context.Context, rec weighings.WeightRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[rec.ID]; !ok {
		return weighings.ErrNotFound
	}

	r.byID[rec.ID] = rec
	return nil
}

func (r *weighingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return weighings.ErrNotFound
	}

	delete(r.byID, id)
	return nil
}

func (r *weighingRepo) GetByID(ctx context.Context, id string) (weighings.WeightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return weighings.WeightRecord{}, weighings.ErrNotFound
	}
	return rec, nil
}

func (r *weighingRepo) ListByAnimal(ctx context.Context, animalID string) ([]weighings.WeightRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]weighings.WeightRecord, 0)
	for _, rec := range r.byID {
		if rec.AnimalID == animalID {
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DataPesagem.After(out[j].DataPesagem)
	})
	return out, nil
}
