package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"controle-gado/internal/domain/animals"
)

type animalRepo struct {
	mu   sync.RWMutex
	byID map[string]animals.Animal
}

func NewAnimalRepo() animals.Repository {
	return &animalRepo{
		byID: make(map[string]animals.Animal),
	}
}

func (r *animalRepo) Create(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("animal id required")
	}
	for _, other := range r.byID {
		if strings.EqualFold(other.Brinco, a.Brinco) {
			return animals.ErrBrincoTaken
		}
	}

	r.byID[a.ID] = a
	return nil
}

func (r *animalRepo) Update(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[a.ID]; !ok {
		return animals.ErrNotFound
	}

	r.byID[a.ID] = a
	return nil
}

func (r *animalRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *animalRepo) GetByBrinco(ctx context.Context, brinco string) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if strings.EqualFold(a.Brinco, brinco) {
			return a, nil
		}
	}
	return animals.Animal{}, animals.ErrNotFound
}

func (r *animalRepo) List(ctx context.Context, f animals.Filter) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byID {
		if !matches(a, f) {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Brinco < out[j].Brinco
	})

	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []animals.Animal{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *animalRepo) CountActive(ctx context.Context, f animals.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f.Status = animals.StatusActive
	total := 0
	for _, a := range r.byID {
		if matches(a, f) {
			total++
		}
	}
	return total, nil
}

func matches(a animals.Animal, f animals.Filter) bool {
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.Sexo != "" && a.Sexo != f.Sexo {
		return false
	}
	if f.LoteID != "" && (a.LoteID == nil || *a.LoteID != f.LoteID) {
		return false
	}
	if f.PastoID != "" && (a.PastoID == nil || *a.PastoID != f.PastoID) {
		return false
	}
	return true
}
