package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"controle-gado/internal/domain/catalog"
)

type breedRepo struct {
	mu   sync.RWMutex
	byID map[string]catalog.Breed
}

func NewBreedRepo() catalog.BreedRepository {
	return &breedRepo{
		byID: make(map[string]catalog.Breed),
	}
}

func (r *breedRepo) Create(ctx context.Context, b catalog.Breed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.ID == "" {
		return errors.New("breed id required")
	}

	r.byID[b.ID] = b
	return nil
}

func (r *breedRepo) Update(ctx context.Context, b catalog.Breed) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[b.ID]; !ok {
		return catalog.ErrBreedNotFound
	}

	r.byID[b.ID] = b
	return nil
}

func (r *breedRepo) GetByID(ctx context.Context, id string) (catalog.Breed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.byID[id]
	if !ok {
		return catalog.Breed{}, catalog.ErrBreedNotFound
	}
	return b, nil
}

func (r *breedRepo) GetByNome(ctx context.Context, nome string) (catalog.Breed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.byID {
		if strings.EqualFold(b.Nome, nome) {
			return b, nil
		}
	}
	return catalog.Breed{}, catalog.ErrBreedNotFound
}

func (r *breedRepo) List(ctx context.Context, onlyActive bool) ([]catalog.Breed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Breed, 0, len(r.byID))
	for _, b := range r.byID {
		if onlyActive && !b.Ativo {
			continue
		}
		out = append(out, b)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Nome < out[j].Nome
	})
	return out, nil
}

type lotRepo struct {
	mu   sync.RWMutex
	byID map[string]catalog.Lot
}

func NewLotRepo() catalog.LotRepository {
	return &lotRepo{
		byID: make(map[string]catalog.Lot),
	}
}

func (r *lotRepo) Create(ctx context.Context, l catalog.Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == "" {
		return errors.New("lot id required")
	}

	r.byID[l.ID] = l
	return nil
}

func (r *lotRepo) Update(ctx context.Context, l catalog.Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[l.ID]; !ok {
		return catalog.ErrLotNotFound
	}

	r.byID[l.ID] = l
	return nil
}

func (r *lotRepo) GetByID(ctx context.Context, id string) (catalog.Lot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byID[id]
	if !ok {
		return catalog.Lot{}, catalog.ErrLotNotFound
	}
	return l, nil
}

func (r *lotRepo) List(ctx context.Context, onlyActive bool) ([]catalog.Lot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Lot, 0, len(r.byID))
	for _, l := range r.byID {
		if onlyActive && !l.Ativo {
			continue
		}
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Nome < out[j].Nome
	})
	return out, nil
}

type pastureRepo struct {
	mu   sync.RWMutex
	byID map[string]catalog.Pasture
}

func NewPastureRepo() catalog.PastureRepository {
	return &pastureRepo{
		byID: make(map[string]catalog.Pasture),
	}
}

func (r *pastureRepo) Create(ctx context.Context, p catalog.Pasture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		return errors.New("pasture id required")
	}

	r.byID[p.ID] = p
	return nil
}

func (r *pastureRepo) Update(ctx context.Context, p catalog.Pasture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return catalog.ErrPastureNotFound
	}

	r.byID[p.ID] = p
	return nil
}

func (r *pastureRepo) GetByID(ctx context.Context, id string) (catalog.Pasture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return catalog.Pasture{}, catalog.ErrPastureNotFound
	}
	return p, nil
}

func (r *pastureRepo) List(ctx context.Context, onlyActive bool) ([]catalog.Pasture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]catalog.Pasture, 0, len(r.byID))
	for _, p := range r.byID {
		if onlyActive && !p.Ativo {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Nome < out[j].Nome
	})
	return out, nil
}
