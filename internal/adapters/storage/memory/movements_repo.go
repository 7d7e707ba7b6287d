package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"controle-gado/internal/domain/movements"
)

type movementRepo struct {
	mu   sync.RWMutex
	byID map[string]movements.Movement
}

func NewMovementRepo() movements.Repository {
	return &movementRepo{
		byID: make(map[string]movements.Movement),
	}
}

func (r *movementRepo) Create(ctx context.Context, m movements.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ID == "" {
		return errors.New("movement id required")
	}

	r.byID[m.ID] = m
	return nil
}

func (r *movementRepo) ListByAnimal(ctx context.Context, animalID string) ([]movements.Movement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]movements.Movement, 0)
	for _, m := range r.byID {
		if m.AnimalID == animalID {
			out = append(out, m)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DataMovimentacao.After(out[j].DataMovimentacao)
	})
	return out, nil
}
