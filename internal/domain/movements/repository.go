package movements

import "context"

type Repository interface {
	Create(ctx context.Context, m Movement) error
	// ListByAnimal devolve as movimentações por data descendente.
	ListByAnimal(ctx context.Context, animalID string) ([]Movement, error)
}
