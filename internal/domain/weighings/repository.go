package weighings

import "context"

type Repository interface {
	Create(ctx context.Context, rec WeightRecord) error
	Update(ctx context.Context, rec WeightRecord) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (WeightRecord, error)
	// ListByAnimal devolve o histórico por data de pesagem descendente.
	ListByAnimal(ctx context.Context, animalID string) ([]WeightRecord, error)
}
