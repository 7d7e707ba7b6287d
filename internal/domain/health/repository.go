package health

import "context"

type Repository interface {
	Create(ctx context.Context, ev Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Event, error)
	// ListByAnimal devolve as aplicações por data descendente.
	ListByAnimal(ctx context.Context, animalID string) ([]Event, error)
	// ListScheduled devolve as aplicações com próxima data marcada,
	// em qualquer animal, ordenadas pela próxima data ascendente.
	ListScheduled(ctx context.Context) ([]Event, error)
}
