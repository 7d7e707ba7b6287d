package reproduction

import "context"

type EventRepository interface {
	Create(ctx context.Context, ev Event) error
	Update(ctx context.Context, ev Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Event, error)
	// ListByAnimal devolve os eventos por data descendente.
	ListByAnimal(ctx context.Context, animalID string) ([]Event, error)
}

type BullRepository interface {
	Create(ctx context.Context, b Bull) error
	Update(ctx context.Context, b Bull) error
	GetByID(ctx context.Context, id string) (Bull, error)
	// List devolve os touros por brinco ascendente.
	List(ctx context.Context, onlyActive bool) ([]Bull, error)
}
