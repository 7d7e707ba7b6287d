package animals

import "context"

// Filter restringe a listagem do rebanho.
type Filter struct {
	Status  Status
	Sexo    Sex
	LoteID  string
	PastoID string
	Limit   int
	Offset  int
}

type Repository interface {
	Create(ctx context.Context, a Animal) error
	Update(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	GetByBrinco(ctx context.Context, brinco string) (Animal, error)
	// List devolve os animais ordenados por brinco ascendente.
	List(ctx context.Context, f Filter) ([]Animal, error)
	CountActive(ctx context.Context, f Filter) (int, error)
}
