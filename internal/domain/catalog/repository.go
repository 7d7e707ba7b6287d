package catalog

import "context"

type BreedRepository interface {
	Create(ctx context.Context, b Breed) error
	Update(ctx context.Context, b Breed) error
	GetByID(ctx context.Context, id string) (Breed, error)
	// GetByNome compara o nome sem diferenciar maiúsculas.
	GetByNome(ctx context.Context, nome string) (Breed, error)
	// List devolve as raças por nome ascendente.
	List(ctx context.Context, onlyActive bool) ([]Breed, error)
}

type LotRepository interface {
	Create(ctx context.Context, l Lot) error
	Update(ctx context.Context, l Lot) error
	GetByID(ctx context.Context, id string) (Lot, error)
	List(ctx context.Context, onlyActive bool) ([]Lot, error)
}

type PastureRepository interface {
	Create(ctx context.Context, p Pasture) error
	Update(ctx context.Context, p Pasture) error
	GetByID(ctx context.Context, id string) (Pasture, error)
	List(ctx context.Context, onlyActive bool) ([]Pasture, error)
}
