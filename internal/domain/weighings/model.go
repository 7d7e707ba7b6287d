package weighings

import "time"

// WeightRecord é uma pesagem de um animal.
// Imutável depois de criada, exceto pela operação explícita de correção;
// a ordenação do histórico é por data da pesagem.
type WeightRecord struct {
	ID       string
	AnimalID string

	Peso        float64
	DataPesagem time.Time

	// Escore de condição corporal, 1 a 5.
	CondicaoCorporal *int

	Observacoes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
