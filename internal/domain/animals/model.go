package animals

import "time"

// Sex define o sexo do animal.
// @Enum M, F
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Status define o ciclo de vida do cadastro. Registros nunca são
// apagados fisicamente: a exclusão é soft delete para "inativo".
type Status string

const (
	StatusActive   Status = "ativo"
	StatusInactive Status = "inativo"
)

// Animal representa um animal do rebanho.
// O brinco é a identidade operacional: único e imutável após o cadastro.
// PesoAtual só muda como efeito colateral de uma pesagem.
type Animal struct {
	ID     string
	Brinco string

	Nome string
	Sexo Sex

	DataNascimento *time.Time
	RacaID         *string

	PesoAtual *float64

	LoteID  *string
	PastoID *string

	MaeID *string
	PaiID *string

	Origem      string
	ValorCompra *float64
	Observacoes string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IdadeMeses devolve a idade aproximada em meses na data de referência,
// ou -1 quando a data de nascimento é desconhecida.
func (a Animal) IdadeMeses(ref time.Time) int {
	if a.DataNascimento == nil {
		return -1
	}
	months := (ref.Year()-a.DataNascimento.Year())*12 + int(ref.Month()) - int(a.DataNascimento.Month())
	if ref.Day() < a.DataNascimento.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
