package movements

import "time"

// Kind é o tipo de movimentação.
// @Enum troca_lote, troca_pasto, outro
type Kind string

const (
	KindLotChange     Kind = "troca_lote"
	KindPastureChange Kind = "troca_pasto"
	KindOther         Kind = "outro"
)

func ValidKind(k Kind) bool {
	switch k {
	case KindLotChange, KindPastureChange, KindOther:
		return true
	}
	return false
}

// Movement registra a passagem de um animal entre lotes ou pastos.
// Para troca_lote/troca_pasto, registrar a movimentação também grava o
// destino no cadastro do animal.
type Movement struct {
	ID       string
	AnimalID string

	Tipo Kind

	Origem  string
	Destino string

	Motivo      string
	Responsavel string

	DataMovimentacao time.Time

	CreatedAt time.Time
}
