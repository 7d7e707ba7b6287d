package reproduction

import "time"

// EventKind é o tipo de um evento reprodutivo.
// @Enum inseminacao, diagnostico_positivo, diagnostico_negativo, parto, aborto, cio
type EventKind string

const (
	KindInsemination      EventKind = "inseminacao"
	KindPositiveDiagnosis EventKind = "diagnostico_positivo"
	KindNegativeDiagnosis EventKind = "diagnostico_negativo"
	KindBirth             EventKind = "parto"
	KindAbortion          EventKind = "aborto"
	KindHeat              EventKind = "cio"
)

// ValidKind responde se o tipo é um dos seis eventos conhecidos.
// O motor processa exatamente esses tipos; um tipo novo é mudança de
// design, não de dado.
func ValidKind(k EventKind) bool {
	switch k {
	case KindInsemination, KindPositiveDiagnosis, KindNegativeDiagnosis,
		KindBirth, KindAbortion, KindHeat:
		return true
	}
	return false
}

// Event é um evento reprodutivo de uma fêmea.
// Log append-only por animal; correções editam a linha existente, nunca
// geram um evento novo. DataPrevista é derivada, nunca vem do chamador.
type Event struct {
	ID       string
	AnimalID string

	Tipo       EventKind
	DataEvento time.Time

	TouroID   *string
	BezerroID *string
	Natimorto bool

	DataPrevista *time.Time

	Observacoes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bull é um touro reprodutor (plantel próprio ou sêmen).
type Bull struct {
	ID     string
	Brinco string

	Nome     string
	RacaID   *string
	Registro string
	Linhagem string

	Ativo bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
