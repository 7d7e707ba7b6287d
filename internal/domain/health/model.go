package health

import "time"

// EventKind é o tipo de manejo sanitário aplicado.
// @Enum vacina, vermifugo, antibiotico, carrapaticida, outro
type EventKind string

const (
	KindVaccine       EventKind = "vacina"
	KindDewormer      EventKind = "vermifugo"
	KindAntibiotic    EventKind = "antibiotico"
	KindTickTreatment EventKind = "carrapaticida"
	KindOther         EventKind = "outro"
)

func ValidKind(k EventKind) bool {
	switch k {
	case KindVaccine, KindDewormer, KindAntibiotic, KindTickTreatment, KindOther:
		return true
	}
	return false
}

// Event é uma aplicação sanitária registrada para um animal.
// Append-only; ProximaAplicacao alimenta o relatório de próximas
// aplicações.
type Event struct {
	ID       string
	AnimalID string

	Tipo    EventKind
	Produto string
	Dose    string

	Aplicador string

	DataAplicacao    time.Time
	ProximaAplicacao *time.Time

	Custo *float64

	Observacoes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
