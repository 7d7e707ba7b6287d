package reproduction

import (
	"sort"
	"time"
)

// Constantes zootécnicas do ciclo reprodutivo bovino, em dias.
const (
	// GestationDays é a duração aproximada da gestação.
	GestationDays = 283
	// PostpartumDays é a janela pós-parto antes de voltar a "vazia".
	PostpartumDays = 60
	// DiagnosisWaitDays é a espera mínima entre inseminação e
	// diagnóstico de prenhez.
	DiagnosisWaitDays = 30
)

// State é o estado reprodutivo derivado de uma fêmea.
// @Enum vazia, inseminada, a_diagnosticar, prenha, recem_parida
type State string

const (
	StateOpen         State = "vazia"
	StateInseminated  State = "inseminada"
	StateDiagnosisDue State = "a_diagnosticar"
	StatePregnant     State = "prenha"
	StatePostpartum   State = "recem_parida"
)

// Status é o resumo reprodutivo derivado do histórico de eventos.
// Nunca é persistido: recalculado a cada leitura.
type Status struct {
	State State

	// DataPrevista é a previsão de parto (inseminação + gestação).
	// Presente apenas nos estados inseminada/a_diagnosticar/prenha.
	DataPrevista *time.Time

	UltimaInseminacao *time.Time
	UltimoParto       *time.Time
	UltimoCio         *time.Time

	// CandidataInseminacao marca fêmea vazia com cio observado depois
	// do último evento que mudou de estado.
	CandidataInseminacao bool
}

// kindPriority ordena eventos do mesmo dia: o de prioridade maior é
// aplicado por último e portanto prevalece. Parto e aborto dominam
// diagnóstico, que domina inseminação, que domina cio.
func kindPriority(k EventKind) int {
	switch k {
	case KindHeat:
		return 0
	case KindInsemination:
		return 1
	case KindPositiveDiagnosis, KindNegativeDiagnosis:
		return 2
	case KindBirth, KindAbortion:
		return 3
	}
	return -1
}

// DeriveStatus percorre o histórico de eventos em ordem cronológica e
// devolve o estado reprodutivo atual na data de referência.
//
// As transições são um fold puro sobre os eventos; "today" entra apenas
// nas janelas dependentes de tempo (espera de diagnóstico e pós-parto).
func DeriveStatus(events []Event, today time.Time) Status {
	ordered := make([]Event, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := dateOnly(ordered[i].DataEvento), dateOnly(ordered[j].DataEvento)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return kindPriority(ordered[i].Tipo) < kindPriority(ordered[j].Tipo)
	})

	st := Status{State: StateOpen}
	for _, ev := range ordered {
		date := dateOnly(ev.DataEvento)
		switch ev.Tipo {
		case KindInsemination:
			st.State = StateInseminated
			st.UltimaInseminacao = &date
			due := date.AddDate(0, 0, GestationDays)
			st.DataPrevista = &due
			st.CandidataInseminacao = false

		case KindPositiveDiagnosis:
			// Diagnóstico positivo sem inseminação registrada ainda
			// confirma prenhez; só fica sem previsão de parto.
			st.State = StatePregnant
			if st.UltimaInseminacao != nil {
				due := st.UltimaInseminacao.AddDate(0, 0, GestationDays)
				st.DataPrevista = &due
			} else {
				st.DataPrevista = nil
			}
			st.CandidataInseminacao = false

		case KindNegativeDiagnosis:
			st.State = StateOpen
			st.DataPrevista = nil
			st.CandidataInseminacao = false

		case KindBirth:
			// Natimorto não muda a transição; fica só no relatório.
			st.State = StatePostpartum
			st.UltimoParto = &date
			st.DataPrevista = nil
			st.CandidataInseminacao = false

		case KindAbortion:
			st.State = StateOpen
			st.DataPrevista = nil
			st.CandidataInseminacao = false

		case KindHeat:
			st.UltimoCio = &date
			if st.State == StateOpen {
				st.CandidataInseminacao = true
			}
		}
	}

	ref := dateOnly(today)

	if st.State == StatePostpartum && st.UltimoParto != nil {
		if daysBetween(*st.UltimoParto, ref) > PostpartumDays {
			st.State = StateOpen
		}
	}
	if st.State == StateInseminated && st.UltimaInseminacao != nil {
		if daysBetween(*st.UltimaInseminacao, ref) >= DiagnosisWaitDays {
			st.State = StateDiagnosisDue
		}
	}

	return st
}

// Stats conta fêmeas por estado reprodutivo.
type Stats struct {
	Total         int
	Vazias        int
	Inseminadas   int
	ADiagnosticar int
	Prenhas       int
	RecemParidas  int
	Candidatas    int
}

func (s *Stats) add(st Status) {
	s.Total++
	switch st.State {
	case StateOpen:
		s.Vazias++
	case StateInseminated:
		s.Inseminadas++
	case StateDiagnosisDue:
		s.ADiagnosticar++
	case StatePregnant:
		s.Prenhas++
	case StatePostpartum:
		s.RecemParidas++
	}
	if st.CandidataInseminacao {
		s.Candidatas++
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(dateOnly(b).Sub(dateOnly(a)).Hours() / 24)
}
