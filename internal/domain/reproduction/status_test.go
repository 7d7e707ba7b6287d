package reproduction

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ev(kind EventKind, data time.Time) Event {
	return Event{Tipo: kind, DataEvento: data}
}

func TestDeriveStatus_NoEvents_Open(t *testing.T) {
	st := DeriveStatus(nil, day(2024, 6, 1))

	if st.State != StateOpen {
		t.Fatalf("expected vazia, got %s", st.State)
	}
	if st.DataPrevista != nil {
		t.Fatalf("expected no predicted date")
	}
	if st.CandidataInseminacao {
		t.Fatalf("expected not candidate")
	}
}

func TestDeriveStatus_Insemination_PredictsBirth(t *testing.T) {
	insem := day(2024, 1, 10)
	st := DeriveStatus([]Event{ev(KindInsemination, insem)}, day(2024, 1, 20))

	if st.State != StateInseminated {
		t.Fatalf("expected inseminada, got %s", st.State)
	}
	want := day(2024, 10, 19) // 10/jan + 283 dias
	if st.DataPrevista == nil || !st.DataPrevista.Equal(want) {
		t.Fatalf("expected predicted %v, got %v", want, st.DataPrevista)
	}
	if st.UltimaInseminacao == nil || !st.UltimaInseminacao.Equal(insem) {
		t.Fatalf("expected last insemination %v, got %v", insem, st.UltimaInseminacao)
	}
}

func TestDeriveStatus_DiagnosisDue_After30Days(t *testing.T) {
	insem := day(2024, 1, 10)
	events := []Event{ev(KindInsemination, insem)}

	// 29 dias: ainda inseminada.
	if st := DeriveStatus(events, day(2024, 2, 8)); st.State != StateInseminated {
		t.Fatalf("day 29: expected inseminada, got %s", st.State)
	}
	// 30 dias: a diagnosticar, previsão mantida.
	st := DeriveStatus(events, day(2024, 2, 9))
	if st.State != StateDiagnosisDue {
		t.Fatalf("day 30: expected a_diagnosticar, got %s", st.State)
	}
	if st.DataPrevista == nil {
		t.Fatalf("predicted date should survive the diagnosis window")
	}
}

func TestDeriveStatus_PositiveDiagnosis_Pregnant(t *testing.T) {
	events := []Event{
		ev(KindInsemination, day(2024, 1, 10)),
		ev(KindPositiveDiagnosis, day(2024, 2, 15)),
	}

	st := DeriveStatus(events, day(2024, 6, 1))
	if st.State != StatePregnant {
		t.Fatalf("expected prenha, got %s", st.State)
	}
	want := day(2024, 10, 19)
	if st.DataPrevista == nil || !st.DataPrevista.Equal(want) {
		t.Fatalf("expected predicted %v, got %v", want, st.DataPrevista)
	}
}

func TestDeriveStatus_PositiveDiagnosis_WithoutInsemination(t *testing.T) {
	// Prenhez confirmada sem inseminação registrada (monta natural não
	// anotada): prenha, sem previsão de parto.
	st := DeriveStatus([]Event{ev(KindPositiveDiagnosis, day(2024, 2, 15))}, day(2024, 3, 1))

	if st.State != StatePregnant {
		t.Fatalf("expected prenha, got %s", st.State)
	}
	if st.DataPrevista != nil {
		t.Fatalf("expected no predicted date, got %v", st.DataPrevista)
	}
}

func TestDeriveStatus_NegativeDiagnosis_ReturnsOpen(t *testing.T) {
	events := []Event{
		ev(KindInsemination, day(2024, 1, 10)),
		ev(KindNegativeDiagnosis, day(2024, 2, 12)),
	}

	st := DeriveStatus(events, day(2024, 3, 1))
	if st.State != StateOpen {
		t.Fatalf("expected vazia, got %s", st.State)
	}
	if st.DataPrevista != nil {
		t.Fatalf("expected predicted date cleared")
	}
}

func TestDeriveStatus_Birth_PostpartumWindow(t *testing.T) {
	parto := day(2024, 3, 1)
	events := []Event{
		ev(KindInsemination, day(2023, 5, 20)),
		ev(KindPositiveDiagnosis, day(2023, 6, 25)),
		ev(KindBirth, parto),
	}

	// Dentro da janela de 60 dias: recém-parida.
	if st := DeriveStatus(events, day(2024, 4, 30)); st.State != StatePostpartum {
		t.Fatalf("day 60: expected recem_parida, got %s", st.State)
	}
	// 61 dias depois: volta a vazia.
	st := DeriveStatus(events, day(2024, 5, 1))
	if st.State != StateOpen {
		t.Fatalf("day 61: expected vazia, got %s", st.State)
	}
	if st.UltimoParto == nil || !st.UltimoParto.Equal(parto) {
		t.Fatalf("expected last birth kept, got %v", st.UltimoParto)
	}
}

func TestDeriveStatus_Abortion_ReturnsOpenImmediately(t *testing.T) {
	events := []Event{
		ev(KindInsemination, day(2024, 1, 10)),
		ev(KindPositiveDiagnosis, day(2024, 2, 15)),
		ev(KindAbortion, day(2024, 4, 2)),
	}

	st := DeriveStatus(events, day(2024, 4, 3))
	if st.State != StateOpen {
		t.Fatalf("expected vazia after abortion, got %s", st.State)
	}
	if st.DataPrevista != nil {
		t.Fatalf("expected predicted date cleared")
	}
}

func TestDeriveStatus_Heat_MarksCandidateOnlyWhenOpen(t *testing.T) {
	// Cio com a fêmea vazia: candidata.
	st := DeriveStatus([]Event{ev(KindHeat, day(2024, 2, 1))}, day(2024, 2, 5))
	if st.State != StateOpen || !st.CandidataInseminacao {
		t.Fatalf("expected open candidate, got %s candidata=%v", st.State, st.CandidataInseminacao)
	}

	// Inseminação posterior limpa a marca.
	st = DeriveStatus([]Event{
		ev(KindHeat, day(2024, 2, 1)),
		ev(KindInsemination, day(2024, 2, 3)),
	}, day(2024, 2, 5))
	if st.CandidataInseminacao {
		t.Fatalf("insemination should clear the candidate flag")
	}

	// Cio com a fêmea prenha não marca candidata.
	st = DeriveStatus([]Event{
		ev(KindPositiveDiagnosis, day(2024, 1, 10)),
		ev(KindHeat, day(2024, 2, 1)),
	}, day(2024, 2, 5))
	if st.CandidataInseminacao {
		t.Fatalf("heat on pregnant female should not mark candidate")
	}
	if st.UltimoCio == nil {
		t.Fatalf("heat date should still be recorded")
	}
}

func TestDeriveStatus_SameDay_BirthWinsOverDiagnosis(t *testing.T) {
	d := day(2024, 3, 1)
	// Ordem de inserção invertida de propósito: o desempate é por tipo,
	// não pela ordem de chegada.
	events := []Event{
		ev(KindBirth, d),
		ev(KindPositiveDiagnosis, d),
		ev(KindInsemination, day(2023, 5, 20)),
	}

	st := DeriveStatus(events, day(2024, 3, 2))
	if st.State != StatePostpartum {
		t.Fatalf("expected recem_parida, got %s", st.State)
	}
}

func TestDeriveStatus_SameDay_InseminationWinsOverHeat(t *testing.T) {
	d := day(2024, 2, 3)
	events := []Event{
		ev(KindInsemination, d),
		ev(KindHeat, d),
	}

	st := DeriveStatus(events, day(2024, 2, 4))
	if st.State != StateInseminated {
		t.Fatalf("expected inseminada, got %s", st.State)
	}
	if st.CandidataInseminacao {
		t.Fatalf("same-day heat must not survive the insemination")
	}
}

func TestDeriveStatus_UnorderedInput_IsSorted(t *testing.T) {
	events := []Event{
		ev(KindPositiveDiagnosis, day(2024, 2, 15)),
		ev(KindInsemination, day(2024, 1, 10)),
	}

	st := DeriveStatus(events, day(2024, 3, 1))
	if st.State != StatePregnant {
		t.Fatalf("expected prenha, got %s", st.State)
	}
	if st.DataPrevista == nil {
		t.Fatalf("expected predicted date from the earlier insemination")
	}
}

func TestStats_CountsByState(t *testing.T) {
	var s Stats
	s.add(Status{State: StateOpen, CandidataInseminacao: true})
	s.add(Status{State: StateOpen})
	s.add(Status{State: StateInseminated})
	s.add(Status{State: StateDiagnosisDue})
	s.add(Status{State: StatePregnant})
	s.add(Status{State: StatePostpartum})

	if s.Total != 6 {
		t.Fatalf("expected total 6, got %d", s.Total)
	}
	if s.Vazias != 2 || s.Inseminadas != 1 || s.ADiagnosticar != 1 || s.Prenhas != 1 || s.RecemParidas != 1 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.Candidatas != 1 {
		t.Fatalf("expected 1 candidate, got %d", s.Candidatas)
	}
}
