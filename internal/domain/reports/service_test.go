package reports

import (
	"context"
	"testing"
	"time"

	mem "controle-gado/internal/adapters/storage/memory"
	"controle-gado/internal/domain/animals"
	"controle-gado/internal/domain/reproduction"
	"controle-gado/internal/domain/users"
	"controle-gado/internal/domain/weighings"
)

func newTestService(t *testing.T) (*Service, *animals.Service, *weighings.Service, *reproduction.Service) {
	t.Helper()

	herd := animals.NewService(mem.NewAnimalRepo())
	scale := weighings.NewService(mem.NewWeighingRepo(), herd)
	repro := reproduction.NewService(mem.NewReproEventRepo(), mem.NewBullRepo(), herd)
	return NewService(herd, scale, repro), herd, scale, repro
}

func register(t *testing.T, herd *animals.Service, brinco string, sexo animals.Sex) animals.Animal {
	t.Helper()
	a, err := herd.Register(context.Background(), animals.RegisterInput{Brinco: brinco, Sexo: sexo})
	if err != nil {
		t.Fatalf("Register(%s) error: %v", brinco, err)
	}
	return a
}

func weigh(t *testing.T, scale *weighings.Service, animalID string, peso float64, data time.Time) {
	t.Helper()
	if _, err := scale.Record(context.Background(), weighings.RecordInput{
		AnimalID:    animalID,
		Peso:        peso,
		DataPesagem: &data,
	}); err != nil {
		t.Fatalf("Record weighing error: %v", err)
	}
}

func TestService_Summary_CountsAndMeanWeight(t *testing.T) {
	svc, herd, scale, _ := newTestService(t)

	d := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	m1 := register(t, herd, "M-001", animals.SexMale)
	f1 := register(t, herd, "F-001", animals.SexFemale)
	register(t, herd, "F-002", animals.SexFemale) // sem pesagem

	weigh(t, scale, m1.ID, 400, d)
	weigh(t, scale, f1.ID, 300, d)

	// Animal desativado fica fora do resumo.
	out := register(t, herd, "M-002", animals.SexMale)
	if _, err := herd.Deactivate(context.Background(), users.RoleAdmin, out.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if sum.TotalAtivos != 3 || sum.Machos != 1 || sum.Femeas != 2 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	// Média só sobre os pesados: (400+300)/2.
	if sum.PesoMedio == nil || *sum.PesoMedio != 350 {
		t.Fatalf("expected mean 350, got %v", sum.PesoMedio)
	}
}

func TestService_Summary_NoWeights(t *testing.T) {
	svc, herd, _, _ := newTestService(t)

	register(t, herd, "M-001", animals.SexMale)

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if sum.PesoMedio != nil {
		t.Fatalf("expected nil mean without weights, got %v", *sum.PesoMedio)
	}
}

func TestService_Performance_RanksByGMD(t *testing.T) {
	svc, herd, scale, _ := newTestService(t)

	d0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(0, 0, 40)

	slow := register(t, herd, "A-001", animals.SexMale)
	fast := register(t, herd, "A-002", animals.SexMale)
	register(t, herd, "A-003", animals.SexMale) // sem histórico, fica fora

	weigh(t, scale, slow.ID, 230, d0)
	weigh(t, scale, slow.ID, 250, d1) // 0.5/dia
	weigh(t, scale, fast.ID, 230, d0)
	weigh(t, scale, fast.ID, 278, d1) // 1.2/dia

	rank, err := svc.Performance(context.Background())
	if err != nil {
		t.Fatalf("Performance error: %v", err)
	}
	if len(rank) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(rank))
	}
	if rank[0].Brinco != "A-002" || rank[0].GMD != 1.2 {
		t.Fatalf("expected A-002 first with 1.2, got %+v", rank[0])
	}
	if rank[1].Brinco != "A-001" || rank[1].GMD != 0.5 {
		t.Fatalf("expected A-001 second with 0.5, got %+v", rank[1])
	}
	if rank[0].PesoAtual == nil || *rank[0].PesoAtual != 278 {
		t.Fatalf("expected current weight 278, got %v", rank[0].PesoAtual)
	}
}

func TestService_ReproductionStats_OnlyActiveFemales(t *testing.T) {
	svc, herd, _, repro := newTestService(t)

	f1 := register(t, herd, "F-001", animals.SexFemale)
	register(t, herd, "F-002", animals.SexFemale)
	register(t, herd, "M-001", animals.SexMale)

	insem := time.Now().AddDate(0, 0, -10)
	if _, err := repro.RecordEvent(context.Background(), reproduction.RecordEventInput{
		AnimalID:   f1.ID,
		Tipo:       reproduction.KindInsemination,
		DataEvento: &insem,
	}); err != nil {
		t.Fatalf("RecordEvent error: %v", err)
	}

	stats, err := svc.ReproductionStats(context.Background())
	if err != nil {
		t.Fatalf("ReproductionStats error: %v", err)
	}
	if stats.Total != 2 {
		t.Fatalf("expected 2 females, got %d", stats.Total)
	}
	if stats.Inseminadas != 1 || stats.Vazias != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestService_UpcomingBirths_WithinHorizon(t *testing.T) {
	svc, herd, _, repro := newTestService(t)

	f1 := register(t, herd, "F-001", animals.SexFemale)

	// Inseminada de forma que o parto caia em ~20 dias.
	insem := time.Now().AddDate(0, 0, 20-reproduction.GestationDays)
	if _, err := repro.RecordEvent(context.Background(), reproduction.RecordEventInput{
		AnimalID:   f1.ID,
		Tipo:       reproduction.KindInsemination,
		DataEvento: &insem,
	}); err != nil {
		t.Fatalf("RecordEvent error: %v", err)
	}

	births, err := svc.UpcomingBirths(context.Background(), 30)
	if err != nil {
		t.Fatalf("UpcomingBirths error: %v", err)
	}
	if len(births) != 1 || births[0].Brinco != "F-001" {
		t.Fatalf("expected F-001 listed, got %+v", births)
	}

	none, err := svc.UpcomingBirths(context.Background(), 5)
	if err != nil {
		t.Fatalf("UpcomingBirths error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty outside horizon, got %+v", none)
	}
}
