package movements

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"controle-gado/internal/domain/animals"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byID map[string]Movement
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Movement{}}
}

func (r *testRepo) Create(ctx context.Context, m Movement) error {
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) ListByAnimal(ctx context.Context, animalID string) ([]Movement, error) {
	out := make([]Movement, 0)
	for _, m := range r.byID {
		if m.AnimalID == animalID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DataMovimentacao.After(out[j].DataMovimentacao) })
	return out, nil
}

type testHerdRepo struct {
	byID map[string]animals.Animal
}

func newTestHerdRepo(as ...animals.Animal) *testHerdRepo {
	r := &testHerdRepo{byID: map[string]animals.Animal{}}
	for _, a := range as {
		r.byID[a.ID] = a
	}
	return r
}

func (r *testHerdRepo) Create(ctx context.Context, a animals.Animal) error {
	r.byID[a.ID] = a
	return nil
}

func (r *testHerdRepo) Update(ctx context.Context, a animals.Animal) error {
	if _, ok := r.byID[a.ID]; !ok {
		return animals.ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testHerdRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *testHerdRepo) GetByBrinco(ctx context.Context, brinco string) (animals.Animal, error) {
	return animals.Animal{}, animals.ErrNotFound
}

func (r *testHerdRepo) List(ctx context.Context, f animals.Filter) ([]animals.Animal, error) {
	return nil, nil
}

func (r *testHerdRepo) CountActive(ctx context.Context, f animals.Filter) (int, error) {
	return 0, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Record_LotChangeUpdatesAnimal(t *testing.T) {
	lote := "lote-1"
	herd := newTestHerdRepo(animals.Animal{ID: "a1", Status: animals.StatusActive, LoteID: &lote})
	repo := newTestRepo()
	svc := NewService(repo, animals.NewService(herd))

	m, err := svc.Record(context.Background(), RecordInput{
		AnimalID: "a1",
		Tipo:     KindLotChange,
		Destino:  "lote-2",
		Motivo:   "engorda",
	})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}

	// Origem omitida vem da localização atual.
	if m.Origem != "lote-1" {
		t.Fatalf("expected origem lote-1, got %q", m.Origem)
	}
	a := herd.byID["a1"]
	if a.LoteID == nil || *a.LoteID != "lote-2" {
		t.Fatalf("expected animal moved to lote-2, got %v", a.LoteID)
	}
}

func TestService_Record_PastureChangeUpdatesAnimal(t *testing.T) {
	herd := newTestHerdRepo(animals.Animal{ID: "a1", Status: animals.StatusActive})
	svc := NewService(newTestRepo(), animals.NewService(herd))

	m, err := svc.Record(context.Background(), RecordInput{
		AnimalID: "a1",
		Tipo:     KindPastureChange,
		Destino:  "pasto-fundo",
	})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if m.Origem != "" {
		t.Fatalf("expected empty origem without current pasture, got %q", m.Origem)
	}
	a := herd.byID["a1"]
	if a.PastoID == nil || *a.PastoID != "pasto-fundo" {
		t.Fatalf("expected animal in pasto-fundo, got %v", a.PastoID)
	}
}

func TestService_Record_OtherKind_NoSideEffect(t *testing.T) {
	lote := "lote-1"
	herd := newTestHerdRepo(animals.Animal{ID: "a1", Status: animals.StatusActive, LoteID: &lote})
	svc := NewService(newTestRepo(), animals.NewService(herd))

	// "outro" não exige destino nem mexe no cadastro.
	if _, err := svc.Record(context.Background(), RecordInput{
		AnimalID: "a1",
		Tipo:     KindOther,
		Motivo:   "apartação para vacinação",
	}); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	a := herd.byID["a1"]
	if a.LoteID == nil || *a.LoteID != "lote-1" {
		t.Fatalf("expected lote untouched, got %v", a.LoteID)
	}
}

func TestService_Record_RequiresDestinationForChanges(t *testing.T) {
	herd := newTestHerdRepo(animals.Animal{ID: "a1", Status: animals.StatusActive})
	svc := NewService(newTestRepo(), animals.NewService(herd))

	if _, err := svc.Record(context.Background(), RecordInput{AnimalID: "a1", Tipo: KindLotChange}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("troca_lote sem destino: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Record(context.Background(), RecordInput{AnimalID: "a1", Tipo: KindPastureChange, Destino: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("troca_pasto destino em branco: expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Record_UnknownAnimalAndKind(t *testing.T) {
	svc := NewService(newTestRepo(), animals.NewService(newTestHerdRepo()))

	if _, err := svc.Record(context.Background(), RecordInput{AnimalID: "ghost", Tipo: KindOther}); !errors.Is(err, ErrAnimalNotFound) {
		t.Fatalf("expected ErrAnimalNotFound, got %v", err)
	}
	if _, err := svc.Record(context.Background(), RecordInput{AnimalID: "a1", Tipo: Kind("venda")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Record_ExplicitOriginWins(t *testing.T) {
	lote := "lote-1"
	herd := newTestHerdRepo(animals.Animal{ID: "a1", Status: animals.StatusActive, LoteID: &lote})
	svc := NewService(newTestRepo(), animals.NewService(herd))

	data := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	m, err := svc.Record(context.Background(), RecordInput{
		AnimalID:         "a1",
		Tipo:             KindLotChange,
		Origem:           "curral",
		Destino:          "lote-2",
		DataMovimentacao: &data,
	})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if m.Origem != "curral" {
		t.Fatalf("expected explicit origem kept, got %q", m.Origem)
	}
	if !m.DataMovimentacao.Equal(data) {
		t.Fatalf("expected explicit date kept, got %v", m.DataMovimentacao)
	}
}
