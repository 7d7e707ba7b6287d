package weighings

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"controle-gado/internal/domain/users"
	"controle-gado/internal/patch"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byID map[string]WeightRecord
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]WeightRecord{}}
}

func (r *testRepo) Create(ctx context.Context, rec WeightRecord) error {
	r.byID[rec.ID] = rec
	return nil
}

func (r *testRepo) Update(ctx context.Context, rec WeightRecord) error {
	if _, ok := r.byID[rec.ID]; !ok {
		return ErrNotFound
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (WeightRecord, error) {
	rec, ok := r.byID[id]
	if !ok {
		return WeightRecord{}, ErrNotFound
	}
	return rec, nil
}

func (r *testRepo) ListByAnimal(ctx context.Context, animalID string) ([]WeightRecord, error) {
	out := make([]WeightRecord, 0)
	for _, rec := range r.byID {
		if rec.AnimalID == animalID {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DataPesagem.After(out[j].DataPesagem)
	})
	return out, nil
}

// testDirectory registra o último peso sincronizado por animal.
type testDirectory struct {
	known  map[string]bool
	weight map[string]*float64
}

func newTestDirectory(ids ...string) *testDirectory {
	d := &testDirectory{known: map[string]bool{}, weight: map[string]*float64{}}
	for _, id := range ids {
		d.known[id] = true
	}
	return d
}

func (d *testDirectory) Exists(ctx context.Context, animalID string) (bool, error) {
	return d.known[animalID], nil
}

func (d *testDirectory) SetCurrentWeight(ctx context.Context, animalID string, peso float64) error {
	d.weight[animalID] = &peso
	return nil
}

func (d *testDirectory) ClearCurrentWeight(ctx context.Context, animalID string) error {
	d.weight[animalID] = nil
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Record_SyncsCurrentWeight(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory("animal-1")
	svc := NewService(repo, dir)

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rec, err := svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 230})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}
	if rec.DataPesagem != now {
		t.Fatalf("expected default date now, got %v", rec.DataPesagem)
	}
	if w := dir.weight["animal-1"]; w == nil || *w != 230 {
		t.Fatalf("expected current weight 230, got %v", w)
	}
}

func TestService_Record_BackdatedKeepsLatestWeight(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory("animal-1")
	svc := NewService(repo, dir)

	recent := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	old := recent.AddDate(0, 0, -30)

	if _, err := svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 260, DataPesagem: &recent}); err != nil {
		t.Fatalf("Record error: %v", err)
	}
	// Pesagem retroativa: não pode rebaixar o peso atual.
	if _, err := svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 230, DataPesagem: &old}); err != nil {
		t.Fatalf("backdated Record error: %v", err)
	}

	if w := dir.weight["animal-1"]; w == nil || *w != 260 {
		t.Fatalf("expected current weight to stay 260, got %v", w)
	}
}

func TestService_Record_UnknownAnimal(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory())

	_, err := svc.Record(context.Background(), RecordInput{AnimalID: "ghost", Peso: 230})
	if !errors.Is(err, ErrAnimalNotFound) {
		t.Fatalf("expected ErrAnimalNotFound, got %v", err)
	}
}

func TestService_Record_RejectsInvalidInput(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory("animal-1"))

	if _, err := svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 0}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("peso zero: expected ErrInvalidInput, got %v", err)
	}

	cc := 6
	if _, err := svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 230, CondicaoCorporal: &cc}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("cc=6: expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Correct_ChangesAndResyncs(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory("animal-1")
	svc := NewService(repo, dir)

	data := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	rec, err := svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 230, DataPesagem: &data})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}

	got, changed, err := svc.Correct(context.Background(), rec.ID, Patch{
		Peso:        patch.Set(235.0),
		Observacoes: patch.Set("balança recalibrada"),
	})
	if err != nil {
		t.Fatalf("Correct error: %v", err)
	}
	if got.Peso != 235 {
		t.Fatalf("expected peso 235, got %v", got.Peso)
	}
	if len(changed) != 2 {
		t.Fatalf("expected 2 changed fields, got %v", changed)
	}
	if w := dir.weight["animal-1"]; w == nil || *w != 235 {
		t.Fatalf("expected current weight resynced to 235, got %v", w)
	}
}

func TestService_Correct_NoChanges(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, newTestDirectory("animal-1"))

	rec, err := svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 230})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}

	if _, _, err := svc.Correct(context.Background(), rec.ID, Patch{}); !errors.Is(err, ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges, got %v", err)
	}
}

func TestService_Delete_RequiresPrivilegedRole(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, newTestDirectory("animal-1"))

	rec, err := svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 230})
	if err != nil {
		t.Fatalf("Record error: %v", err)
	}

	if err := svc.Delete(context.Background(), users.RoleOperator, rec.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("operador: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), users.RoleManager, rec.ID); err != nil {
		t.Fatalf("gerente: Delete error: %v", err)
	}
}

func TestService_Delete_ResyncsOrClearsWeight(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory("animal-1")
	svc := NewService(repo, dir)

	d1 := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 30)

	first, _ := svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 230, DataPesagem: &d1})
	last, _ := svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 260, DataPesagem: &d2})

	// Remover a última pesagem volta o peso para a anterior.
	if err := svc.Delete(context.Background(), users.RoleAdmin, last.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if w := dir.weight["animal-1"]; w == nil || *w != 230 {
		t.Fatalf("expected current weight back to 230, got %v", w)
	}

	// Sem histórico restante o peso atual é limpo.
	if err := svc.Delete(context.Background(), users.RoleAdmin, first.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if w := dir.weight["animal-1"]; w != nil {
		t.Fatalf("expected current weight cleared, got %v", *w)
	}
}

func TestService_GMD_FromHistory(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, newTestDirectory("animal-1"))

	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 40)

	if _, _, err := svc.GMD(context.Background(), "animal-1"); err != nil {
		t.Fatalf("GMD error: %v", err)
	}
	if _, ok, _ := svc.GMD(context.Background(), "animal-1"); ok {
		t.Fatalf("expected no data without history")
	}

	_, _ = svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 230, DataPesagem: &d1})
	_, _ = svc.Record(context.Background(), RecordInput{AnimalID: "animal-1", Peso: 278, DataPesagem: &d2})

	gmd, ok, err := svc.GMD(context.Background(), "animal-1")
	if err != nil {
		t.Fatalf("GMD error: %v", err)
	}
	if !ok || gmd != 1.200 {
		t.Fatalf("expected 1.200, got %v ok=%v", gmd, ok)
	}
}
