package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"controle-gado/internal/domain/animals"
	"controle-gado/internal/domain/users"
	"controle-gado/internal/patch"
)

// -------------------------
// Test doubles
// -------------------------

type testBreedRepo struct {
	byID map[string]Breed
}

func newTestBreedRepo() *testBreedRepo {
	return &testBreedRepo{byID: map[string]Breed{}}
}

func (r *testBreedRepo) Create(ctx context.Context, b Breed) error {
	for _, other := range r.byID {
		if strings.EqualFold(other.Nome, b.Nome) {
			return ErrNomeTaken
		}
	}
	r.byID[b.ID] = b
	return nil
}

func (r *testBreedRepo) Update(ctx context.Context, b Breed) error {
	if _, ok := r.byID[b.ID]; !ok {
		return ErrBreedNotFound
	}
	r.byID[b.ID] = b
	return nil
}

func (r *testBreedRepo) GetByID(ctx context.Context, id string) (Breed, error) {
	b, ok := r.byID[id]
	if !ok {
		return Breed{}, ErrBreedNotFound
	}
	return b, nil
}

func (r *testBreedRepo) GetByNome(ctx context.Context, nome string) (Breed, error) {
	for _, b := range r.byID {
		if strings.EqualFold(b.Nome, nome) {
			return b, nil
		}
	}
	return Breed{}, ErrBreedNotFound
}

func (r *testBreedRepo) List(ctx context.Context, onlyActive bool) ([]Breed, error) {
	out := make([]Breed, 0)
	for _, b := range r.byID {
		if onlyActive && !b.Ativo {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

type testLotRepo struct {
	byID map[string]Lot
}

func newTestLotRepo() *testLotRepo {
	return &testLotRepo{byID: map[string]Lot{}}
}

func (r *testLotRepo) Create(ctx context.Context, l Lot) error {
	r.byID[l.ID] = l
	return nil
}

func (r *testLotRepo) Update(ctx context.Context, l Lot) error {
	if _, ok := r.byID[l.ID]; !ok {
		return ErrLotNotFound
	}
	r.byID[l.ID] = l
	return nil
}

func (r *testLotRepo) GetByID(ctx context.Context, id string) (Lot, error) {
	l, ok := r.byID[id]
	if !ok {
		return Lot{}, ErrLotNotFound
	}
	return l, nil
}

func (r *testLotRepo) List(ctx context.Context, onlyActive bool) ([]Lot, error) {
	out := make([]Lot, 0)
	for _, l := range r.byID {
		if onlyActive && !l.Ativo {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type testPastureRepo struct {
	byID map[string]Pasture
}

func newTestPastureRepo() *testPastureRepo {
	return &testPastureRepo{byID: map[string]Pasture{}}
}

func (r *testPastureRepo) Create(ctx context.Context, p Pasture) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testPastureRepo) Update(ctx context.Context, p Pasture) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrPastureNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testPastureRepo) GetByID(ctx context.Context, id string) (Pasture, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pasture{}, ErrPastureNotFound
	}
	return p, nil
}

func (r *testPastureRepo) List(ctx context.Context, onlyActive bool) ([]Pasture, error) {
	out := make([]Pasture, 0)
	for _, p := range r.byID {
		if onlyActive && !p.Ativo {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// testHerdRepo cobre só o CountActive que o catálogo usa.
type testHerdRepo struct {
	animals []animals.Animal
}

func (r *testHerdRepo) Create(ctx context.Context, a animals.Animal) error { return nil }
func (r *testHerdRepo) Update(ctx context.Context, a animals.Animal) error { return nil }

func (r *testHerdRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	return animals.Animal{}, animals.ErrNotFound
}

func (r *testHerdRepo) GetByBrinco(ctx context.Context, brinco string) (animals.Animal, error) {
	return animals.Animal{}, animals.ErrNotFound
}

func (r *testHerdRepo) List(ctx context.Context, f animals.Filter) ([]animals.Animal, error) {
	out := make([]animals.Animal, 0)
	for _, a := range r.animals {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.LoteID != "" && (a.LoteID == nil || *a.LoteID != f.LoteID) {
			continue
		}
		if f.PastoID != "" && (a.PastoID == nil || *a.PastoID != f.PastoID) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *testHerdRepo) CountActive(ctx context.Context, f animals.Filter) (int, error) {
	f.Status = animals.StatusActive
	list, _ := r.List(ctx, f)
	return len(list), nil
}

func newTestService(herd *testHerdRepo) *Service {
	if herd == nil {
		herd = &testHerdRepo{}
	}
	return NewService(newTestBreedRepo(), newTestLotRepo(), newTestPastureRepo(), animals.NewService(herd))
}

// -------------------------
// Tests
// -------------------------

func TestService_CreateBreed_ActiveHomonymConflicts(t *testing.T) {
	svc := newTestService(nil)

	if _, err := svc.CreateBreed(context.Background(), CreateBreedInput{Nome: "Nelore"}); err != nil {
		t.Fatalf("CreateBreed error: %v", err)
	}
	_, err := svc.CreateBreed(context.Background(), CreateBreedInput{Nome: " nelore "})
	if !errors.Is(err, ErrNomeTaken) {
		t.Fatalf("expected ErrNomeTaken for case-insensitive homonym, got %v", err)
	}
}

func TestService_CreateBreed_ReactivatesInactiveHomonym(t *testing.T) {
	svc := newTestService(nil)

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	b, err := svc.CreateBreed(context.Background(), CreateBreedInput{Nome: "Nelore", Descricao: "antiga"})
	if err != nil {
		t.Fatalf("CreateBreed error: %v", err)
	}
	if err := svc.DeactivateBreed(context.Background(), users.RoleAdmin, b.ID); err != nil {
		t.Fatalf("DeactivateBreed error: %v", err)
	}

	// Recadastrar o mesmo nome reaproveita a linha em vez de duplicar.
	got, err := svc.CreateBreed(context.Background(), CreateBreedInput{Nome: "Nelore", Descricao: "nova"})
	if err != nil {
		t.Fatalf("CreateBreed #2 error: %v", err)
	}
	if got.ID != b.ID {
		t.Fatalf("expected same breed ID, got %s vs %s", got.ID, b.ID)
	}
	if !got.Ativo || got.Descricao != "nova" {
		t.Fatalf("expected reactivated with new data, got %+v", got)
	}

	all, _ := svc.ListBreeds(context.Background(), false)
	if len(all) != 1 {
		t.Fatalf("expected single row, got %d", len(all))
	}
}

func TestService_UpdateBreed_RenameCollision(t *testing.T) {
	svc := newTestService(nil)

	_, err := svc.CreateBreed(context.Background(), CreateBreedInput{Nome: "Nelore"})
	if err != nil {
		t.Fatalf("CreateBreed error: %v", err)
	}
	other, err := svc.CreateBreed(context.Background(), CreateBreedInput{Nome: "Angus"})
	if err != nil {
		t.Fatalf("CreateBreed error: %v", err)
	}

	_, _, err = svc.UpdateBreed(context.Background(), other.ID, BreedPatch{Nome: patch.Set("Nelore")})
	if !errors.Is(err, ErrNomeTaken) {
		t.Fatalf("expected ErrNomeTaken on rename collision, got %v", err)
	}
}

func TestService_CreateLot_ValidatesCapacity(t *testing.T) {
	svc := newTestService(nil)

	zero := 0
	if _, err := svc.CreateLot(context.Background(), CreateLotInput{Nome: "Engorda", Capacidade: &zero}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	cap50 := 50
	l, err := svc.CreateLot(context.Background(), CreateLotInput{Nome: "Engorda", Capacidade: &cap50})
	if err != nil {
		t.Fatalf("CreateLot error: %v", err)
	}
	if l.Capacidade == nil || *l.Capacidade != 50 {
		t.Fatalf("expected capacity 50, got %v", l.Capacidade)
	}
}

func TestService_UpdateLot_ClearCapacity(t *testing.T) {
	svc := newTestService(nil)

	cap50 := 50
	l, err := svc.CreateLot(context.Background(), CreateLotInput{Nome: "Engorda", Capacidade: &cap50})
	if err != nil {
		t.Fatalf("CreateLot error: %v", err)
	}

	got, changed, err := svc.UpdateLot(context.Background(), l.ID, LotPatch{Capacidade: patch.Clear[int]()})
	if err != nil {
		t.Fatalf("UpdateLot error: %v", err)
	}
	if got.Capacidade != nil {
		t.Fatalf("expected capacity cleared, got %v", *got.Capacidade)
	}
	if len(changed) != 1 || changed[0] != "capacidade" {
		t.Fatalf("expected [capacidade], got %v", changed)
	}
}

func TestService_CreatePasture_ValidatesArea(t *testing.T) {
	svc := newTestService(nil)

	neg := -1.5
	if _, err := svc.CreatePasture(context.Background(), CreatePastureInput{Nome: "Fundo", AreaHectares: &neg}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	area := 12.5
	p, err := svc.CreatePasture(context.Background(), CreatePastureInput{Nome: "Fundo", AreaHectares: &area, TipoCapim: "braquiária"})
	if err != nil {
		t.Fatalf("CreatePasture error: %v", err)
	}
	if p.AreaHectares == nil || *p.AreaHectares != 12.5 {
		t.Fatalf("expected area 12.5, got %v", p.AreaHectares)
	}
}

func TestService_Deactivate_GateAndIdempotence(t *testing.T) {
	svc := newTestService(nil)

	l, err := svc.CreateLot(context.Background(), CreateLotInput{Nome: "Engorda"})
	if err != nil {
		t.Fatalf("CreateLot error: %v", err)
	}

	if err := svc.DeactivateLot(context.Background(), users.RoleOperator, l.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("operador: expected ErrForbidden, got %v", err)
	}
	if err := svc.DeactivateLot(context.Background(), users.RoleManager, l.ID); err != nil {
		t.Fatalf("DeactivateLot error: %v", err)
	}
	// idempotente
	if err := svc.DeactivateLot(context.Background(), users.RoleManager, l.ID); err != nil {
		t.Fatalf("DeactivateLot #2 error: %v", err)
	}

	active, _ := svc.ListLots(context.Background(), true)
	if len(active) != 0 {
		t.Fatalf("expected no active lots, got %d", len(active))
	}
}

func TestService_CountLotAnimals_OnlyActiveInLot(t *testing.T) {
	lote := "lote-1"
	herd := &testHerdRepo{animals: []animals.Animal{
		{ID: "a1", Status: animals.StatusActive, LoteID: &lote},
		{ID: "a2", Status: animals.StatusActive, LoteID: &lote},
		{ID: "a3", Status: animals.StatusInactive, LoteID: &lote},
		{ID: "a4", Status: animals.StatusActive},
	}}
	svc := newTestService(herd)

	n, err := svc.CountLotAnimals(context.Background(), "lote-1")
	if err != nil {
		t.Fatalf("CountLotAnimals error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 active animals in lot, got %d", n)
	}
}
