package animals

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"controle-gado/internal/domain/users"
	"controle-gado/internal/patch"
)

type testRepo struct {
	byID map[string]Animal
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Animal{}}
}

func (r *testRepo) Create(ctx context.Context, a Animal) error {
	for _, other := range r.byID {
		if strings.EqualFold(other.Brinco, a.Brinco) {
			return ErrBrincoTaken
		}
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) GetByBrinco(ctx context.Context, brinco string) (Animal, error) {
	for _, a := range r.byID {
		if strings.EqualFold(a.Brinco, brinco) {
			return a, nil
		}
	}
	return Animal{}, ErrNotFound
}

func (r *testRepo) List(ctx context.Context, f Filter) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, a := range r.byID {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Sexo != "" && a.Sexo != f.Sexo {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Brinco < out[j].Brinco })
	return out, nil
}

func (r *testRepo) CountActive(ctx context.Context, f Filter) (int, error) {
	f.Status = StatusActive
	list, _ := r.List(ctx, f)
	return len(list), nil
}

func TestService_Register_Defaults(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.Register(context.Background(), RegisterInput{
		Brinco: "  BR-001 ",
		Nome:   "Mimosa",
		Sexo:   SexFemale,
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if a.Brinco != "BR-001" {
		t.Fatalf("expected trimmed brinco, got %q", a.Brinco)
	}
	if a.Status != StatusActive {
		t.Fatalf("expected ativo, got %s", a.Status)
	}
	if a.CreatedAt != now || a.UpdatedAt != now {
		t.Fatalf("expected timestamps = now")
	}
}

func TestService_Register_DuplicateBrinco(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Register(context.Background(), RegisterInput{Brinco: "BR-001", Sexo: SexFemale}); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	_, err := svc.Register(context.Background(), RegisterInput{Brinco: "BR-001", Sexo: SexMale})
	if !errors.Is(err, ErrBrincoTaken) {
		t.Fatalf("expected ErrBrincoTaken, got %v", err)
	}
}

func TestService_Register_RejectsInvalid(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Register(context.Background(), RegisterInput{Brinco: "", Sexo: SexFemale}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty brinco: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Brinco: "BR-001", Sexo: Sex("X")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad sexo: expected ErrInvalidInput, got %v", err)
	}
	peso := -10.0
	if _, err := svc.Register(context.Background(), RegisterInput{Brinco: "BR-001", Sexo: SexFemale, PesoAtual: &peso}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("peso negativo: expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Update_ReportsChangedFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	a, err := svc.Register(context.Background(), RegisterInput{Brinco: "BR-001", Nome: "Mimosa", Sexo: SexFemale})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	got, changed, err := svc.Update(context.Background(), a.ID, Patch{
		Nome:   patch.Set("Mimosa II"),
		LoteID: patch.Set("lote-1"),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Nome != "Mimosa II" {
		t.Fatalf("expected nome updated, got %q", got.Nome)
	}
	if got.LoteID == nil || *got.LoteID != "lote-1" {
		t.Fatalf("expected lote set, got %v", got.LoteID)
	}
	if len(changed) != 2 {
		t.Fatalf("expected 2 changed fields, got %v", changed)
	}
}

func TestService_Update_ClearField(t *testing.T) {
	svc := NewService(newTestRepo())

	lote := "lote-1"
	a, err := svc.Register(context.Background(), RegisterInput{Brinco: "BR-001", Sexo: SexFemale, LoteID: &lote})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	got, changed, err := svc.Update(context.Background(), a.ID, Patch{LoteID: patch.Clear[string]()})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.LoteID != nil {
		t.Fatalf("expected lote cleared, got %v", *got.LoteID)
	}
	if len(changed) != 1 || changed[0] != "lote_id" {
		t.Fatalf("expected [lote_id], got %v", changed)
	}
}

func TestService_Update_EmptyPatch(t *testing.T) {
	svc := NewService(newTestRepo())

	a, err := svc.Register(context.Background(), RegisterInput{Brinco: "BR-001", Sexo: SexFemale})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, _, err := svc.Update(context.Background(), a.ID, Patch{}); !errors.Is(err, ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges, got %v", err)
	}
}

func TestService_Deactivate_GateAndIdempotence(t *testing.T) {
	svc := NewService(newTestRepo())

	a, err := svc.Register(context.Background(), RegisterInput{Brinco: "BR-001", Sexo: SexFemale})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, err := svc.Deactivate(context.Background(), users.RoleOperator, a.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("operador: expected ErrForbidden, got %v", err)
	}

	got, err := svc.Deactivate(context.Background(), users.RoleManager, a.ID)
	if err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	if got.Status != StatusInactive {
		t.Fatalf("expected inativo, got %s", got.Status)
	}

	// idempotente
	again, err := svc.Deactivate(context.Background(), users.RoleManager, a.ID)
	if err != nil {
		t.Fatalf("Deactivate #2 error: %v", err)
	}
	if again.Status != StatusInactive {
		t.Fatalf("expected inativo after repeat, got %s", again.Status)
	}
}

func TestService_ListFemales_FiltersActiveFemales(t *testing.T) {
	svc := NewService(newTestRepo())

	_, _ = svc.Register(context.Background(), RegisterInput{Brinco: "F-001", Sexo: SexFemale})
	_, _ = svc.Register(context.Background(), RegisterInput{Brinco: "M-001", Sexo: SexMale})
	inactive, _ := svc.Register(context.Background(), RegisterInput{Brinco: "F-002", Sexo: SexFemale})
	_, _ = svc.Deactivate(context.Background(), users.RoleAdmin, inactive.ID)

	females, err := svc.ListFemales(context.Background())
	if err != nil {
		t.Fatalf("ListFemales error: %v", err)
	}
	if len(females) != 1 || females[0].Brinco != "F-001" {
		t.Fatalf("expected only F-001, got %+v", females)
	}
}
