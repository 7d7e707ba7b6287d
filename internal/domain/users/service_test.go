package users

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"controle-gado/internal/patch"

	"golang.org/x/crypto/bcrypt"
)

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(ctx context.Context, u User) error {
	for _, other := range r.byID {
		if strings.EqualFold(other.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) Update(ctx context.Context, u User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *testRepo) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func TestService_Create_OnlyAdmin(t *testing.T) {
	svc := NewService(newTestRepo())

	in := CreateInput{Nome: "Maria", Email: "maria@fazenda.local", Senha: "s3gredo", NivelAcesso: RoleOperator}

	if _, err := svc.Create(context.Background(), RoleManager, in); !errors.Is(err, ErrForbidden) {
		t.Fatalf("gerente: expected ErrForbidden, got %v", err)
	}

	u, err := svc.Create(context.Background(), RoleAdmin, in)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !u.Ativo {
		t.Fatalf("expected new user active")
	}
	if u.SenhaHash == "s3gredo" {
		t.Fatalf("password must be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.SenhaHash), []byte("s3gredo")); err != nil {
		t.Fatalf("hash does not match password: %v", err)
	}
}

func TestService_Create_NormalizesEmail_AndRejectsDuplicate(t *testing.T) {
	svc := NewService(newTestRepo())

	u, err := svc.Create(context.Background(), RoleAdmin, CreateInput{
		Nome: "Maria", Email: "  MARIA@Fazenda.local ", Senha: "x", NivelAcesso: RoleOperator,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u.Email != "maria@fazenda.local" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}

	_, err = svc.Create(context.Background(), RoleAdmin, CreateInput{
		Nome: "Outra", Email: "maria@fazenda.local", Senha: "y", NivelAcesso: RoleOperator,
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestService_Create_RejectsInvalid(t *testing.T) {
	svc := NewService(newTestRepo())

	cases := []CreateInput{
		{Nome: "", Email: "a@b.c", Senha: "x", NivelAcesso: RoleOperator},
		{Nome: "A", Email: "", Senha: "x", NivelAcesso: RoleOperator},
		{Nome: "A", Email: "a@b.c", Senha: "", NivelAcesso: RoleOperator},
		{Nome: "A", Email: "a@b.c", Senha: "x", NivelAcesso: Role("visitante")},
	}
	for i, in := range cases {
		if _, err := svc.Create(context.Background(), RoleAdmin, in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_Update_SkipsPrivilegedFieldsForOperator(t *testing.T) {
	svc := NewService(newTestRepo())

	u, err := svc.Create(context.Background(), RoleAdmin, CreateInput{
		Nome: "Maria", Email: "maria@fazenda.local", Senha: "x", NivelAcesso: RoleOperator,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Operador edita o próprio nome; a tentativa de auto-promoção é
	// pulada em silêncio, não rejeitada.
	got, changed, err := svc.Update(context.Background(), u.ID, RoleOperator, u.ID, Patch{
		Nome:        patch.Set("Maria Silva"),
		NivelAcesso: patch.Set(RoleAdmin),
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Nome != "Maria Silva" {
		t.Fatalf("expected nome updated, got %q", got.Nome)
	}
	if got.NivelAcesso != RoleOperator {
		t.Fatalf("operator must not self-promote, got %s", got.NivelAcesso)
	}
	if len(changed) != 1 || changed[0] != "nome" {
		t.Fatalf("expected only [nome], got %v", changed)
	}
}

func TestService_Update_PrivilegedOnly_BecomesNoChanges(t *testing.T) {
	svc := NewService(newTestRepo())

	u, _ := svc.Create(context.Background(), RoleAdmin, CreateInput{
		Nome: "Maria", Email: "maria@fazenda.local", Senha: "x", NivelAcesso: RoleOperator,
	})

	// Só campos privilegiados, sem ser admin: vira change-set vazio.
	_, _, err := svc.Update(context.Background(), u.ID, RoleOperator, u.ID, Patch{
		NivelAcesso: patch.Set(RoleManager),
	})
	if !errors.Is(err, ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges, got %v", err)
	}
}

func TestService_Update_OtherUser_RequiresAdmin(t *testing.T) {
	svc := NewService(newTestRepo())

	target, _ := svc.Create(context.Background(), RoleAdmin, CreateInput{
		Nome: "Maria", Email: "maria@fazenda.local", Senha: "x", NivelAcesso: RoleOperator,
	})

	_, _, err := svc.Update(context.Background(), "outro-id", RoleManager, target.ID, Patch{
		Nome: patch.Set("Hackeada"),
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	got, _, err := svc.Update(context.Background(), "admin-id", RoleAdmin, target.ID, Patch{
		NivelAcesso: patch.Set(RoleManager),
	})
	if err != nil {
		t.Fatalf("admin Update error: %v", err)
	}
	if got.NivelAcesso != RoleManager {
		t.Fatalf("expected promotion by admin, got %s", got.NivelAcesso)
	}
}

func TestService_Update_AdminCannotSelfDeactivate(t *testing.T) {
	svc := NewService(newTestRepo())

	admin, _ := svc.Create(context.Background(), RoleAdmin, CreateInput{
		Nome: "Root", Email: "root@fazenda.local", Senha: "x", NivelAcesso: RoleAdmin,
	})

	_, _, err := svc.Update(context.Background(), admin.ID, RoleAdmin, admin.ID, Patch{
		Ativo: patch.Set(false),
	})
	if !errors.Is(err, ErrSelfDeactivation) {
		t.Fatalf("expected ErrSelfDeactivation, got %v", err)
	}
}

func TestService_Deactivate_GateSelfAndIdempotence(t *testing.T) {
	svc := NewService(newTestRepo())

	admin, _ := svc.Create(context.Background(), RoleAdmin, CreateInput{
		Nome: "Root", Email: "root@fazenda.local", Senha: "x", NivelAcesso: RoleAdmin,
	})
	target, _ := svc.Create(context.Background(), RoleAdmin, CreateInput{
		Nome: "Maria", Email: "maria@fazenda.local", Senha: "x", NivelAcesso: RoleOperator,
	})

	if err := svc.Deactivate(context.Background(), admin.ID, RoleManager, target.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("gerente: expected ErrForbidden, got %v", err)
	}
	if err := svc.Deactivate(context.Background(), admin.ID, RoleAdmin, admin.ID); !errors.Is(err, ErrSelfDeactivation) {
		t.Fatalf("self: expected ErrSelfDeactivation, got %v", err)
	}

	if err := svc.Deactivate(context.Background(), admin.ID, RoleAdmin, target.ID); err != nil {
		t.Fatalf("Deactivate error: %v", err)
	}
	got, _ := svc.GetByID(context.Background(), target.ID)
	if got.Ativo {
		t.Fatalf("expected target deactivated")
	}

	// idempotente
	if err := svc.Deactivate(context.Background(), admin.ID, RoleAdmin, target.ID); err != nil {
		t.Fatalf("Deactivate #2 error: %v", err)
	}
}

func TestService_TouchLastAccess(t *testing.T) {
	svc := NewService(newTestRepo())

	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	u, _ := svc.Create(context.Background(), RoleAdmin, CreateInput{
		Nome: "Maria", Email: "maria@fazenda.local", Senha: "x", NivelAcesso: RoleOperator,
	})
	if u.UltimoAcesso != nil {
		t.Fatalf("expected no last access on create")
	}

	if err := svc.TouchLastAccess(context.Background(), u.ID); err != nil {
		t.Fatalf("TouchLastAccess error: %v", err)
	}
	got, _ := svc.GetByID(context.Background(), u.ID)
	if got.UltimoAcesso == nil || !got.UltimoAcesso.Equal(now) {
		t.Fatalf("expected last access %v, got %v", now, got.UltimoAcesso)
	}
}
