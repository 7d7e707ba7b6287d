package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"controle-gado/internal/patch"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrNoChanges        = errors.New("no fields to update")
	ErrSelfDeactivation = errors.New("cannot deactivate own account")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Nome        string
	Email       string
	Senha       string
	NivelAcesso Role
}

// Create cadastra um novo usuário ativo. Apenas admin.
func (s *Service) Create(ctx context.Context, actorRole Role, in CreateInput) (User, error) {
	if !Permitted(actorRole, ActionManageUsers) {
		return User{}, ErrForbidden
	}
	if strings.TrimSpace(in.Nome) == "" || strings.TrimSpace(in.Email) == "" {
		return User{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Senha) == "" {
		return User{}, ErrInvalidInput
	}
	if !ValidRole(in.NivelAcesso) {
		return User{}, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Senha), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:          uuid.NewString(),
		Nome:        strings.TrimSpace(in.Nome),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		SenhaHash:   string(hash),
		NivelAcesso: in.NivelAcesso,
		Ativo:       true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// List devolve todos os usuários. Apenas admin.
func (s *Service) List(ctx context.Context, actorRole Role) ([]User, error) {
	if !Permitted(actorRole, ActionManageUsers) {
		return nil, ErrForbidden
	}
	return s.repo.List(ctx)
}

// Patch é o change-set esparso de um usuário.
// NivelAcesso e Ativo são campos privilegiados: para quem não é admin
// eles são pulados silenciosamente, não rejeitados (um operador pode
// editar o próprio nome sem conseguir se promover no mesmo request).
type Patch struct {
	Nome        patch.Field[string]
	Email       patch.Field[string]
	Senha       patch.Field[string]
	NivelAcesso patch.Field[Role]
	Ativo       patch.Field[bool]
}

// Update aplica um change-set esparso sobre o usuário alvo e devolve o
// usuário atualizado mais a lista de campos efetivamente alterados.
// Change-set vazio (após o filtro de privilégio) devolve ErrNoChanges e
// não toca o registro.
func (s *Service) Update(ctx context.Context, actorID string, actorRole Role, targetID string, p Patch) (User, []string, error) {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return User{}, nil, ErrInvalidInput
	}

	// Admin edita qualquer um; os demais apenas a si mesmos.
	if actorID != targetID && !Permitted(actorRole, ActionEditOtherUser) {
		return User{}, nil, ErrForbidden
	}

	u, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return User{}, nil, err
	}

	changed := make([]string, 0, 4)

	if p.Nome.Present() {
		nome := strings.TrimSpace(p.Nome.Value())
		if nome == "" {
			return User{}, nil, ErrInvalidInput
		}
		if nome != u.Nome {
			u.Nome = nome
			changed = append(changed, "nome")
		}
	}

	if p.Email.Present() {
		email := strings.ToLower(strings.TrimSpace(p.Email.Value()))
		if email == "" {
			return User{}, nil, ErrInvalidInput
		}
		if email != u.Email {
			u.Email = email
			changed = append(changed, "email")
		}
	}

	if p.Senha.Present() {
		if strings.TrimSpace(p.Senha.Value()) == "" {
			return User{}, nil, ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Senha.Value()), bcrypt.DefaultCost)
		if err != nil {
			return User{}, nil, err
		}
		u.SenhaHash = string(hash)
		changed = append(changed, "senha")
	}

	// Campos privilegiados: só admin; para os demais são ignorados.
	if Permitted(actorRole, ActionManageUsers) {
		if p.NivelAcesso.Present() {
			if !ValidRole(p.NivelAcesso.Value()) {
				return User{}, nil, ErrInvalidInput
			}
			if p.NivelAcesso.Value() != u.NivelAcesso {
				u.NivelAcesso = p.NivelAcesso.Value()
				changed = append(changed, "nivel_acesso")
			}
		}
		if p.Ativo.Present() {
			if !p.Ativo.Value() && targetID == actorID {
				return User{}, nil, ErrSelfDeactivation
			}
			if p.Ativo.Value() != u.Ativo {
				u.Ativo = p.Ativo.Value()
				changed = append(changed, "ativo")
			}
		}
	}

	if len(changed) == 0 {
		return User{}, nil, ErrNoChanges
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, nil, err
	}
	return u, changed, nil
}

// Deactivate desativa a conta (soft delete). Apenas admin, nunca a própria.
func (s *Service) Deactivate(ctx context.Context, actorID string, actorRole Role, targetID string) error {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return ErrInvalidInput
	}
	if !Permitted(actorRole, ActionManageUsers) {
		return ErrForbidden
	}
	if targetID == actorID {
		return ErrSelfDeactivation
	}

	u, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !u.Ativo {
		// Idempotente
		return nil
	}

	u.Ativo = false
	u.UpdatedAt = s.now()
	return s.repo.Update(ctx, u)
}

// TouchLastAccess registra o último acesso (chamado no login).
func (s *Service) TouchLastAccess(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := s.now()
	u.UltimoAcesso = &now
	return s.repo.Update(ctx, u)
}
