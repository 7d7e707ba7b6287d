package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"controle-gado/internal/domain/users"
	"controle-gado/internal/patch"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("animal not found")
	ErrBrincoTaken  = errors.New("brinco already registered")
	ErrNoChanges    = errors.New("no fields to update")
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

type RegisterInput struct {
	Brinco         string
	Nome           string
	Sexo           Sex
	DataNascimento *time.Time
	RacaID         *string
	PesoAtual      *float64
	LoteID         *string
	PastoID        *string
	MaeID          *string
	PaiID          *string
	Origem         string
	ValorCompra    *float64
	Observacoes    string
}

// Register cadastra um novo animal ativo.
// Brinco duplicado devolve ErrBrincoTaken; o peso inicial (se informado)
// vira a primeira pesagem, registrada pelo chamador.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Animal, error) {
	brinco := strings.TrimSpace(in.Brinco)
	if brinco == "" {
		return Animal{}, ErrInvalidInput
	}
	if in.Sexo != SexMale && in.Sexo != SexFemale {
		return Animal{}, ErrInvalidInput
	}
	if in.PesoAtual != nil && *in.PesoAtual <= 0 {
		return Animal{}, ErrInvalidInput
	}

	now := s.now()
	a := Animal{
		ID:             uuid.NewString(),
		Brinco:         brinco,
		Nome:           strings.TrimSpace(in.Nome),
		Sexo:           in.Sexo,
		DataNascimento: in.DataNascimento,
		RacaID:         in.RacaID,
		PesoAtual:      in.PesoAtual,
		LoteID:         in.LoteID,
		PastoID:        in.PastoID,
		MaeID:          in.MaeID,
		PaiID:          in.PaiID,
		Origem:         strings.TrimSpace(in.Origem),
		ValorCompra:    in.ValorCompra,
		Observacoes:    strings.TrimSpace(in.Observacoes),
		Status:         StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByBrinco(ctx context.Context, brinco string) (Animal, error) {
	brinco = strings.TrimSpace(brinco)
	if brinco == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByBrinco(ctx, brinco)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Animal, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) CountActive(ctx context.Context, f Filter) (int, error) {
	return s.repo.CountActive(ctx, f)
}

// ListFemales devolve as fêmeas ativas do rebanho (base dos relatórios
// reprodutivos; o filtro de idade fica com o chamador).
func (s *Service) ListFemales(ctx context.Context) ([]Animal, error) {
	return s.repo.List(ctx, Filter{Status: StatusActive, Sexo: SexFemale})
}

// Patch é o change-set esparso de um animal.
// Brinco e Status ficam de fora: o brinco é imutável e o status só muda
// via Deactivate.
type Patch struct {
	Nome           patch.Field[string]
	Sexo           patch.Field[Sex]
	DataNascimento patch.Field[time.Time]
	RacaID         patch.Field[string]
	LoteID         patch.Field[string]
	PastoID        patch.Field[string]
	Origem         patch.Field[string]
	ValorCompra    patch.Field[float64]
	Observacoes    patch.Field[string]
}

// Update aplica um change-set esparso e devolve o animal atualizado mais
// os campos efetivamente alterados. Change-set vazio → ErrNoChanges.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Animal, []string, error) {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Animal{}, nil, err
	}

	changed := make([]string, 0, 4)

	if p.Nome.Present() {
		nome := strings.TrimSpace(p.Nome.Value())
		if p.Nome.Cleared() {
			nome = ""
		}
		if nome != a.Nome {
			a.Nome = nome
			changed = append(changed, "nome")
		}
	}
	if p.Sexo.Present() {
		if p.Sexo.Value() != SexMale && p.Sexo.Value() != SexFemale {
			return Animal{}, nil, ErrInvalidInput
		}
		if p.Sexo.Value() != a.Sexo {
			a.Sexo = p.Sexo.Value()
			changed = append(changed, "sexo")
		}
	}
	if p.DataNascimento.ApplyPtr(&a.DataNascimento) {
		changed = append(changed, "data_nascimento")
	}
	if p.RacaID.ApplyPtr(&a.RacaID) {
		changed = append(changed, "raca_id")
	}
	if p.LoteID.ApplyPtr(&a.LoteID) {
		changed = append(changed, "lote_id")
	}
	if p.PastoID.ApplyPtr(&a.PastoID) {
		changed = append(changed, "pasto_id")
	}
	if p.Origem.Present() {
		origem := strings.TrimSpace(p.Origem.Value())
		if p.Origem.Cleared() {
			origem = ""
		}
		if origem != a.Origem {
			a.Origem = origem
			changed = append(changed, "origem")
		}
	}
	if p.ValorCompra.ApplyPtr(&a.ValorCompra) {
		changed = append(changed, "valor_compra")
	}
	if p.Observacoes.Present() {
		obs := strings.TrimSpace(p.Observacoes.Value())
		if p.Observacoes.Cleared() {
			obs = ""
		}
		if obs != a.Observacoes {
			a.Observacoes = obs
			changed = append(changed, "observacoes")
		}
	}

	if len(changed) == 0 {
		return Animal{}, nil, ErrNoChanges
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, nil, err
	}
	return a, changed, nil
}

// Deactivate faz o soft delete do animal. Exige papel com permissão de
// desativar registros (admin ou gerente).
func (s *Service) Deactivate(ctx context.Context, actorRole users.Role, id string) (Animal, error) {
	if !users.Permitted(actorRole, users.ActionDeactivateRecord) {
		return Animal{}, ErrForbidden
	}

	a, err := s.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if a.Status == StatusInactive {
		// Idempotente
		return a, nil
	}

	a.Status = StatusInactive
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}
