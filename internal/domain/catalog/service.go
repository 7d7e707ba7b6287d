package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"controle-gado/internal/domain/animals"
	"controle-gado/internal/domain/users"
	"controle-gado/internal/patch"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrForbidden       = errors.New("forbidden")
	ErrBreedNotFound   = errors.New("breed not found")
	ErrLotNotFound     = errors.New("lot not found")
	ErrPastureNotFound = errors.New("pasture not found")
	ErrNomeTaken       = errors.New("nome already registered")
	ErrNoChanges       = errors.New("no fields to update")
)

type Service struct {
	breeds   BreedRepository
	lots     LotRepository
	pastures PastureRepository
	animals  *animals.Service
	now      func() time.Time
}

func NewService(breeds BreedRepository, lots LotRepository, pastures PastureRepository, herd *animals.Service) *Service {
	return &Service{
		breeds:   breeds,
		lots:     lots,
		pastures: pastures,
		animals:  herd,
		now:      time.Now,
	}
}

type CreateBreedInput struct {
	Nome      string
	Descricao string
	Origem    string
}

// CreateBreed cadastra uma raça. Homônima ativa é conflito; homônima
// desativada é reativada com os dados novos em vez de duplicar a linha.
func (s *Service) CreateBreed(ctx context.Context, in CreateBreedInput) (Breed, error) {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return Breed{}, ErrInvalidInput
	}

	existing, err := s.breeds.GetByNome(ctx, nome)
	switch {
	case err == nil:
		if existing.Ativo {
			return Breed{}, ErrNomeTaken
		}
		existing.Nome = nome
		existing.Descricao = strings.TrimSpace(in.Descricao)
		existing.Origem = strings.TrimSpace(in.Origem)
		existing.Ativo = true
		existing.UpdatedAt = s.now()
		if err := s.breeds.Update(ctx, existing); err != nil {
			return Breed{}, err
		}
		return existing, nil
	case errors.Is(err, ErrBreedNotFound):
		// segue para o cadastro novo
	default:
		return Breed{}, err
	}

	now := s.now()
	b := Breed{
		ID:        uuid.NewString(),
		Nome:      nome,
		Descricao: strings.TrimSpace(in.Descricao),
		Origem:    strings.TrimSpace(in.Origem),
		Ativo:     true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.breeds.Create(ctx, b); err != nil {
		return Breed{}, err
	}
	return b, nil
}

func (s *Service) GetBreed(ctx context.Context, id string) (Breed, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Breed{}, ErrInvalidInput
	}
	return s.breeds.GetByID(ctx, id)
}

func (s *Service) ListBreeds(ctx context.Context, onlyActive bool) ([]Breed, error) {
	return s.breeds.List(ctx, onlyActive)
}

type BreedPatch struct {
	Nome      patch.Field[string]
	Descricao patch.Field[string]
	Origem    patch.Field[string]
}

func (s *Service) UpdateBreed(ctx context.Context, id string, p BreedPatch) (Breed, []string, error) {
	b, err := s.GetBreed(ctx, id)
	if err != nil {
		return Breed{}, nil, err
	}

	changed := make([]string, 0, 2)

	if p.Nome.Present() {
		nome := strings.TrimSpace(p.Nome.Value())
		if nome == "" {
			return Breed{}, nil, ErrInvalidInput
		}
		if !strings.EqualFold(nome, b.Nome) {
			if other, err := s.breeds.GetByNome(ctx, nome); err == nil && other.ID != b.ID {
				return Breed{}, nil, ErrNomeTaken
			} else if err != nil && !errors.Is(err, ErrBreedNotFound) {
				return Breed{}, nil, err
			}
		}
		if nome != b.Nome {
			b.Nome = nome
			changed = append(changed, "nome")
		}
	}
	if applyText(p.Descricao, &b.Descricao) {
		changed = append(changed, "descricao")
	}
	if applyText(p.Origem, &b.Origem) {
		changed = append(changed, "origem")
	}

	if len(changed) == 0 {
		return Breed{}, nil, ErrNoChanges
	}

	b.UpdatedAt = s.now()
	if err := s.breeds.Update(ctx, b); err != nil {
		return Breed{}, nil, err
	}
	return b, changed, nil
}

// DeactivateBreed faz o soft delete da raça. Apenas admin e gerente.
func (s *Service) DeactivateBreed(ctx context.Context, actorRole users.Role, id string) error {
	if !users.Permitted(actorRole, users.ActionDeactivateRecord) {
		return ErrForbidden
	}
	b, err := s.GetBreed(ctx, id)
	if err != nil {
		return err
	}
	if !b.Ativo {
		return nil
	}
	b.Ativo = false
	b.UpdatedAt = s.now()
	return s.breeds.Update(ctx, b)
}

type CreateLotInput struct {
	Nome       string
	Descricao  string
	Capacidade *int
}

func (s *Service) CreateLot(ctx context.Context, in CreateLotInput) (Lot, error) {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return Lot{}, ErrInvalidInput
	}
	if in.Capacidade != nil && *in.Capacidade <= 0 {
		return Lot{}, ErrInvalidInput
	}

	now := s.now()
	l := Lot{
		ID:         uuid.NewString(),
		Nome:       nome,
		Descricao:  strings.TrimSpace(in.Descricao),
		Capacidade: in.Capacidade,
		Ativo:      true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.lots.Create(ctx, l); err != nil {
		return Lot{}, err
	}
	return l, nil
}

func (s *Service) GetLot(ctx context.Context, id string) (Lot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Lot{}, ErrInvalidInput
	}
	return s.lots.GetByID(ctx, id)
}

func (s *Service) ListLots(ctx context.Context, onlyActive bool) ([]Lot, error) {
	return s.lots.List(ctx, onlyActive)
}

// CountLotAnimals conta os animais ativos do lote.
func (s *Service) CountLotAnimals(ctx context.Context, lotID string) (int, error) {
	return s.animals.CountActive(ctx, animals.Filter{LoteID: lotID})
}

type LotPatch struct {
	Nome       patch.Field[string]
	Descricao  patch.Field[string]
	Capacidade patch.Field[int]
}

func (s *Service) UpdateLot(ctx context.Context, id string, p LotPatch) (Lot, []string, error) {
	l, err := s.GetLot(ctx, id)
	if err != nil {
		return Lot{}, nil, err
	}

	changed := make([]string, 0, 2)

	if p.Nome.Present() {
		nome := strings.TrimSpace(p.Nome.Value())
		if nome == "" {
			return Lot{}, nil, ErrInvalidInput
		}
		if nome != l.Nome {
			l.Nome = nome
			changed = append(changed, "nome")
		}
	}
	if applyText(p.Descricao, &l.Descricao) {
		changed = append(changed, "descricao")
	}
	if p.Capacidade.Present() {
		if !p.Capacidade.Cleared() && p.Capacidade.Value() <= 0 {
			return Lot{}, nil, ErrInvalidInput
		}
		if p.Capacidade.ApplyPtr(&l.Capacidade) {
			changed = append(changed, "capacidade")
		}
	}

	if len(changed) == 0 {
		return Lot{}, nil, ErrNoChanges
	}

	l.UpdatedAt = s.now()
	if err := s.lots.Update(ctx, l); err != nil {
		return Lot{}, nil, err
	}
	return l, changed, nil
}

// DeactivateLot faz o soft delete do lote. Apenas admin e gerente.
func (s *Service) DeactivateLot(ctx context.Context, actorRole users.Role, id string) error {
	if !users.Permitted(actorRole, users.ActionDeactivateRecord) {
		return ErrForbidden
	}
	l, err := s.GetLot(ctx, id)
	if err != nil {
		return err
	}
	if !l.Ativo {
		return nil
	}
	l.Ativo = false
	l.UpdatedAt = s.now()
	return s.lots.Update(ctx, l)
}

type CreatePastureInput struct {
	Nome         string
	AreaHectares *float64
	TipoCapim    string
	Observacoes  string
}

func (s *Service) CreatePasture(ctx context.Context, in CreatePastureInput) (Pasture, error) {
	nome := strings.TrimSpace(in.Nome)
	if nome == "" {
		return Pasture{}, ErrInvalidInput
	}
	if in.AreaHectares != nil && *in.AreaHectares <= 0 {
		return Pasture{}, ErrInvalidInput
	}

	now := s.now()
	p := Pasture{
		ID:           uuid.NewString(),
		Nome:         nome,
		AreaHectares: in.AreaHectares,
		TipoCapim:    strings.TrimSpace(in.TipoCapim),
		Observacoes:  strings.TrimSpace(in.Observacoes),
		Ativo:        true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.pastures.Create(ctx, p); err != nil {
		return Pasture{}, err
	}
	return p, nil
}

func (s *Service) GetPasture(ctx context.Context, id string) (Pasture, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pasture{}, ErrInvalidInput
	}
	return s.pastures.GetByID(ctx, id)
}

func (s *Service) ListPastures(ctx context.Context, onlyActive bool) ([]Pasture, error) {
	return s.pastures.List(ctx, onlyActive)
}

// CountPastureAnimals conta os animais ativos no pasto.
func (s *Service) CountPastureAnimals(ctx context.Context, pastureID string) (int, error) {
	return s.animals.CountActive(ctx, animals.Filter{PastoID: pastureID})
}

type PasturePatch struct {
	Nome         patch.Field[string]
	AreaHectares patch.Field[float64]
	TipoCapim    patch.Field[string]
	Observacoes  patch.Field[string]
}

func (s *Service) UpdatePasture(ctx context.Context, id string, p PasturePatch) (Pasture, []string, error) {
	pa, err := s.GetPasture(ctx, id)
	if err != nil {
		return Pasture{}, nil, err
	}

	changed := make([]string, 0, 2)

	if p.Nome.Present() {
		nome := strings.TrimSpace(p.Nome.Value())
		if nome == "" {
			return Pasture{}, nil, ErrInvalidInput
		}
		if nome != pa.Nome {
			pa.Nome = nome
			changed = append(changed, "nome")
		}
	}
	if p.AreaHectares.Present() {
		if !p.AreaHectares.Cleared() && p.AreaHectares.Value() <= 0 {
			return Pasture{}, nil, ErrInvalidInput
		}
		if p.AreaHectares.ApplyPtr(&pa.AreaHectares) {
			changed = append(changed, "area_hectares")
		}
	}
	if applyText(p.TipoCapim, &pa.TipoCapim) {
		changed = append(changed, "tipo_capim")
	}
	if applyText(p.Observacoes, &pa.Observacoes) {
		changed = append(changed, "observacoes")
	}

	if len(changed) == 0 {
		return Pasture{}, nil, ErrNoChanges
	}

	pa.UpdatedAt = s.now()
	if err := s.pastures.Update(ctx, pa); err != nil {
		return Pasture{}, nil, err
	}
	return pa, changed, nil
}

// DeactivatePasture faz o soft delete do pasto. Apenas admin e gerente.
func (s *Service) DeactivatePasture(ctx context.Context, actorRole users.Role, id string) error {
	if !users.Permitted(actorRole, users.ActionDeactivateRecord) {
		return ErrForbidden
	}
	pa, err := s.GetPasture(ctx, id)
	if err != nil {
		return err
	}
	if !pa.Ativo {
		return nil
	}
	pa.Ativo = false
	pa.UpdatedAt = s.now()
	return s.pastures.Update(ctx, pa)
}

// applyText aplica um campo textual opcional com trim, devolvendo se
// houve mudança.
func applyText(f patch.Field[string], dst *string) bool {
	if !f.Present() {
		return false
	}
	v := strings.TrimSpace(f.Value())
	if f.Cleared() {
		v = ""
	}
	if v == *dst {
		return false
	}
	*dst = v
	return true
}
