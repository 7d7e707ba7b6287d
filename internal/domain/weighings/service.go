package weighings

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
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("weighing not found")
	ErrAnimalNotFound = errors.New("animal not found")
	ErrNoChanges      = errors.New("no fields to update")
)

// AnimalDirectory é a visão mínima do módulo de animais que as pesagens
// precisam. Interface local para evitar ciclo de imports (o handler de
// animais registra a pesagem inicial).
type AnimalDirectory interface {
	Exists(ctx context.Context, animalID string) (bool, error)
	SetCurrentWeight(ctx context.Context, animalID string, peso float64) error
	ClearCurrentWeight(ctx context.Context, animalID string) error
}

type Service struct {
	repo    Repository
	animals AnimalDirectory
	now     func() time.Time
}

func NewService(repo Repository, animals AnimalDirectory) *Service {
	return &Service{
		repo:    repo,
		animals: animals,
		now:     time.Now,
	}
}

type RecordInput struct {
	AnimalID         string
	Peso             float64
	DataPesagem      *time.Time // default: hoje
	CondicaoCorporal *int
	Observacoes      string
}

// Record registra uma nova pesagem e sincroniza o peso atual do animal
// com a pesagem mais recente. A sequência leitura-cálculo-escrita não é
// serializada aqui; escritores concorrentes no mesmo animal dependem do
// last-writer-wins do storage.
func (s *Service) Record(ctx context.Context, in RecordInput) (WeightRecord, error) {
	animalID := strings.TrimSpace(in.AnimalID)
	if animalID == "" {
		return WeightRecord{}, ErrInvalidInput
	}
	if in.Peso <= 0 {
		return WeightRecord{}, ErrInvalidInput
	}
	if in.CondicaoCorporal != nil && (*in.CondicaoCorporal < 1 || *in.CondicaoCorporal > 5) {
		return WeightRecord{}, ErrInvalidInput
	}

	ok, err := s.animals.Exists(ctx, animalID)
	if err != nil {
		return WeightRecord{}, err
	}
	if !ok {
		return WeightRecord{}, ErrAnimalNotFound
	}

	now := s.now()
	data := now
	if in.DataPesagem != nil {
		data = *in.DataPesagem
	}

	rec := WeightRecord{
		ID:               uuid.NewString(),
		AnimalID:         animalID,
		Peso:             in.Peso,
		DataPesagem:      data,
		CondicaoCorporal: in.CondicaoCorporal,
		Observacoes:      strings.TrimSpace(in.Observacoes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return WeightRecord{}, err
	}

	if err := s.syncCurrentWeight(ctx, animalID); err != nil {
		return WeightRecord{}, err
	}
	return rec, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (WeightRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return WeightRecord{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByAnimal(ctx context.Context, animalID string) ([]WeightRecord, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByAnimal(ctx, animalID)
}

// GMD calcula o ganho médio diário do animal a partir do histórico
// completo de pesagens. ok=false quando não há dados suficientes.
func (s *Service) GMD(ctx context.Context, animalID string) (float64, bool, error) {
	history, err := s.ListByAnimal(ctx, animalID)
	if err != nil {
		return 0, false, err
	}
	gmd, ok := ComputeGMD(history)
	return gmd, ok, nil
}

// Patch é o change-set da correção de uma pesagem.
type Patch struct {
	Peso             patch.Field[float64]
	DataPesagem      patch.Field[time.Time]
	CondicaoCorporal patch.Field[int]
	Observacoes      patch.Field[string]
}

// Correct edita uma pesagem existente (correção explícita, não um novo
// evento) e re-sincroniza o peso atual do animal.
func (s *Service) Correct(ctx context.Context, id string, p Patch) (WeightRecord, []string, error) {
	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return WeightRecord{}, nil, err
	}

	changed := make([]string, 0, 3)

	if p.Peso.Present() {
		if p.Peso.Value() <= 0 {
			return WeightRecord{}, nil, ErrInvalidInput
		}
		if p.Peso.Apply(&rec.Peso) {
			changed = append(changed, "peso")
		}
	}
	if p.DataPesagem.Apply(&rec.DataPesagem) {
		changed = append(changed, "data_pesagem")
	}
	if p.CondicaoCorporal.Present() {
		if !p.CondicaoCorporal.Cleared() && (p.CondicaoCorporal.Value() < 1 || p.CondicaoCorporal.Value() > 5) {
			return WeightRecord{}, nil, ErrInvalidInput
		}
		if p.CondicaoCorporal.ApplyPtr(&rec.CondicaoCorporal) {
			changed = append(changed, "condicao_corporal")
		}
	}
	if p.Observacoes.Present() {
		obs := strings.TrimSpace(p.Observacoes.Value())
		if p.Observacoes.Cleared() {
			obs = ""
		}
		if obs != rec.Observacoes {
			rec.Observacoes = obs
			changed = append(changed, "observacoes")
		}
	}

	if len(changed) == 0 {
		return WeightRecord{}, nil, ErrNoChanges
	}

	rec.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, rec); err != nil {
		return WeightRecord{}, nil, err
	}

	if err := s.syncCurrentWeight(ctx, rec.AnimalID); err != nil {
		return WeightRecord{}, nil, err
	}
	return rec, changed, nil
}

// Delete remove uma pesagem. Apenas admin e gerente.
func (s *Service) Delete(ctx context.Context, actorRole users.Role, id string) error {
	if !users.Permitted(actorRole, users.ActionDeactivateRecord) {
		return ErrForbidden
	}

	rec, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, rec.ID); err != nil {
		return err
	}
	return s.syncCurrentWeight(ctx, rec.AnimalID)
}

// syncCurrentWeight mantém o invariante: o peso atual do animal é o da
// pesagem mais recente, ou nulo quando não resta nenhuma.
func (s *Service) syncCurrentWeight(ctx context.Context, animalID string) error {
	history, err := s.repo.ListByAnimal(ctx, animalID)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return s.animals.ClearCurrentWeight(ctx, animalID)
	}

	latest := history[0]
	for _, rec := range history[1:] {
		if rec.DataPesagem.After(latest.DataPesagem) {
			latest = rec
		}
	}
	return s.animals.SetCurrentWeight(ctx, animalID, latest.Peso)
}
