package reproduction

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"controle-gado/internal/domain/animals"
	"controle-gado/internal/domain/users"
	"controle-gado/internal/patch"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("reproductive event not found")
	ErrBullNotFound   = errors.New("bull not found")
	ErrAnimalNotFound = errors.New("animal not found")
	ErrNotFemale      = errors.New("animal is not a female")
	ErrBrincoTaken    = errors.New("brinco already registered")
	ErrNoChanges      = errors.New("no fields to update")
)

type Service struct {
	events  EventRepository
	bulls   BullRepository
	animals *animals.Service
	now     func() time.Time
}

func NewService(events EventRepository, bulls BullRepository, herd *animals.Service) *Service {
	return &Service{
		events:  events,
		bulls:   bulls,
		animals: herd,
		now:     time.Now,
	}
}

type RecordEventInput struct {
	AnimalID    string
	Tipo        EventKind
	DataEvento  *time.Time // default: hoje
	TouroID     *string
	BezerroID   *string
	Natimorto   bool
	Observacoes string
}

// RecordEvent registra um evento reprodutivo. Só fêmeas têm ciclo;
// a data prevista de parto é derivada aqui, nunca vem do chamador.
func (s *Service) RecordEvent(ctx context.Context, in RecordEventInput) (Event, error) {
	animalID := strings.TrimSpace(in.AnimalID)
	if animalID == "" || !ValidKind(in.Tipo) {
		return Event{}, ErrInvalidInput
	}

	a, err := s.animals.GetByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, animals.ErrNotFound) {
			return Event{}, ErrAnimalNotFound
		}
		return Event{}, err
	}
	if a.Sexo != animals.SexFemale {
		return Event{}, ErrNotFemale
	}

	if in.TouroID != nil {
		if _, err := s.bulls.GetByID(ctx, *in.TouroID); err != nil {
			return Event{}, err
		}
	}

	now := s.now()
	data := now
	if in.DataEvento != nil {
		data = *in.DataEvento
	}

	ev := Event{
		ID:          uuid.NewString(),
		AnimalID:    animalID,
		Tipo:        in.Tipo,
		DataEvento:  data,
		TouroID:     in.TouroID,
		BezerroID:   in.BezerroID,
		Natimorto:   in.Natimorto,
		Observacoes: strings.TrimSpace(in.Observacoes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	derivePredictedDate(&ev)

	if err := s.events.Create(ctx, ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// derivePredictedDate anota na inseminação a previsão de parto.
func derivePredictedDate(ev *Event) {
	if ev.Tipo != KindInsemination {
		ev.DataPrevista = nil
		return
	}
	due := dateOnly(ev.DataEvento).AddDate(0, 0, GestationDays)
	ev.DataPrevista = &due
}

func (s *Service) GetEvent(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	return s.events.GetByID(ctx, id)
}

func (s *Service) ListByAnimal(ctx context.Context, animalID string) ([]Event, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, ErrInvalidInput
	}
	return s.events.ListByAnimal(ctx, animalID)
}

// StatusFor deriva o estado reprodutivo atual do animal.
func (s *Service) StatusFor(ctx context.Context, animalID string) (Status, error) {
	events, err := s.ListByAnimal(ctx, animalID)
	if err != nil {
		return Status{}, err
	}
	return DeriveStatus(events, s.now()), nil
}

// EventPatch é o change-set da correção de um evento reprodutivo.
// Correção edita a linha existente; não é um evento novo.
type EventPatch struct {
	Tipo        patch.Field[EventKind]
	DataEvento  patch.Field[time.Time]
	TouroID     patch.Field[string]
	BezerroID   patch.Field[string]
	Natimorto   patch.Field[bool]
	Observacoes patch.Field[string]
}

// UpdateEvent corrige um evento. A data prevista é re-derivada quando
// tipo ou data mudam.
func (s *Service) UpdateEvent(ctx context.Context, id string, p EventPatch) (Event, []string, error) {
	ev, err := s.GetEvent(ctx, id)
	if err != nil {
		return Event{}, nil, err
	}

	changed := make([]string, 0, 3)

	if p.Tipo.Present() {
		if !ValidKind(p.Tipo.Value()) {
			return Event{}, nil, ErrInvalidInput
		}
		if p.Tipo.Apply(&ev.Tipo) {
			changed = append(changed, "tipo")
		}
	}
	if p.DataEvento.Apply(&ev.DataEvento) {
		changed = append(changed, "data_evento")
	}
	if p.TouroID.Present() && !p.TouroID.Cleared() {
		if _, err := s.bulls.GetByID(ctx, p.TouroID.Value()); err != nil {
			return Event{}, nil, err
		}
	}
	if p.TouroID.ApplyPtr(&ev.TouroID) {
		changed = append(changed, "touro_id")
	}
	if p.BezerroID.ApplyPtr(&ev.BezerroID) {
		changed = append(changed, "bezerro_id")
	}
	if p.Natimorto.Apply(&ev.Natimorto) {
		changed = append(changed, "natimorto")
	}
	if p.Observacoes.Present() {
		obs := strings.TrimSpace(p.Observacoes.Value())
		if p.Observacoes.Cleared() {
			obs = ""
		}
		if obs != ev.Observacoes {
			ev.Observacoes = obs
			changed = append(changed, "observacoes")
		}
	}

	if len(changed) == 0 {
		return Event{}, nil, ErrNoChanges
	}

	derivePredictedDate(&ev)
	ev.UpdatedAt = s.now()
	if err := s.events.Update(ctx, ev); err != nil {
		return Event{}, nil, err
	}
	return ev, changed, nil
}

// DeleteEvent remove um evento. Apenas admin e gerente.
func (s *Service) DeleteEvent(ctx context.Context, actorRole users.Role, id string) error {
	if !users.Permitted(actorRole, users.ActionDeactivateRecord) {
		return ErrForbidden
	}
	ev, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	return s.events.Delete(ctx, ev.ID)
}

// FemaleStatus é o estado reprodutivo de uma fêmea com a identidade do
// animal, para relatórios.
type FemaleStatus struct {
	AnimalID string
	Brinco   string
	Nome     string
	Status   Status
}

// Overview deriva o estado reprodutivo de cada fêmea do conjunto
// informado. O filtro de sexo e idade é do chamador.
func (s *Service) Overview(ctx context.Context, females []animals.Animal) ([]FemaleStatus, error) {
	today := s.now()
	out := make([]FemaleStatus, 0, len(females))
	for _, a := range females {
		events, err := s.events.ListByAnimal(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, FemaleStatus{
			AnimalID: a.ID,
			Brinco:   a.Brinco,
			Nome:     a.Nome,
			Status:   DeriveStatus(events, today),
		})
	}
	return out, nil
}

// HerdStats conta as fêmeas do conjunto por estado reprodutivo.
func (s *Service) HerdStats(ctx context.Context, females []animals.Animal) (Stats, error) {
	overview, err := s.Overview(ctx, females)
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	for _, f := range overview {
		stats.add(f.Status)
	}
	return stats, nil
}

// UpcomingBirth é uma previsão de parto dentro do horizonte.
type UpcomingBirth struct {
	AnimalID      string
	Brinco        string
	Nome          string
	State         State
	DataPrevista  time.Time
	DiasRestantes int
}

// UpcomingBirths lista as fêmeas com parto previsto dentro do horizonte
// (em dias), ordenadas pela data prevista. Previsões vencidas (dias
// restantes negativos) continuam na lista até serem resolvidas.
func (s *Service) UpcomingBirths(ctx context.Context, females []animals.Animal, horizonDays int) ([]UpcomingBirth, error) {
	overview, err := s.Overview(ctx, females)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	out := make([]UpcomingBirth, 0)
	for _, f := range overview {
		if f.Status.DataPrevista == nil {
			continue
		}
		remaining := daysBetween(today, *f.Status.DataPrevista)
		if remaining > horizonDays {
			continue
		}
		out = append(out, UpcomingBirth{
			AnimalID:      f.AnimalID,
			Brinco:        f.Brinco,
			Nome:          f.Nome,
			State:         f.Status.State,
			DataPrevista:  *f.Status.DataPrevista,
			DiasRestantes: remaining,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].DataPrevista.Equal(out[j].DataPrevista) {
			return out[i].DataPrevista.Before(out[j].DataPrevista)
		}
		return out[i].Brinco < out[j].Brinco
	})
	return out, nil
}

type CreateBullInput struct {
	Brinco   string
	Nome     string
	RacaID   *string
	Registro string
	Linhagem string
}

func (s *Service) CreateBull(ctx context.Context, in CreateBullInput) (Bull, error) {
	brinco := strings.TrimSpace(in.Brinco)
	if brinco == "" {
		return Bull{}, ErrInvalidInput
	}

	now := s.now()
	b := Bull{
		ID:        uuid.NewString(),
		Brinco:    brinco,
		Nome:      strings.TrimSpace(in.Nome),
		RacaID:    in.RacaID,
		Registro:  strings.TrimSpace(in.Registro),
		Linhagem:  strings.TrimSpace(in.Linhagem),
		Ativo:     true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.bulls.Create(ctx, b); err != nil {
		return Bull{}, err
	}
	return b, nil
}

func (s *Service) GetBull(ctx context.Context, id string) (Bull, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Bull{}, ErrInvalidInput
	}
	return s.bulls.GetByID(ctx, id)
}

func (s *Service) ListBulls(ctx context.Context, onlyActive bool) ([]Bull, error) {
	return s.bulls.List(ctx, onlyActive)
}

// BullPatch é o change-set esparso de um touro. Brinco imutável.
type BullPatch struct {
	Nome     patch.Field[string]
	RacaID   patch.Field[string]
	Registro patch.Field[string]
	Linhagem patch.Field[string]
}

func (s *Service) UpdateBull(ctx context.Context, id string, p BullPatch) (Bull, []string, error) {
	b, err := s.GetBull(ctx, id)
	if err != nil {
		return Bull{}, nil, err
	}

	changed := make([]string, 0, 3)

	if p.Nome.Present() {
		nome := strings.TrimSpace(p.Nome.Value())
		if p.Nome.Cleared() {
			nome = ""
		}
		if nome != b.Nome {
			b.Nome = nome
			changed = append(changed, "nome")
		}
	}
	if p.RacaID.ApplyPtr(&b.RacaID) {
		changed = append(changed, "raca_id")
	}
	if p.Registro.Present() {
		reg := strings.TrimSpace(p.Registro.Value())
		if p.Registro.Cleared() {
			reg = ""
		}
		if reg != b.Registro {
			b.Registro = reg
			changed = append(changed, "registro")
		}
	}
	if p.Linhagem.Present() {
		lin := strings.TrimSpace(p.Linhagem.Value())
		if p.Linhagem.Cleared() {
			lin = ""
		}
		if lin != b.Linhagem {
			b.Linhagem = lin
			changed = append(changed, "linhagem")
		}
	}

	if len(changed) == 0 {
		return Bull{}, nil, ErrNoChanges
	}

	b.UpdatedAt = s.now()
	if err := s.bulls.Update(ctx, b); err != nil {
		return Bull{}, nil, err
	}
	return b, changed, nil
}

// DeactivateBull faz o soft delete do touro. Apenas admin e gerente.
func (s *Service) DeactivateBull(ctx context.Context, actorRole users.Role, id string) error {
	if !users.Permitted(actorRole, users.ActionDeactivateRecord) {
		return ErrForbidden
	}

	b, err := s.GetBull(ctx, id)
	if err != nil {
		return err
	}
	if !b.Ativo {
		// Idempotente
		return nil
	}

	b.Ativo = false
	b.UpdatedAt = s.now()
	return s.bulls.Update(ctx, b)
}
