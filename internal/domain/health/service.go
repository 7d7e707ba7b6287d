package health

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"controle-gado/internal/domain/animals"
	"controle-gado/internal/domain/users"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("health event not found")
	ErrAnimalNotFound = errors.New("animal not found")
)

// DefaultHorizonDays é o horizonte padrão do relatório de próximas
// aplicações.
const DefaultHorizonDays = 30

type Service struct {
	repo    Repository
	animals *animals.Service
	now     func() time.Time
}

func NewService(repo Repository, herd *animals.Service) *Service {
	return &Service{
		repo:    repo,
		animals: herd,
		now:     time.Now,
	}
}

type RecordInput struct {
	AnimalID         string
	Tipo             EventKind
	Produto          string
	Dose             string
	Aplicador        string
	DataAplicacao    *time.Time // default: hoje
	ProximaAplicacao *time.Time
	Custo            *float64
	Observacoes      string
}

func (s *Service) Record(ctx context.Context, in RecordInput) (Event, error) {
	animalID := strings.TrimSpace(in.AnimalID)
	if animalID == "" || !ValidKind(in.Tipo) {
		return Event{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Produto) == "" {
		return Event{}, ErrInvalidInput
	}
	if in.Custo != nil && *in.Custo < 0 {
		return Event{}, ErrInvalidInput
	}

	ok, err := s.animals.Exists(ctx, animalID)
	if err != nil {
		return Event{}, err
	}
	if !ok {
		return Event{}, ErrAnimalNotFound
	}

	now := s.now()
	data := now
	if in.DataAplicacao != nil {
		data = *in.DataAplicacao
	}

	ev := Event{
		ID:               uuid.NewString(),
		AnimalID:         animalID,
		Tipo:             in.Tipo,
		Produto:          strings.TrimSpace(in.Produto),
		Dose:             strings.TrimSpace(in.Dose),
		Aplicador:        strings.TrimSpace(in.Aplicador),
		DataAplicacao:    data,
		ProximaAplicacao: in.ProximaAplicacao,
		Custo:            in.Custo,
		Observacoes:      strings.TrimSpace(in.Observacoes),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

func (s *Service) ListByAnimal(ctx context.Context, animalID string) ([]Event, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByAnimal(ctx, animalID)
}

// Delete remove uma aplicação. Apenas admin e gerente.
func (s *Service) Delete(ctx context.Context, actorRole users.Role, id string) error {
	if !users.Permitted(actorRole, users.ActionDeactivateRecord) {
		return ErrForbidden
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	ev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, ev.ID)
}

// UpcomingApplication é uma aplicação agendada dentro do horizonte,
// enriquecida com a identidade do animal.
type UpcomingApplication struct {
	EventID          string
	AnimalID         string
	Brinco           string
	Nome             string
	Tipo             EventKind
	Produto          string
	ProximaAplicacao time.Time
	DiasRestantes    int
}

// Upcoming lista as próximas aplicações de animais ativos dentro do
// horizonte (em dias), ordenadas pela data agendada. Aplicações
// vencidas continuam na lista até serem registradas.
func (s *Service) Upcoming(ctx context.Context, horizonDays int) ([]UpcomingApplication, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	scheduled, err := s.repo.ListScheduled(ctx)
	if err != nil {
		return nil, err
	}

	today := dateOnly(s.now())
	out := make([]UpcomingApplication, 0)
	for _, ev := range scheduled {
		if ev.ProximaAplicacao == nil {
			continue
		}
		next := dateOnly(*ev.ProximaAplicacao)
		remaining := int(next.Sub(today).Hours() / 24)
		if remaining > horizonDays {
			continue
		}

		a, err := s.animals.GetByID(ctx, ev.AnimalID)
		if err != nil {
			if errors.Is(err, animals.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if a.Status != animals.StatusActive {
			continue
		}

		out = append(out, UpcomingApplication{
			EventID:          ev.ID,
			AnimalID:         a.ID,
			Brinco:           a.Brinco,
			Nome:             a.Nome,
			Tipo:             ev.Tipo,
			Produto:          ev.Produto,
			ProximaAplicacao: next,
			DiasRestantes:    remaining,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ProximaAplicacao.Equal(out[j].ProximaAplicacao) {
			return out[i].ProximaAplicacao.Before(out[j].ProximaAplicacao)
		}
		return out[i].Brinco < out[j].Brinco
	})
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
