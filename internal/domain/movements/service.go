package movements

import (
	"context"
	"errors"
	"strings"
	"time"

	"controle-gado/internal/domain/animals"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrAnimalNotFound = errors.New("animal not found")
)

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
	Tipo             Kind
	Origem           string
	Destino          string
	Motivo           string
	Responsavel      string
	DataMovimentacao *time.Time // default: hoje
}

// Record registra uma movimentação. Trocas de lote e de pasto também
// gravam o destino no cadastro do animal; a origem, quando omitida, é
// preenchida com a localização atual.
func (s *Service) Record(ctx context.Context, in RecordInput) (Movement, error) {
	animalID := strings.TrimSpace(in.AnimalID)
	if animalID == "" || !ValidKind(in.Tipo) {
		return Movement{}, ErrInvalidInput
	}

	destino := strings.TrimSpace(in.Destino)
	if (in.Tipo == KindLotChange || in.Tipo == KindPastureChange) && destino == "" {
		return Movement{}, ErrInvalidInput
	}

	a, err := s.animals.GetByID(ctx, animalID)
	if err != nil {
		if errors.Is(err, animals.ErrNotFound) {
			return Movement{}, ErrAnimalNotFound
		}
		return Movement{}, err
	}

	origem := strings.TrimSpace(in.Origem)
	if origem == "" {
		switch in.Tipo {
		case KindLotChange:
			if a.LoteID != nil {
				origem = *a.LoteID
			}
		case KindPastureChange:
			if a.PastoID != nil {
				origem = *a.PastoID
			}
		}
	}

	now := s.now()
	data := now
	if in.DataMovimentacao != nil {
		data = *in.DataMovimentacao
	}

	m := Movement{
		ID:               uuid.NewString(),
		AnimalID:         animalID,
		Tipo:             in.Tipo,
		Origem:           origem,
		Destino:          destino,
		Motivo:           strings.TrimSpace(in.Motivo),
		Responsavel:      strings.TrimSpace(in.Responsavel),
		DataMovimentacao: data,
		CreatedAt:        now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Movement{}, err
	}

	// A movimentação e a atualização do animal formam uma sequência;
	// se a segunda escrita falhar, o chamador trata o todo como falho.
	switch in.Tipo {
	case KindLotChange:
		if err := s.animals.SetLote(ctx, animalID, destino); err != nil {
			return Movement{}, err
		}
	case KindPastureChange:
		if err := s.animals.SetPasto(ctx, animalID, destino); err != nil {
			return Movement{}, err
		}
	}

	return m, nil
}

func (s *Service) ListByAnimal(ctx context.Context, animalID string) ([]Movement, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByAnimal(ctx, animalID)
}
