package reports

import (
	"context"
	"math"
	"sort"

	"controle-gado/internal/domain/animals"
	"controle-gado/internal/domain/reproduction"
	"controle-gado/internal/domain/weighings"
)

// Service agrega as leituras derivadas do rebanho: resumo, ranking de
// desempenho e visão reprodutiva. Não tem estado próprio nem escrita.
type Service struct {
	animals      *animals.Service
	weighings    *weighings.Service
	reproduction *reproduction.Service
}

func NewService(herd *animals.Service, scale *weighings.Service, repro *reproduction.Service) *Service {
	return &Service{
		animals:      herd,
		weighings:    scale,
		reproduction: repro,
	}
}

// Summary é o resumo do rebanho ativo.
type Summary struct {
	TotalAtivos int
	Machos      int
	Femeas      int
	// PesoMedio considera apenas animais com peso registrado.
	PesoMedio *float64
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	herd, err := s.animals.List(ctx, animals.Filter{Status: animals.StatusActive})
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	var totalPeso float64
	var comPeso int
	for _, a := range herd {
		sum.TotalAtivos++
		switch a.Sexo {
		case animals.SexMale:
			sum.Machos++
		case animals.SexFemale:
			sum.Femeas++
		}
		if a.PesoAtual != nil {
			totalPeso += *a.PesoAtual
			comPeso++
		}
	}
	if comPeso > 0 {
		media := math.Round(totalPeso/float64(comPeso)*100) / 100
		sum.PesoMedio = &media
	}
	return sum, nil
}

// PerformanceEntry é uma linha do ranking de ganho de peso.
type PerformanceEntry struct {
	AnimalID  string
	Brinco    string
	Nome      string
	PesoAtual *float64
	GMD       float64
}

// Performance ranqueia os animais ativos por GMD descendente (empate
// por brinco ascendente). Animais sem histórico suficiente ficam fora.
func (s *Service) Performance(ctx context.Context) ([]PerformanceEntry, error) {
	herd, err := s.animals.List(ctx, animals.Filter{Status: animals.StatusActive})
	if err != nil {
		return nil, err
	}

	out := make([]PerformanceEntry, 0, len(herd))
	for _, a := range herd {
		gmd, ok, err := s.weighings.GMD(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, PerformanceEntry{
			AnimalID:  a.ID,
			Brinco:    a.Brinco,
			Nome:      a.Nome,
			PesoAtual: a.PesoAtual,
			GMD:       gmd,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].GMD != out[j].GMD {
			return out[i].GMD > out[j].GMD
		}
		return out[i].Brinco < out[j].Brinco
	})
	return out, nil
}

// ReproductionStats conta as fêmeas ativas por estado reprodutivo.
func (s *Service) ReproductionStats(ctx context.Context) (reproduction.Stats, error) {
	females, err := s.animals.ListFemales(ctx)
	if err != nil {
		return reproduction.Stats{}, err
	}
	return s.reproduction.HerdStats(ctx, females)
}

// UpcomingBirths lista os partos previstos dentro do horizonte.
func (s *Service) UpcomingBirths(ctx context.Context, horizonDays int) ([]reproduction.UpcomingBirth, error) {
	females, err := s.animals.ListFemales(ctx)
	if err != nil {
		return nil, err
	}
	return s.reproduction.UpcomingBirths(ctx, females, horizonDays)
}

// FemalesOverview deriva o estado reprodutivo de cada fêmea ativa.
func (s *Service) FemalesOverview(ctx context.Context) ([]reproduction.FemaleStatus, error) {
	females, err := s.animals.ListFemales(ctx)
	if err != nil {
		return nil, err
	}
	return s.reproduction.Overview(ctx, females)
}
