package animals

import "context"

// Helpers usados por outros módulos via interfaces locais, para evitar
// ciclos de imports (pesagens e movimentações precisam tocar o animal).

// Exists responde se o animal existe (ativo ou não).
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SetCurrentWeight grava o peso atual do animal. Efeito colateral
// exclusivo do registro de pesagens.
func (s *Service) SetCurrentWeight(ctx context.Context, id string, peso float64) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.PesoAtual = &peso
	a.UpdatedAt = s.now()
	return s.repo.Update(ctx, a)
}

// ClearCurrentWeight remove o peso atual (última pesagem excluída).
func (s *Service) ClearCurrentWeight(ctx context.Context, id string) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.PesoAtual = nil
	a.UpdatedAt = s.now()
	return s.repo.Update(ctx, a)
}

// SetLote troca o lote do animal (movimentação troca_lote).
func (s *Service) SetLote(ctx context.Context, id, loteID string) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.LoteID = &loteID
	a.UpdatedAt = s.now()
	return s.repo.Update(ctx, a)
}

// SetPasto troca o pasto do animal (movimentação troca_pasto).
func (s *Service) SetPasto(ctx context.Context, id, pastoID string) error {
	a, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.PastoID = &pastoID
	a.UpdatedAt = s.now()
	return s.repo.Update(ctx, a)
}
