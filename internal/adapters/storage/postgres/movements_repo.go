package postgres

import (
	"context"
	"database/sql"

	"controle-gado/internal/domain/movements"
)

type MovementsRepo struct {
	db *sql.DB
}

func NewMovementsRepo(db *sql.DB) *MovementsRepo {
	return &MovementsRepo{db: db}
}

func (r *MovementsRepo) Create(ctx context.Context, m movements.Movement) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO movimentacoes (
			id, animal_id, tipo, origem, destino,
			motivo, responsavel, data_movimentacao, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		m.ID, m.AnimalID, string(m.Tipo), m.Origem, m.Destino,
		m.Motivo, m.Responsavel, m.DataMovimentacao, m.CreatedAt,
	)
	return err
}

func (r *MovementsRepo) ListByAnimal(ctx context.Context, animalID string) ([]movements.Movement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, animal_id, tipo, origem, destino,
			motivo, responsavel, data_movimentacao, created_at
		FROM movimentacoes
		WHERE animal_id = $1
		ORDER BY data_movimentacao DESC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]movements.Movement, 0)
	for rows.Next() {
		var m movements.Movement
		var tipo string
		if err := rows.Scan(
			&m.ID, &m.AnimalID, &tipo, &m.Origem, &m.Destino,
			&m.Motivo, &m.Responsavel, &m.DataMovimentacao, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		m.Tipo = movements.Kind(tipo)
		out = append(out, m)
	}
	return out, rows.Err()
}
