package postgres

import (
	"context"
	"database/sql"

	"controle-gado/internal/domain/weighings"
)

type WeighingsRepo struct {
	db *sql.DB
}

func NewWeighingsRepo(db *sql.DB) *WeighingsRepo {
	return &WeighingsRepo{db: db}
}

func (r *WeighingsRepo) Create(ctx context.Context, rec weighings.WeightRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pesagens (
			id, animal_id, peso, data_pesagem,
			condicao_corporal, observacoes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		rec.ID, rec.AnimalID, rec.Peso, rec.DataPesagem,
		rec.CondicaoCorporal, rec.Observacoes,
		rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

func (r *WeighingsRepo) Update(ctx context.Context, rec weighings.WeightRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pesagens SET
			peso = $2,
			data_pesagem = $3,
			condicao_corporal = $4,
			observacoes = $5,
			updated_at = $6
		WHERE id = $1
	`,
		rec.ID, rec.Peso, rec.DataPesagem,
		rec.CondicaoCorporal, rec.Observacoes, rec.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return weighings.ErrNotFound
	}
	return nil
}

func (r *WeighingsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pesagens WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return weighings.ErrNotFound
	}
	return nil
}

func (r *WeighingsRepo) GetByID(ctx context.Context, id string) (weighings.WeightRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, animal_id, peso, data_pesagem,
			condicao_corporal, observacoes,
			created_at, updated_at
		FROM pesagens
		WHERE id = $1
	`, id)

	rec, err := scanWeighing(row.Scan)
	if err == sql.ErrNoRows {
		return weighings.WeightRecord{}, weighings.ErrNotFound
	}
	return rec, err
}

func (r *WeighingsRepo) ListByAnimal(ctx context.Context, animalID string) ([]weighings.WeightRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, animal_id, peso, data_pesagem,
			condicao_corporal, observacoes,
			created_at, updated_at
		FROM pesagens
		WHERE animal_id = $1
		ORDER BY data_pesagem DESC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]weighings.WeightRecord, 0)
	for rows.Next() {
		rec, err := scanWeighing(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanWeighing(scan func(...any) error) (weighings.WeightRecord, error) {
	var rec weighings.WeightRecord
	var cc sql.NullInt64

	if err := scan(
		&rec.ID, &rec.AnimalID, &rec.Peso, &rec.DataPesagem,
		&cc, &rec.Observacoes,
		&rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return weighings.WeightRecord{}, err
	}

	if cc.Valid {
		v := int(cc.Int64)
		rec.CondicaoCorporal = &v
	}
	return rec, nil
}
