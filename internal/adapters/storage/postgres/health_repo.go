package postgres

import (
	"context"
	"database/sql"

	"controle-gado/internal/domain/health"
)

type HealthRepo struct {
	db *sql.DB
}

func NewHealthRepo(db *sql.DB) *HealthRepo {
	return &HealthRepo{db: db}
}

const healthColumns = `
	id, animal_id, tipo, produto, dose, aplicador,
	data_aplicacao, proxima_aplicacao, custo, observacoes,
	created_at, updated_at
`

func (r *HealthRepo) Create(ctx context.Context, ev health.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sanidade (`+healthColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		ev.ID, ev.AnimalID, string(ev.Tipo), ev.Produto, ev.Dose, ev.Aplicador,
		ev.DataAplicacao, ev.ProximaAplicacao, ev.Custo, ev.Observacoes,
		ev.CreatedAt, ev.UpdatedAt,
	)
	return err
}

func (r *HealthRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sanidade WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return health.ErrNotFound
	}
	return nil
}

func (r *HealthRepo) GetByID(ctx context.Context, id string) (health.Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+healthColumns+`
		FROM sanidade
		WHERE id = $1
	`, id)

	ev, err := scanHealthEvent(row.Scan)
	if err == sql.ErrNoRows {
		return health.Event{}, health.ErrNotFound
	}
	return ev, err
}

func (r *HealthRepo) ListByAnimal(ctx context.Context, animalID string) ([]health.Event, error) {
	return r.list(ctx, `
		SELECT `+healthColumns+`
		FROM sanidade
		WHERE animal_id = $1
		ORDER BY data_aplicacao DESC
	`, animalID)
}

func (r *HealthRepo) ListScheduled(ctx context.Context) ([]health.Event, error) {
	return r.list(ctx, `
		SELECT `+healthColumns+`
		FROM sanidade
		WHERE proxima_aplicacao IS NOT NULL
		ORDER BY proxima_aplicacao ASC
	`)
}

func (r *HealthRepo) list(ctx context.Context, query string, args ...any) ([]health.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]health.Event, 0)
	for rows.Next() {
		ev, err := scanHealthEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func scanHealthEvent(scan func(...any) error) (health.Event, error) {
	var ev health.Event
	var tipo string
	var proxima sql.NullTime
	var custo sql.NullFloat64

	if err := scan(
		&ev.ID, &ev.AnimalID, &tipo, &ev.Produto, &ev.Dose, &ev.Aplicador,
		&ev.DataAplicacao, &proxima, &custo, &ev.Observacoes,
		&ev.CreatedAt, &ev.UpdatedAt,
	); err != nil {
		return health.Event{}, err
	}

	ev.Tipo = health.EventKind(tipo)
	if proxima.Valid {
		ev.ProximaAplicacao = &proxima.Time
	}
	if custo.Valid {
		ev.Custo = &custo.Float64
	}
	return ev, nil
}
