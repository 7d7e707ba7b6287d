package postgres

import (
	"context"
	"database/sql"

	"controle-gado/internal/domain/reproduction"
)

type ReproEventsRepo struct {
	db *sql.DB
}

func NewReproEventsRepo(db *sql.DB) *ReproEventsRepo {
	return &ReproEventsRepo{db: db}
}

func (r *ReproEventsRepo) Create(ctx context.Context, ev reproduction.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO eventos_reprodutivos (
			id, animal_id, tipo, data_evento,
			touro_id, bezerro_id, natimorto,
			data_prevista, observacoes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		ev.ID, ev.AnimalID, string(ev.Tipo), ev.DataEvento,
		ev.TouroID, ev.BezerroID, ev.Natimorto,
		ev.DataPrevista, ev.Observacoes,
		ev.CreatedAt, ev.UpdatedAt,
	)
	return err
}

func (r *ReproEventsRepo) Update(ctx context.Context, ev reproduction.Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE eventos_reprodutivos SET
			tipo = $2,
			data_evento = $3,
			touro_id = $4,
			bezerro_id = $5,
			natimorto = $6,
			data_prevista = $7,
			observacoes = $8,
			updated_at = $9
		WHERE id = $1
	`,
		ev.ID, string(ev.Tipo), ev.DataEvento,
		ev.TouroID, ev.BezerroID, ev.Natimorto,
		ev.DataPrevista, ev.Observacoes, ev.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return reproduction.ErrNotFound
	}
	return nil
}

func (r *ReproEventsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM eventos_reprodutivos WHERE id = $1`, id)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return reproduction.ErrNotFound
	}
	return nil
}

func (r *ReproEventsRepo) GetByID(ctx context.Context, id string) (reproduction.Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, animal_id, tipo, data_evento,
			touro_id, bezerro_id, natimorto,
			data_prevista, observacoes,
			created_at, updated_at
		FROM eventos_reprodutivos
		WHERE id = $1
	`, id)

	ev, err := scanReproEvent(row.Scan)
	if err == sql.ErrNoRows {
		return reproduction.Event{}, reproduction.ErrNotFound
	}
	return ev, err
}

func (r *ReproEventsRepo) ListByAnimal(ctx context.Context, animalID string) ([]reproduction.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, animal_id, tipo, data_evento,
			touro_id, bezerro_id, natimorto,
			data_prevista, observacoes,
			created_at, updated_at
		FROM eventos_reprodutivos
		WHERE animal_id = $1
		ORDER BY data_evento DESC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reproduction.Event, 0)
	for rows.Next() {
		ev, err := scanReproEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func scanReproEvent(scan func(...any) error) (reproduction.Event, error) {
	var ev reproduction.Event
	var tipo string
	var touroID, bezerroID sql.NullString
	var prevista sql.NullTime

	if err := scan(
		&ev.ID, &ev.AnimalID, &tipo, &ev.DataEvento,
		&touroID, &bezerroID, &ev.Natimorto,
		&prevista, &ev.Observacoes,
		&ev.CreatedAt, &ev.UpdatedAt,
	); err != nil {
		return reproduction.Event{}, err
	}

	ev.Tipo = reproduction.EventKind(tipo)
	if touroID.Valid {
		ev.TouroID = &touroID.String
	}
	if bezerroID.Valid {
		ev.BezerroID = &bezerroID.String
	}
	if prevista.Valid {
		ev.DataPrevista = &prevista.Time
	}
	return ev, nil
}

type BullsRepo struct {
	db *sql.DB
}

func NewBullsRepo(db *sql.DB) *BullsRepo {
	return &BullsRepo{db: db}
}

func (r *BullsRepo) Create(ctx context.Context, b reproduction.Bull) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO touros (
			id, brinco, nome, raca_id,
			registro, linhagem, ativo,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		b.ID, b.Brinco, b.Nome, b.RacaID,
		b.Registro, b.Linhagem, b.Ativo,
		b.CreatedAt, b.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return reproduction.ErrBrincoTaken
	}
	return err
}

func (r *BullsRepo) Update(ctx context.Context, b reproduction.Bull) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE touros SET
			nome = $2,
			raca_id = $3,
			registro = $4,
			linhagem = $5,
			ativo = $6,
			updated_at = $7
		WHERE id = $1
	`,
		b.ID, b.Nome, b.RacaID,
		b.Registro, b.Linhagem, b.Ativo, b.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return reproduction.ErrBullNotFound
	}
	return nil
}

func (r *BullsRepo) GetByID(ctx context.Context, id string) (reproduction.Bull, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, brinco, nome, raca_id,
			registro, linhagem, ativo,
			created_at, updated_at
		FROM touros
		WHERE id = $1
	`, id)

	b, err := scanBull(row.Scan)
	if err == sql.ErrNoRows {
		return reproduction.Bull{}, reproduction.ErrBullNotFound
	}
	return b, err
}

func (r *BullsRepo) List(ctx context.Context, onlyActive bool) ([]reproduction.Bull, error) {
	query := `
		SELECT
			id, brinco, nome, raca_id,
			registro, linhagem, ativo,
			created_at, updated_at
		FROM touros
	`
	if onlyActive {
		query += " WHERE ativo = TRUE"
	}
	query += " ORDER BY brinco ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reproduction.Bull, 0)
	for rows.Next() {
		b, err := scanBull(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBull(scan func(...any) error) (reproduction.Bull, error) {
	var b reproduction.Bull
	var racaID sql.NullString

	if err := scan(
		&b.ID, &b.Brinco, &b.Nome, &racaID,
		&b.Registro, &b.Linhagem, &b.Ativo,
		&b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return reproduction.Bull{}, err
	}

	if racaID.Valid {
		b.RacaID = &racaID.String
	}
	return b, nil
}
