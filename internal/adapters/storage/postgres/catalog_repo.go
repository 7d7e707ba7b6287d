package postgres

import (
	"context"
	"database/sql"
	"strings"

	"controle-gado/internal/domain/catalog"
)

type BreedsRepo struct {
	db *sql.DB
}

func NewBreedsRepo(db *sql.DB) *BreedsRepo {
	return &BreedsRepo{db: db}
}

func (r *BreedsRepo) Create(ctx context.Context, b catalog.Breed) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO racas (id, nome, descricao, origem, ativo, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, b.ID, b.Nome, b.Descricao, b.Origem, b.Ativo, b.CreatedAt, b.UpdatedAt)
	if isUniqueViolation(err) {
		return catalog.ErrNomeTaken
	}
	return err
}

func (r *BreedsRepo) Update(ctx context.Context, b catalog.Breed) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE racas SET
			nome = $2,
			descricao = $3,
			origem = $4,
			ativo = $5,
			updated_at = $6
		WHERE id = $1
	`, b.ID, b.Nome, b.Descricao, b.Origem, b.Ativo, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.ErrNomeTaken
		}
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrBreedNotFound
	}
	return nil
}

func (r *BreedsRepo) GetByID(ctx context.Context, id string) (catalog.Breed, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *BreedsRepo) GetByNome(ctx context.Context, nome string) (catalog.Breed, error) {
	return r.getBy(ctx, "LOWER(nome) = LOWER($1)", strings.TrimSpace(nome))
}

func (r *BreedsRepo) getBy(ctx context.Context, where string, arg any) (catalog.Breed, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nome, descricao, origem, ativo, created_at, updated_at
		FROM racas
		WHERE `+where, arg)

	var b catalog.Breed
	if err := row.Scan(&b.ID, &b.Nome, &b.Descricao, &b.Origem, &b.Ativo, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return catalog.Breed{}, catalog.ErrBreedNotFound
		}
		return catalog.Breed{}, err
	}
	return b, nil
}

func (r *BreedsRepo) List(ctx context.Context, onlyActive bool) ([]catalog.Breed, error) {
	query := `
		SELECT id, nome, descricao, origem, ativo, created_at, updated_at
		FROM racas
	`
	if onlyActive {
		query += " WHERE ativo = TRUE"
	}
	query += " ORDER BY nome ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Breed, 0)
	for rows.Next() {
		var b catalog.Breed
		if err := rows.Scan(&b.ID, &b.Nome, &b.Descricao, &b.Origem, &b.Ativo, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type LotsRepo struct {
	db *sql.DB
}

func NewLotsRepo(db *sql.DB) *LotsRepo {
	return &LotsRepo{db: db}
}

func (r *LotsRepo) Create(ctx context.Context, l catalog.Lot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO lotes (id, nome, descricao, capacidade, ativo, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, l.ID, l.Nome, l.Descricao, l.Capacidade, l.Ativo, l.CreatedAt, l.UpdatedAt)
	return err
}

func (r *LotsRepo) Update(ctx context.Context, l catalog.Lot) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lotes SET
			nome = $2,
			descricao = $3,
			capacidade = $4,
			ativo = $5,
			updated_at = $6
		WHERE id = $1
	`, l.ID, l.Nome, l.Descricao, l.Capacidade, l.Ativo, l.UpdatedAt)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrLotNotFound
	}
	return nil
}

func (r *LotsRepo) GetByID(ctx context.Context, id string) (catalog.Lot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nome, descricao, capacidade, ativo, created_at, updated_at
		FROM lotes
		WHERE id = $1
	`, id)

	l, err := scanLot(row.Scan)
	if err == sql.ErrNoRows {
		return catalog.Lot{}, catalog.ErrLotNotFound
	}
	return l, err
}

func (r *LotsRepo) List(ctx context.Context, onlyActive bool) ([]catalog.Lot, error) {
	query := `
		SELECT id, nome, descricao, capacidade, ativo, created_at, updated_at
		FROM lotes
	`
	if onlyActive {
		query += " WHERE ativo = TRUE"
	}
	query += " ORDER BY nome ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Lot, 0)
	for rows.Next() {
		l, err := scanLot(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLot(scan func(...any) error) (catalog.Lot, error) {
	var l catalog.Lot
	var capacidade sql.NullInt64

	if err := scan(&l.ID, &l.Nome, &l.Descricao, &capacidade, &l.Ativo, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return catalog.Lot{}, err
	}

	if capacidade.Valid {
		v := int(capacidade.Int64)
		l.Capacidade = &v
	}
	return l, nil
}

type PasturesRepo struct {
	db *sql.DB
}

func NewPasturesRepo(db *sql.DB) *PasturesRepo {
	return &PasturesRepo{db: db}
}

func (r *PasturesRepo) Create(ctx context.Context, p catalog.Pasture) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pastos (id, nome, area_hectares, tipo_capim, observacoes, ativo, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, p.ID, p.Nome, p.AreaHectares, p.TipoCapim, p.Observacoes, p.Ativo, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PasturesRepo) Update(ctx context.Context, p catalog.Pasture) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pastos SET
			nome = $2,
			area_hectares = $3,
			tipo_capim = $4,
			observacoes = $5,
			ativo = $6,
			updated_at = $7
		WHERE id = $1
	`, p.ID, p.Nome, p.AreaHectares, p.TipoCapim, p.Observacoes, p.Ativo, p.UpdatedAt)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return catalog.ErrPastureNotFound
	}
	return nil
}

func (r *PasturesRepo) GetByID(ctx context.Context, id string) (catalog.Pasture, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, nome, area_hectares, tipo_capim, observacoes, ativo, created_at, updated_at
		FROM pastos
		WHERE id = $1
	`, id)

	p, err := scanPasture(row.Scan)
	if err == sql.ErrNoRows {
		return catalog.Pasture{}, catalog.ErrPastureNotFound
	}
	return p, err
}

func (r *PasturesRepo) List(ctx context.Context, onlyActive bool) ([]catalog.Pasture, error) {
	query := `
		SELECT id, nome, area_hectares, tipo_capim, observacoes, ativo, created_at, updated_at
		FROM pastos
	`
	if onlyActive {
		query += " WHERE ativo = TRUE"
	}
	query += " ORDER BY nome ASC"

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Pasture, 0)
	for rows.Next() {
		p, err := scanPasture(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPasture(scan func(...any) error) (catalog.Pasture, error) {
	var p catalog.Pasture
	var area sql.NullFloat64

	if err := scan(&p.ID, &p.Nome, &area, &p.TipoCapim, &p.Observacoes, &p.Ativo, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return catalog.Pasture{}, err
	}

	if area.Valid {
		p.AreaHectares = &area.Float64
	}
	return p, nil
}
