package postgres

import (
	"context"
	"database/sql"
	"strings"

	"controle-gado/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO usuarios (
			id, nome, email, senha_hash,
			nivel_acesso, ativo,
			created_at, updated_at, ultimo_acesso
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		u.ID,
		u.Nome,
		u.Email,
		u.SenhaHash,
		string(u.NivelAcesso),
		u.Ativo,
		u.CreatedAt,
		u.UpdatedAt,
		u.UltimoAcesso,
	)
	if isUniqueViolation(err) {
		return users.ErrEmailTaken
	}
	return err
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE usuarios SET
			nome = $2,
			email = $3,
			senha_hash = $4,
			nivel_acesso = $5,
			ativo = $6,
			updated_at = $7,
			ultimo_acesso = $8
		WHERE id = $1
	`,
		u.ID,
		u.Nome,
		u.Email,
		u.SenhaHash,
		string(u.NivelAcesso),
		u.Ativo,
		u.UpdatedAt,
		u.UltimoAcesso,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return users.ErrEmailTaken
		}
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.getBy(ctx, "LOWER(email) = LOWER($1)", strings.TrimSpace(email))
}

func (r *UsersRepo) getBy(ctx context.Context, where string, arg any) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, nome, email, senha_hash,
			nivel_acesso, ativo,
			created_at, updated_at, ultimo_acesso
		FROM usuarios
		WHERE `+where, arg)

	u, err := scanUser(row.Scan)
	if err == sql.ErrNoRows {
		return users.User{}, users.ErrNotFound
	}
	return u, err
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, nome, email, senha_hash,
			nivel_acesso, ativo,
			created_at, updated_at, ultimo_acesso
		FROM usuarios
		ORDER BY email ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func scanUser(scan func(...any) error) (users.User, error) {
	var u users.User
	var nivel string
	var ultimoAcesso sql.NullTime

	if err := scan(
		&u.ID,
		&u.Nome,
		&u.Email,
		&u.SenhaHash,
		&nivel,
		&u.Ativo,
		&u.CreatedAt,
		&u.UpdatedAt,
		&ultimoAcesso,
	); err != nil {
		return users.User{}, err
	}

	u.NivelAcesso = users.Role(nivel)
	if ultimoAcesso.Valid {
		u.UltimoAcesso = &ultimoAcesso.Time
	}
	return u, nil
}
