package postgres

import (
	"context"
	"database/sql"

	"controle-gado/internal/domain/auth"
)

type SessionsRepo struct {
	db *sql.DB
}

func NewSessionsRepo(db *sql.DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

func (r *SessionsRepo) Create(ctx context.Context, s auth.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessoes (token, usuario_id, issued_at, expires_at)
		VALUES ($1,$2,$3,$4)
	`, s.Token, s.UserID, s.IssuedAt, s.ExpiresAt)
	return err
}

func (r *SessionsRepo) GetByToken(ctx context.Context, token string) (auth.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT token, usuario_id, issued_at, expires_at
		FROM sessoes
		WHERE token = $1
	`, token)

	var s auth.Session
	if err := row.Scan(&s.Token, &s.UserID, &s.IssuedAt, &s.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return auth.Session{}, auth.ErrSessionNotFound
		}
		return auth.Session{}, err
	}
	return s, nil
}

func (r *SessionsRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM sessoes WHERE usuario_id = $1
	`, userID)
	return err
}
