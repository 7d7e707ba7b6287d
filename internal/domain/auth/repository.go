package auth

import "context"

type Repository interface {
	Create(ctx context.Context, s Session) error
	GetByToken(ctx context.Context, token string) (Session, error)
	DeleteByUser(ctx context.Context, userID string) error
}
