package memory

import (
	"context"
	"errors"
	"sync"

	"controle-gado/internal/domain/auth"
)

type sessionRepo struct {
	mu      sync.RWMutex
	byToken map[string]auth.Session
}

func NewSessionRepo() auth.Repository {
	return &sessionRepo{
		byToken: make(map[string]auth.Session),
	}
}

func (r *sessionRepo) Create(ctx context.Context, s auth.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.Token == "" {
		return errors.New("session token required")
	}

	r.byToken[s.Token] = s
	return nil
}

func (r *sessionRepo) GetByToken(ctx context.Context, token string) (auth.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byToken[token]
	if !ok {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return s, nil
}

func (r *sessionRepo) DeleteByUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for token, s := range r.byToken {
		if s.UserID == userID {
			delete(r.byToken, token)
		}
	}
	return nil
}
