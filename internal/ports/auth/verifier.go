package auth

import "context"

// TokenVerifier valida um token de sessão e devolve claims ou erro.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
