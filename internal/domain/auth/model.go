package auth

import "time"

// Session é uma sessão emitida no login.
// O token é opaco (32 bytes aleatórios, base64url) e a expiração é
// absoluta: validar a sessão não estende o prazo.
type Session struct {
	Token     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
