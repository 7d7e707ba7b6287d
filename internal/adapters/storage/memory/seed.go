package memory

import (
	"context"
	"errors"
	"time"

	"controle-gado/internal/domain/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdminUser garante um administrador inicial no storage em memória,
// para subir o sistema sem banco e sem usuário pré-existente.
// Idempotente: se o e-mail já existe, não faz nada.
func SeedAdminUser(ctx context.Context, repo users.Repository, email, senha string) error {
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, users.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	return repo.Create(ctx, users.User{
		ID:          uuid.NewString(),
		Nome:        "Administrador",
		Email:       email,
		SenhaHash:   string(hash),
		NivelAcesso: users.RoleAdmin,
		Ativo:       true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}
