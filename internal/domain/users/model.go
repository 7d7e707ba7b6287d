package users

import "time"

// User representa um usuário do sistema.
// A senha nunca circula em claro: somente o hash bcrypt é armazenado.
type User struct {
	ID        string
	Nome      string
	Email     string
	SenhaHash string

	NivelAcesso Role
	Ativo       bool

	CreatedAt    time.Time
	UpdatedAt    time.Time
	UltimoAcesso *time.Time
}
