package auth

// Claims representa a identidade extraída de um token de sessão válido.
type Claims struct {
	UserID string
	Nome   string
	Email  string
	Role   string // admin, gerente ou operador
}
