package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"controle-gado/internal/domain/users"
	portsauth "controle-gado/internal/ports/auth"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidSession é o único sinal de falha de autenticação: token
// desconhecido, sessão expirada e usuário desativado são indistinguíveis
// para o chamador, de propósito.
var (
	ErrInvalidSession = errors.New("invalid credentials or session")
	ErrInvalidInput   = errors.New("invalid input")
)

const tokenBytes = 32

type Service struct {
	sessions Repository
	users    users.Repository
	ttl      time.Duration
	now      func() time.Time
}

// NewService cria o serviço de autenticação. ttlDays define o horizonte
// fixo de expiração das sessões (30 dias no padrão do sistema).
func NewService(sessions Repository, userRepo users.Repository, ttlDays int) *Service {
	if ttlDays <= 0 {
		ttlDays = 30
	}
	return &Service{
		sessions: sessions,
		users:    userRepo,
		ttl:      time.Duration(ttlDays) * 24 * time.Hour,
		now:      time.Now,
	}
}

type LoginResult struct {
	Session Session
	User    users.User
}

// Login verifica as credenciais e emite uma nova sessão.
// Usuário inexistente, senha errada e conta desativada devolvem o mesmo
// ErrInvalidSession para não vazar qual caso ocorreu.
func (s *Service) Login(ctx context.Context, email, senha string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || senha == "" {
		return LoginResult{}, ErrInvalidInput
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return LoginResult{}, ErrInvalidSession
		}
		return LoginResult{}, err
	}
	if !u.Ativo {
		return LoginResult{}, ErrInvalidSession
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.SenhaHash), []byte(senha)); err != nil {
		return LoginResult{}, ErrInvalidSession
	}

	token, err := newToken()
	if err != nil {
		return LoginResult{}, err
	}

	now := s.now()
	sess := Session{
		Token:     token,
		UserID:    u.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Session: sess, User: u}, nil
}

// Validate resolve um token para o usuário dono da sessão.
// Exige sessão existente, now < expires_at (estrito: expirar no instante
// exato já invalida) e usuário ativo.
func (s *Service) Validate(ctx context.Context, token string) (users.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return users.User{}, ErrInvalidSession
	}

	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return users.User{}, ErrInvalidSession
		}
		return users.User{}, err
	}

	if !s.now().Before(sess.ExpiresAt) {
		return users.User{}, ErrInvalidSession
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return users.User{}, ErrInvalidSession
		}
		return users.User{}, err
	}
	if !u.Ativo {
		return users.User{}, ErrInvalidSession
	}

	return u, nil
}

// Logout valida o token e remove todas as sessões do usuário dono.
func (s *Service) Logout(ctx context.Context, token string) error {
	u, err := s.Validate(ctx, token)
	if err != nil {
		return err
	}
	return s.sessions.DeleteByUser(ctx, u.ID)
}

// RevokeAll remove todas as sessões de um usuário (troca de senha,
// desativação de conta).
func (s *Service) RevokeAll(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidInput
	}
	return s.sessions.DeleteByUser(ctx, userID)
}

// Verify implementa ports/auth.TokenVerifier para o middleware HTTP.
func (s *Service) Verify(ctx context.Context, token string) (portsauth.Claims, error) {
	u, err := s.Validate(ctx, token)
	if err != nil {
		return portsauth.Claims{}, err
	}
	return portsauth.Claims{
		UserID: u.ID,
		Nome:   u.Nome,
		Email:  u.Email,
		Role:   string(u.NivelAcesso),
	}, nil
}

// ErrSessionNotFound é devolvido pelos repositórios quando o token não existe.
var ErrSessionNotFound = errors.New("session not found")

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
