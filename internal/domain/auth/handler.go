package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"controle-gado/internal/domain/users"
	"controle-gado/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, usersSvc *users.Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc, usersSvc))
		ar.Post("/logout", logoutHandler(svc))
	})
}

type loginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

type loginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Usuario   loginUserInfo `json:"usuario"`
}

type loginUserInfo struct {
	ID          string `json:"id"`
	Nome        string `json:"nome"`
	Email       string `json:"email"`
	NivelAcesso string `json:"nivel_acesso"`
}

// loginHandler godoc
// @Summary Login
// @Description Valida as credenciais e emite um token de sessão com expiração fixa de 30 dias.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciais"
// @Success 200 {object} loginResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "credenciais inválidas"
// @Router /auth/login [post]
func loginHandler(svc *Service, usersSvc *users.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Senha)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "invalid json", http.StatusBadRequest)
			case errors.Is(err, ErrInvalidSession):
				http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
			default:
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			}
			return
		}

		// Best-effort: o login não falha se o carimbo de último acesso falhar.
		_ = usersSvc.TouchLastAccess(r.Context(), res.User.ID)

		writeJSON(w, http.StatusOK, loginResponse{
			Token:     res.Session.Token,
			ExpiresAt: res.Session.ExpiresAt,
			Usuario: loginUserInfo{
				ID:          res.User.ID,
				Nome:        res.User.Nome,
				Email:       res.User.Email,
				NivelAcesso: string(res.User.NivelAcesso),
			},
		})
	}
}

// logoutHandler godoc
// @Summary Logout
// @Description Invalida todas as sessões do usuário autenticado.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "unauthorized"
// @Router /auth/logout [post]
func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.RevokeAll(r.Context(), claims.UserID); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "logout realizado com sucesso"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
