package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"controle-gado/internal/middleware"
	"controle-gado/internal/patch"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/usuarios", func(ur chi.Router) {
		ur.Post("/", createUserHandler(svc))
		ur.Get("/", listUsersHandler(svc))
		ur.Patch("/{userID}", updateUserHandler(svc))
		ur.Delete("/{userID}", deactivateUserHandler(svc))
	})
}

type createUserRequest struct {
	Nome        string `json:"nome"`
	Email       string `json:"email"`
	Senha       string `json:"senha"`
	NivelAcesso string `json:"nivel_acesso" enums:"admin,gerente,operador"`
}

type updateUserRequest struct {
	// Ponteiros para PATCH real: nil = não tocar.
	Nome        *string `json:"nome"`
	Email       *string `json:"email"`
	Senha       *string `json:"senha"`
	NivelAcesso *string `json:"nivel_acesso"`
	Ativo       *bool   `json:"ativo"`
}

type userResponse struct {
	ID           string     `json:"id"`
	Nome         string     `json:"nome"`
	Email        string     `json:"email"`
	NivelAcesso  Role       `json:"nivel_acesso"`
	Ativo        bool       `json:"ativo"`
	CreatedAt    time.Time  `json:"created_at"`
	UltimoAcesso *time.Time `json:"ultimo_acesso,omitempty"`
}

type updateUserResponse struct {
	Usuario           userResponse `json:"usuario"`
	CamposAtualizados []string     `json:"campos_atualizados"`
}

// createUserHandler godoc
// @Summary Criar usuário
// @Description Cadastra um novo usuário ativo. Apenas administradores.
// @Tags usuarios
// @Accept json
// @Produce json
// @Param payload body createUserRequest true "Dados do usuário"
// @Success 201 {object} userResponse
// @Failure 400 {string} string "invalid json / dados inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 409 {string} string "email já cadastrado"
// @Router /usuarios [post]
func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Create(r.Context(), Role(claims.Role), CreateInput{
			Nome:        req.Nome,
			Email:       req.Email,
			Senha:       req.Senha,
			NivelAcesso: Role(req.NivelAcesso),
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toUserResponse(u))
	}
}

// listUsersHandler godoc
// @Summary Listar usuários
// @Description Lista todos os usuários. Apenas administradores.
// @Tags usuarios
// @Produce json
// @Success 200 {array} userResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Router /usuarios [get]
func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.List(r.Context(), Role(claims.Role))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]userResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toUserResponse(u))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// updateUserHandler godoc
// @Summary Atualizar usuário
// @Description Aplica um change-set esparso. Admin edita qualquer usuário; os demais apenas a si mesmos. Campos privilegiados (nivel_acesso, ativo) são pulados silenciosamente para quem não é admin.
// @Tags usuarios
// @Accept json
// @Produce json
// @Param userID path string true "ID do usuário"
// @Param payload body updateUserRequest true "Campos a atualizar"
// @Success 200 {object} updateUserResponse
// @Failure 400 {string} string "invalid json / nenhum campo para atualizar"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "usuário não encontrado"
// @Router /usuarios/{userID} [patch]
func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateUserRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var p Patch
		if req.Nome != nil {
			p.Nome = patch.Set(*req.Nome)
		}
		if req.Email != nil {
			p.Email = patch.Set(*req.Email)
		}
		if req.Senha != nil {
			p.Senha = patch.Set(*req.Senha)
		}
		if req.NivelAcesso != nil {
			p.NivelAcesso = patch.Set(Role(*req.NivelAcesso))
		}
		if req.Ativo != nil {
			p.Ativo = patch.Set(*req.Ativo)
		}

		userID := chi.URLParam(r, "userID")
		u, changed, err := svc.Update(r.Context(), claims.UserID, Role(claims.Role), userID, p)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, updateUserResponse{
			Usuario:           toUserResponse(u),
			CamposAtualizados: changed,
		})
	}
}

// deactivateUserHandler godoc
// @Summary Desativar usuário
// @Description Soft delete da conta. Apenas administradores; nunca a própria conta.
// @Tags usuarios
// @Produce json
// @Param userID path string true "ID do usuário"
// @Success 200 {object} map[string]string
// @Failure 400 {string} string "não pode desativar a própria conta"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "usuário não encontrado"
// @Router /usuarios/{userID} [delete]
func deactivateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		userID := chi.URLParam(r, "userID")
		if err := svc.Deactivate(r.Context(), claims.UserID, Role(claims.Role), userID); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "usuário desativado com sucesso"})
	}
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:           u.ID,
		Nome:         u.Nome,
		Email:        u.Email,
		NivelAcesso:  u.NivelAcesso,
		Ativo:        u.Ativo,
		CreatedAt:    u.CreatedAt,
		UltimoAcesso: u.UltimoAcesso,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoChanges), errors.Is(err, ErrSelfDeactivation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "usuário não encontrado", http.StatusNotFound)
	case errors.Is(err, ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
	}
}

// writeJSON está duplicado intencionalmente nos handlers dos módulos
// para evitar criar helpers compartilhados cedo demais.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
