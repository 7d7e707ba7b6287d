package movements

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"controle-gado/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animais/{animalID}/movimentacoes", func(mr chi.Router) {
		mr.Post("/", recordMovementHandler(svc))
		mr.Get("/", listMovementsHandler(svc))
	})
}

type recordMovementRequest struct {
	Tipo             string     `json:"tipo" enums:"troca_lote,troca_pasto,outro"`
	Origem           string     `json:"origem"`
	Destino          string     `json:"destino"`
	Motivo           string     `json:"motivo"`
	Responsavel      string     `json:"responsavel"`
	DataMovimentacao *time.Time `json:"data_movimentacao"`
}

type movementResponse struct {
	ID               string    `json:"id"`
	AnimalID         string    `json:"animal_id"`
	Tipo             Kind      `json:"tipo"`
	Origem           string    `json:"origem,omitempty"`
	Destino          string    `json:"destino,omitempty"`
	Motivo           string    `json:"motivo,omitempty"`
	Responsavel      string    `json:"responsavel,omitempty"`
	DataMovimentacao time.Time `json:"data_movimentacao"`
	CreatedAt        time.Time `json:"created_at"`
}

// recordMovementHandler godoc
// @Summary Registrar movimentação
// @Description Registra uma movimentação. Trocas de lote/pasto também atualizam o cadastro do animal.
// @Tags movimentacoes
// @Accept json
// @Produce json
// @Param animalID path string true "ID do animal"
// @Param payload body recordMovementRequest true "Dados da movimentação"
// @Success 201 {object} movementResponse
// @Failure 400 {string} string "invalid json / dados inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal não encontrado"
// @Router /animais/{animalID}/movimentacoes [post]
func recordMovementHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req recordMovementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Record(r.Context(), RecordInput{
			AnimalID:         chi.URLParam(r, "animalID"),
			Tipo:             Kind(strings.TrimSpace(req.Tipo)),
			Origem:           req.Origem,
			Destino:          req.Destino,
			Motivo:           req.Motivo,
			Responsavel:      req.Responsavel,
			DataMovimentacao: req.DataMovimentacao,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMovementResponse(m))
	}
}

// listMovementsHandler godoc
// @Summary Histórico de movimentações
// @Description Lista as movimentações do animal, mais recente primeiro.
// @Tags movimentacoes
// @Produce json
// @Param animalID path string true "ID do animal"
// @Success 200 {array} movementResponse
// @Failure 401 {string} string "unauthorized"
// @Router /animais/{animalID}/movimentacoes [get]
func listMovementsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByAnimal(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]movementResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMovementResponse(m))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toMovementResponse(m Movement) movementResponse {
	return movementResponse{
		ID:               m.ID,
		AnimalID:         m.AnimalID,
		Tipo:             m.Tipo,
		Origem:           m.Origem,
		Destino:          m.Destino,
		Motivo:           m.Motivo,
		Responsavel:      m.Responsavel,
		DataMovimentacao: m.DataMovimentacao,
		CreatedAt:        m.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAnimalNotFound):
		http.Error(w, "animal não encontrado", http.StatusNotFound)
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
