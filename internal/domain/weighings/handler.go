package weighings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"controle-gado/internal/domain/users"
	"controle-gado/internal/middleware"
	"controle-gado/internal/patch"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animais/{animalID}/pesagens", func(pr chi.Router) {
		pr.Post("/", recordWeighingHandler(svc))
		pr.Get("/", listWeighingsHandler(svc))
	})
	r.Route("/pesagens/{pesagemID}", func(pr chi.Router) {
		pr.Patch("/", correctWeighingHandler(svc))
		pr.Delete("/", deleteWeighingHandler(svc))
	})
}

type recordWeighingRequest struct {
	Peso             float64    `json:"peso"`
	DataPesagem      *time.Time `json:"data_pesagem"`
	CondicaoCorporal *int       `json:"condicao_corporal" minimum:"1" maximum:"5"`
	Observacoes      string     `json:"observacoes"`
}

type correctWeighingRequest struct {
	// Ponteiros para PATCH real: nil = não tocar.
	Peso             *float64   `json:"peso"`
	DataPesagem      *time.Time `json:"data_pesagem"`
	CondicaoCorporal *int       `json:"condicao_corporal"`
	Observacoes      *string    `json:"observacoes"`
}

type weighingResponse struct {
	ID               string    `json:"id"`
	AnimalID         string    `json:"animal_id"`
	Peso             float64   `json:"peso"`
	DataPesagem      time.Time `json:"data_pesagem"`
	CondicaoCorporal *int      `json:"condicao_corporal,omitempty"`
	Observacoes      string    `json:"observacoes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type weighingHistoryResponse struct {
	Pesagens []weighingResponse `json:"pesagens"`
	// GMD do período completo, kg/dia. Ausente quando não há duas
	// pesagens em datas distintas.
	GMD *float64 `json:"gmd,omitempty"`
}

type correctWeighingResponse struct {
	Pesagem           weighingResponse `json:"pesagem"`
	CamposAtualizados []string         `json:"campos_atualizados"`
}

// recordWeighingHandler godoc
// @Summary Registrar pesagem
// @Description Registra uma pesagem e atualiza o peso atual do animal.
// @Tags pesagens
// @Accept json
// @Produce json
// @Param animalID path string true "ID do animal"
// @Param payload body recordWeighingRequest true "Dados da pesagem"
// @Success 201 {object} weighingResponse
// @Failure 400 {string} string "invalid json / dados inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal não encontrado"
// @Router /animais/{animalID}/pesagens [post]
func recordWeighingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req recordWeighingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rec, err := svc.Record(r.Context(), RecordInput{
			AnimalID:         chi.URLParam(r, "animalID"),
			Peso:             req.Peso,
			DataPesagem:      req.DataPesagem,
			CondicaoCorporal: req.CondicaoCorporal,
			Observacoes:      req.Observacoes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toWeighingResponse(rec))
	}
}

// listWeighingsHandler godoc
// @Summary Histórico de pesagens
// @Description Lista as pesagens do animal (mais recente primeiro) com o GMD do período.
// @Tags pesagens
// @Produce json
// @Param animalID path string true "ID do animal"
// @Success 200 {object} weighingHistoryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /animais/{animalID}/pesagens [get]
func listWeighingsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		history, err := svc.ListByAnimal(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeError(w, err)
			return
		}

		out := weighingHistoryResponse{Pesagens: make([]weighingResponse, 0, len(history))}
		for _, rec := range history {
			out.Pesagens = append(out.Pesagens, toWeighingResponse(rec))
		}
		if gmd, ok := ComputeGMD(history); ok {
			out.GMD = &gmd
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// correctWeighingHandler godoc
// @Summary Corrigir pesagem
// @Description Corrige uma pesagem existente e re-sincroniza o peso atual do animal.
// @Tags pesagens
// @Accept json
// @Produce json
// @Param pesagemID path string true "ID da pesagem"
// @Param payload body correctWeighingRequest true "Campos a corrigir"
// @Success 200 {object} correctWeighingResponse
// @Failure 400 {string} string "invalid json / nenhum campo para atualizar"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pesagem não encontrada"
// @Router /pesagens/{pesagemID} [patch]
func correctWeighingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req correctWeighingRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var p Patch
		if req.Peso != nil {
			p.Peso = patch.Set(*req.Peso)
		}
		if req.DataPesagem != nil {
			p.DataPesagem = patch.Set(*req.DataPesagem)
		}
		if req.CondicaoCorporal != nil {
			p.CondicaoCorporal = patch.Set(*req.CondicaoCorporal)
		}
		if req.Observacoes != nil {
			p.Observacoes = patch.Set(*req.Observacoes)
		}

		rec, changed, err := svc.Correct(r.Context(), chi.URLParam(r, "pesagemID"), p)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, correctWeighingResponse{
			Pesagem:           toWeighingResponse(rec),
			CamposAtualizados: changed,
		})
	}
}

// deleteWeighingHandler godoc
// @Summary Excluir pesagem
// @Description Remove uma pesagem. Apenas admin e gerente.
// @Tags pesagens
// @Produce json
// @Param pesagemID path string true "ID da pesagem"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pesagem não encontrada"
// @Router /pesagens/{pesagemID} [delete]
func deleteWeighingHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), users.Role(claims.Role), chi.URLParam(r, "pesagemID")); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "pesagem excluída com sucesso"})
	}
}

func toWeighingResponse(rec WeightRecord) weighingResponse {
	return weighingResponse{
		ID:               rec.ID,
		AnimalID:         rec.AnimalID,
		Peso:             rec.Peso,
		DataPesagem:      rec.DataPesagem,
		CondicaoCorporal: rec.CondicaoCorporal,
		Observacoes:      rec.Observacoes,
		CreatedAt:        rec.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoChanges):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pesagem não encontrada", http.StatusNotFound)
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
