package catalog

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
	r.Route("/racas", func(rr chi.Router) {
		rr.Post("/", createBreedHandler(svc))
		rr.Get("/", listBreedsHandler(svc))
		rr.Get("/{racaID}", getBreedHandler(svc))
		rr.Patch("/{racaID}", updateBreedHandler(svc))
		rr.Delete("/{racaID}", deactivateBreedHandler(svc))
	})
	r.Route("/lotes", func(lr chi.Router) {
		lr.Post("/", createLotHandler(svc))
		lr.Get("/", listLotsHandler(svc))
		lr.Get("/{loteID}", getLotHandler(svc))
		lr.Patch("/{loteID}", updateLotHandler(svc))
		lr.Delete("/{loteID}", deactivateLotHandler(svc))
	})
	r.Route("/pastos", func(pr chi.Router) {
		pr.Post("/", createPastureHandler(svc))
		pr.Get("/", listPasturesHandler(svc))
		pr.Get("/{pastoID}", getPastureHandler(svc))
		pr.Patch("/{pastoID}", updatePastureHandler(svc))
		pr.Delete("/{pastoID}", deactivatePastureHandler(svc))
	})
}

func requireClaims(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

type breedRequest struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
	Origem    string `json:"origem"`
}

type updateBreedRequest struct {
	Nome      *string `json:"nome"`
	Descricao *string `json:"descricao"`
	Origem    *string `json:"origem"`
}

type breedResponse struct {
	ID        string    `json:"id"`
	Nome      string    `json:"nome"`
	Descricao string    `json:"descricao,omitempty"`
	Origem    string    `json:"origem,omitempty"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
}

type lotRequest struct {
	Nome       string `json:"nome"`
	Descricao  string `json:"descricao"`
	Capacidade *int   `json:"capacidade"`
}

type updateLotRequest struct {
	Nome       *string `json:"nome"`
	Descricao  *string `json:"descricao"`
	Capacidade *int    `json:"capacidade"`
}

type lotResponse struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	Descricao    string    `json:"descricao,omitempty"`
	Capacidade   *int      `json:"capacidade,omitempty"`
	TotalAnimais *int      `json:"total_animais,omitempty"`
	Ativo        bool      `json:"ativo"`
	CreatedAt    time.Time `json:"created_at"`
}

type pastureRequest struct {
	Nome         string   `json:"nome"`
	AreaHectares *float64 `json:"area_hectares"`
	TipoCapim    string   `json:"tipo_capim"`
	Observacoes  string   `json:"observacoes"`
}

type updatePastureRequest struct {
	Nome         *string  `json:"nome"`
	AreaHectares *float64 `json:"area_hectares"`
	TipoCapim    *string  `json:"tipo_capim"`
	Observacoes  *string  `json:"observacoes"`
}

type pastureResponse struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	AreaHectares *float64  `json:"area_hectares,omitempty"`
	TipoCapim    string    `json:"tipo_capim,omitempty"`
	Observacoes  string    `json:"observacoes,omitempty"`
	TotalAnimais *int      `json:"total_animais,omitempty"`
	Ativo        bool      `json:"ativo"`
	CreatedAt    time.Time `json:"created_at"`
}

// createBreedHandler godoc
// @Summary Cadastrar raça
// @Description Cadastra uma raça. Homônima desativada é reativada; homônima ativa é conflito.
// @Tags racas
// @Accept json
// @Produce json
// @Param payload body breedRequest true "Dados da raça"
// @Success 201 {object} breedResponse
// @Failure 400 {string} string "invalid json / dados inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "nome já cadastrado"
// @Router /racas [post]
func createBreedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		var req breedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		b, err := svc.CreateBreed(r.Context(), CreateBreedInput(req))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBreedResponse(b))
	}
}

// listBreedsHandler godoc
// @Summary Listar raças
// @Tags racas
// @Produce json
// @Param status query string false "ativo para só ativas (default: todas)"
// @Success 200 {array} breedResponse
// @Failure 401 {string} string "unauthorized"
// @Router /racas [get]
func listBreedsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		items, err := svc.ListBreeds(r.Context(), r.URL.Query().Get("status") == "ativo")
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]breedResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBreedResponse(b))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getBreedHandler godoc
// @Summary Buscar raça por ID
// @Tags racas
// @Produce json
// @Param racaID path string true "ID da raça"
// @Success 200 {object} breedResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "raça não encontrada"
// @Router /racas/{racaID} [get]
func getBreedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		b, err := svc.GetBreed(r.Context(), chi.URLParam(r, "racaID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBreedResponse(b))
	}
}

// updateBreedHandler godoc
// @Summary Atualizar raça
// @Tags racas
// @Accept json
// @Produce json
// @Param racaID path string true "ID da raça"
// @Param payload body updateBreedRequest true "Campos a atualizar"
// @Success 200 {object} breedResponse
// @Failure 400 {string} string "invalid json / nenhum campo para atualizar"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "raça não encontrada"
// @Failure 409 {string} string "nome já cadastrado"
// @Router /racas/{racaID} [patch]
func updateBreedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		var req updateBreedRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var p BreedPatch
		if req.Nome != nil {
			p.Nome = patch.Set(*req.Nome)
		}
		if req.Descricao != nil {
			p.Descricao = patch.Set(*req.Descricao)
		}
		if req.Origem != nil {
			p.Origem = patch.Set(*req.Origem)
		}

		b, _, err := svc.UpdateBreed(r.Context(), chi.URLParam(r, "racaID"), p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBreedResponse(b))
	}
}

// deactivateBreedHandler godoc
// @Summary Desativar raça
// @Description Soft delete. Apenas admin e gerente.
// @Tags racas
// @Produce json
// @Param racaID path string true "ID da raça"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "raça não encontrada"
// @Router /racas/{racaID} [delete]
func deactivateBreedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := svc.DeactivateBreed(r.Context(), users.Role(claims.Role), chi.URLParam(r, "racaID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "raça desativada com sucesso"})
	}
}

// createLotHandler godoc
// @Summary Cadastrar lote
// @Tags lotes
// @Accept json
// @Produce json
// @Param payload body lotRequest true "Dados do lote"
// @Success 201 {object} lotResponse
// @Failure 400 {string} string "invalid json / dados inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /lotes [post]
func createLotHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		var req lotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		l, err := svc.CreateLot(r.Context(), CreateLotInput(req))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toLotResponse(l, nil))
	}
}

// listLotsHandler godoc
// @Summary Listar lotes
// @Description Lista os lotes com o total de animais ativos de cada um.
// @Tags lotes
// @Produce json
// @Param status query string false "ativo para só ativos (default: todos)"
// @Success 200 {array} lotResponse
// @Failure 401 {string} string "unauthorized"
// @Router /lotes [get]
func listLotsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		items, err := svc.ListLots(r.Context(), r.URL.Query().Get("status") == "ativo")
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]lotResponse, 0, len(items))
		for _, l := range items {
			total, err := svc.CountLotAnimals(r.Context(), l.ID)
			if err != nil {
				writeError(w, err)
				return
			}
			out = append(out, toLotResponse(l, &total))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getLotHandler godoc
// @Summary Buscar lote por ID
// @Tags lotes
// @Produce json
// @Param loteID path string true "ID do lote"
// @Success 200 {object} lotResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "lote não encontrado"
// @Router /lotes/{loteID} [get]
func getLotHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		l, err := svc.GetLot(r.Context(), chi.URLParam(r, "loteID"))
		if err != nil {
			writeError(w, err)
			return
		}
		total, err := svc.CountLotAnimals(r.Context(), l.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toLotResponse(l, &total))
	}
}

// updateLotHandler godoc
// @Summary Atualizar lote
// @Tags lotes
// @Accept json
// @Produce json
// @Param loteID path string true "ID do lote"
// @Param payload body updateLotRequest true "Campos a atualizar"
// @Success 200 {object} lotResponse
// @Failure 400 {string} string "invalid json / nenhum campo para atualizar"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "lote não encontrado"
// @Router /lotes/{loteID} [patch]
func updateLotHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		var req updateLotRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var p LotPatch
		if req.Nome != nil {
			p.Nome = patch.Set(*req.Nome)
		}
		if req.Descricao != nil {
			p.Descricao = patch.Set(*req.Descricao)
		}
		if req.Capacidade != nil {
			p.Capacidade = patch.Set(*req.Capacidade)
		}

		l, _, err := svc.UpdateLot(r.Context(), chi.URLParam(r, "loteID"), p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toLotResponse(l, nil))
	}
}

// deactivateLotHandler godoc
// @Summary Desativar lote
// @Description Soft delete. Apenas admin e gerente.
// @Tags lotes
// @Produce json
// @Param loteID path string true "ID do lote"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "lote não encontrado"
// @Router /lotes/{loteID} [delete]
func deactivateLotHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := svc.DeactivateLot(r.Context(), users.Role(claims.Role), chi.URLParam(r, "loteID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "lote desativado com sucesso"})
	}
}

// createPastureHandler godoc
// @Summary Cadastrar pasto
// @Tags pastos
// @Accept json
// @Produce json
// @Param payload body pastureRequest true "Dados do pasto"
// @Success 201 {object} pastureResponse
// @Failure 400 {string} string "invalid json / dados inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /pastos [post]
func createPastureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		var req pastureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		pa, err := svc.CreatePasture(r.Context(), CreatePastureInput(req))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toPastureResponse(pa, nil))
	}
}

// listPasturesHandler godoc
// @Summary Listar pastos
// @Description Lista os pastos com o total de animais ativos de cada um.
// @Tags pastos
// @Produce json
// @Param status query string false "ativo para só ativos (default: todos)"
// @Success 200 {array} pastureResponse
// @Failure 401 {string} string "unauthorized"
// @Router /pastos [get]
func listPasturesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		items, err := svc.ListPastures(r.Context(), r.URL.Query().Get("status") == "ativo")
		if err != nil {
			writeError(w, err)
			return
		}
		out := make([]pastureResponse, 0, len(items))
		for _, pa := range items {
			total, err := svc.CountPastureAnimals(r.Context(), pa.ID)
			if err != nil {
				writeError(w, err)
				return
			}
			out = append(out, toPastureResponse(pa, &total))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPastureHandler godoc
// @Summary Buscar pasto por ID
// @Tags pastos
// @Produce json
// @Param pastoID path string true "ID do pasto"
// @Success 200 {object} pastureResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pasto não encontrado"
// @Router /pastos/{pastoID} [get]
func getPastureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		pa, err := svc.GetPasture(r.Context(), chi.URLParam(r, "pastoID"))
		if err != nil {
			writeError(w, err)
			return
		}
		total, err := svc.CountPastureAnimals(r.Context(), pa.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPastureResponse(pa, &total))
	}
}

// updatePastureHandler godoc
// @Summary Atualizar pasto
// @Tags pastos
// @Accept json
// @Produce json
// @Param pastoID path string true "ID do pasto"
// @Param payload body updatePastureRequest true "Campos a atualizar"
// @Success 200 {object} pastureResponse
// @Failure 400 {string} string "invalid json / nenhum campo para atualizar"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "pasto não encontrado"
// @Router /pastos/{pastoID} [patch]
func updatePastureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		var req updatePastureRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var p PasturePatch
		if req.Nome != nil {
			p.Nome = patch.Set(*req.Nome)
		}
		if req.AreaHectares != nil {
			p.AreaHectares = patch.Set(*req.AreaHectares)
		}
		if req.TipoCapim != nil {
			p.TipoCapim = patch.Set(*req.TipoCapim)
		}
		if req.Observacoes != nil {
			p.Observacoes = patch.Set(*req.Observacoes)
		}

		pa, _, err := svc.UpdatePasture(r.Context(), chi.URLParam(r, "pastoID"), p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toPastureResponse(pa, nil))
	}
}

// deactivatePastureHandler godoc
// @Summary Desativar pasto
// @Description Soft delete. Apenas admin e gerente.
// @Tags pastos
// @Produce json
// @Param pastoID path string true "ID do pasto"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pasto não encontrado"
// @Router /pastos/{pastoID} [delete]
func deactivatePastureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := svc.DeactivatePasture(r.Context(), users.Role(claims.Role), chi.URLParam(r, "pastoID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "pasto desativado com sucesso"})
	}
}

func toBreedResponse(b Breed) breedResponse {
	return breedResponse{
		ID:        b.ID,
		Nome:      b.Nome,
		Descricao: b.Descricao,
		Origem:    b.Origem,
		Ativo:     b.Ativo,
		CreatedAt: b.CreatedAt,
	}
}

func toLotResponse(l Lot, totalAnimais *int) lotResponse {
	return lotResponse{
		ID:           l.ID,
		Nome:         l.Nome,
		Descricao:    l.Descricao,
		Capacidade:   l.Capacidade,
		TotalAnimais: totalAnimais,
		Ativo:        l.Ativo,
		CreatedAt:    l.CreatedAt,
	}
}

func toPastureResponse(p Pasture, totalAnimais *int) pastureResponse {
	return pastureResponse{
		ID:           p.ID,
		Nome:         p.Nome,
		AreaHectares: p.AreaHectares,
		TipoCapim:    p.TipoCapim,
		Observacoes:  p.Observacoes,
		TotalAnimais: totalAnimais,
		Ativo:        p.Ativo,
		CreatedAt:    p.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoChanges):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrBreedNotFound):
		http.Error(w, "raça não encontrada", http.StatusNotFound)
	case errors.Is(err, ErrLotNotFound):
		http.Error(w, "lote não encontrado", http.StatusNotFound)
	case errors.Is(err, ErrPastureNotFound):
		http.Error(w, "pasto não encontrado", http.StatusNotFound)
	case errors.Is(err, ErrNomeTaken):
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
