package reproduction

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
	r.Route("/animais/{animalID}/eventos-reprodutivos", func(er chi.Router) {
		er.Post("/", recordEventHandler(svc))
		er.Get("/", listEventsHandler(svc))
	})
	r.Route("/eventos-reprodutivos/{eventoID}", func(er chi.Router) {
		er.Patch("/", updateEventHandler(svc))
		er.Delete("/", deleteEventHandler(svc))
	})
	r.Route("/touros", func(tr chi.Router) {
		tr.Post("/", createBullHandler(svc))
		tr.Get("/", listBullsHandler(svc))
		tr.Get("/{touroID}", getBullHandler(svc))
		tr.Patch("/{touroID}", updateBullHandler(svc))
		tr.Delete("/{touroID}", deactivateBullHandler(svc))
	})
}

type recordEventRequest struct {
	Tipo        string     `json:"tipo" enums:"inseminacao,diagnostico_positivo,diagnostico_negativo,parto,aborto,cio"`
	DataEvento  *time.Time `json:"data_evento"`
	TouroID     *string    `json:"touro_id"`
	BezerroID   *string    `json:"bezerro_id"`
	Natimorto   bool       `json:"natimorto"`
	Observacoes string     `json:"observacoes"`
}

type updateEventRequest struct {
	// Ponteiros para PATCH real: nil = não tocar.
	Tipo        *string    `json:"tipo"`
	DataEvento  *time.Time `json:"data_evento"`
	TouroID     *string    `json:"touro_id"`
	BezerroID   *string    `json:"bezerro_id"`
	Natimorto   *bool      `json:"natimorto"`
	Observacoes *string    `json:"observacoes"`
}

type eventResponse struct {
	ID           string     `json:"id"`
	AnimalID     string     `json:"animal_id"`
	Tipo         EventKind  `json:"tipo"`
	DataEvento   time.Time  `json:"data_evento"`
	TouroID      *string    `json:"touro_id,omitempty"`
	BezerroID    *string    `json:"bezerro_id,omitempty"`
	Natimorto    bool       `json:"natimorto"`
	DataPrevista *time.Time `json:"data_prevista,omitempty"`
	Observacoes  string     `json:"observacoes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type statusResponse struct {
	Status               State      `json:"status"`
	DataPrevista         *time.Time `json:"data_prevista,omitempty"`
	UltimaInseminacao    *time.Time `json:"ultima_inseminacao,omitempty"`
	UltimoParto          *time.Time `json:"ultimo_parto,omitempty"`
	UltimoCio            *time.Time `json:"ultimo_cio,omitempty"`
	CandidataInseminacao bool       `json:"candidata_inseminacao"`
}

type eventHistoryResponse struct {
	Eventos []eventResponse `json:"eventos"`
	Status  statusResponse  `json:"status_atual"`
}

type updateEventResponse struct {
	Evento            eventResponse `json:"evento"`
	CamposAtualizados []string      `json:"campos_atualizados"`
}

type bullRequest struct {
	Brinco   string  `json:"brinco"`
	Nome     string  `json:"nome"`
	RacaID   *string `json:"raca_id"`
	Registro string  `json:"registro"`
	Linhagem string  `json:"linhagem"`
}

type updateBullRequest struct {
	Nome     *string `json:"nome"`
	RacaID   *string `json:"raca_id"`
	Registro *string `json:"registro"`
	Linhagem *string `json:"linhagem"`
}

type bullResponse struct {
	ID        string    `json:"id"`
	Brinco    string    `json:"brinco"`
	Nome      string    `json:"nome,omitempty"`
	RacaID    *string   `json:"raca_id,omitempty"`
	Registro  string    `json:"registro,omitempty"`
	Linhagem  string    `json:"linhagem,omitempty"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"created_at"`
}

type updateBullResponse struct {
	Touro             bullResponse `json:"touro"`
	CamposAtualizados []string     `json:"campos_atualizados"`
}

// recordEventHandler godoc
// @Summary Registrar evento reprodutivo
// @Description Registra um evento no histórico da fêmea. A data prevista de parto é derivada, nunca enviada.
// @Tags reproducao
// @Accept json
// @Produce json
// @Param animalID path string true "ID do animal"
// @Param payload body recordEventRequest true "Dados do evento"
// @Success 201 {object} eventResponse
// @Failure 400 {string} string "invalid json / dados inválidos / animal não é fêmea"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal/touro não encontrado"
// @Router /animais/{animalID}/eventos-reprodutivos [post]
func recordEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req recordEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ev, err := svc.RecordEvent(r.Context(), RecordEventInput{
			AnimalID:    chi.URLParam(r, "animalID"),
			Tipo:        EventKind(strings.TrimSpace(req.Tipo)),
			DataEvento:  req.DataEvento,
			TouroID:     req.TouroID,
			BezerroID:   req.BezerroID,
			Natimorto:   req.Natimorto,
			Observacoes: req.Observacoes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(ev))
	}
}

// listEventsHandler godoc
// @Summary Histórico reprodutivo
// @Description Lista os eventos da fêmea (mais recente primeiro) com o estado reprodutivo derivado.
// @Tags reproducao
// @Produce json
// @Param animalID path string true "ID do animal"
// @Success 200 {object} eventHistoryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /animais/{animalID}/eventos-reprodutivos [get]
func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		animalID := chi.URLParam(r, "animalID")
		events, err := svc.ListByAnimal(r.Context(), animalID)
		if err != nil {
			writeError(w, err)
			return
		}
		st, err := svc.StatusFor(r.Context(), animalID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := eventHistoryResponse{
			Eventos: make([]eventResponse, 0, len(events)),
			Status:  toStatusResponse(st),
		}
		for _, ev := range events {
			out.Eventos = append(out.Eventos, toEventResponse(ev))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// updateEventHandler godoc
// @Summary Corrigir evento reprodutivo
// @Description Corrige a linha existente (não gera evento novo). A data prevista é re-derivada.
// @Tags reproducao
// @Accept json
// @Produce json
// @Param eventoID path string true "ID do evento"
// @Param payload body updateEventRequest true "Campos a corrigir"
// @Success 200 {object} updateEventResponse
// @Failure 400 {string} string "invalid json / nenhum campo para atualizar"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "evento não encontrado"
// @Router /eventos-reprodutivos/{eventoID} [patch]
func updateEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateEventRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var p EventPatch
		if req.Tipo != nil {
			p.Tipo = patch.Set(EventKind(strings.TrimSpace(*req.Tipo)))
		}
		if req.DataEvento != nil {
			p.DataEvento = patch.Set(*req.DataEvento)
		}
		if req.TouroID != nil {
			p.TouroID = patch.Set(*req.TouroID)
		}
		if req.BezerroID != nil {
			p.BezerroID = patch.Set(*req.BezerroID)
		}
		if req.Natimorto != nil {
			p.Natimorto = patch.Set(*req.Natimorto)
		}
		if req.Observacoes != nil {
			p.Observacoes = patch.Set(*req.Observacoes)
		}

		ev, changed, err := svc.UpdateEvent(r.Context(), chi.URLParam(r, "eventoID"), p)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, updateEventResponse{
			Evento:            toEventResponse(ev),
			CamposAtualizados: changed,
		})
	}
}

// deleteEventHandler godoc
// @Summary Excluir evento reprodutivo
// @Description Remove um evento do histórico. Apenas admin e gerente.
// @Tags reproducao
// @Produce json
// @Param eventoID path string true "ID do evento"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "evento não encontrado"
// @Router /eventos-reprodutivos/{eventoID} [delete]
func deleteEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.DeleteEvent(r.Context(), users.Role(claims.Role), chi.URLParam(r, "eventoID")); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "evento excluído com sucesso"})
	}
}

// createBullHandler godoc
// @Summary Cadastrar touro
// @Tags touros
// @Accept json
// @Produce json
// @Param payload body bullRequest true "Dados do touro"
// @Success 201 {object} bullResponse
// @Failure 400 {string} string "invalid json / dados inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "brinco já cadastrado"
// @Router /touros [post]
func createBullHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req bullRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		b, err := svc.CreateBull(r.Context(), CreateBullInput{
			Brinco:   req.Brinco,
			Nome:     req.Nome,
			RacaID:   req.RacaID,
			Registro: req.Registro,
			Linhagem: req.Linhagem,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBullResponse(b))
	}
}

// listBullsHandler godoc
// @Summary Listar touros
// @Tags touros
// @Produce json
// @Param status query string false "ativo para só ativos (default: todos)"
// @Success 200 {array} bullResponse
// @Failure 401 {string} string "unauthorized"
// @Router /touros [get]
func listBullsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		onlyActive := r.URL.Query().Get("status") == "ativo"
		items, err := svc.ListBulls(r.Context(), onlyActive)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]bullResponse, 0, len(items))
		for _, b := range items {
			out = append(out, toBullResponse(b))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getBullHandler godoc
// @Summary Buscar touro por ID
// @Tags touros
// @Produce json
// @Param touroID path string true "ID do touro"
// @Success 200 {object} bullResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "touro não encontrado"
// @Router /touros/{touroID} [get]
func getBullHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		b, err := svc.GetBull(r.Context(), chi.URLParam(r, "touroID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBullResponse(b))
	}
}

// updateBullHandler godoc
// @Summary Atualizar touro
// @Tags touros
// @Accept json
// @Produce json
// @Param touroID path string true "ID do touro"
// @Param payload body updateBullRequest true "Campos a atualizar"
// @Success 200 {object} updateBullResponse
// @Failure 400 {string} string "invalid json / nenhum campo para atualizar"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "touro não encontrado"
// @Router /touros/{touroID} [patch]
func updateBullHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateBullRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var p BullPatch
		if req.Nome != nil {
			p.Nome = patch.Set(*req.Nome)
		}
		if req.RacaID != nil {
			p.RacaID = patch.Set(*req.RacaID)
		}
		if req.Registro != nil {
			p.Registro = patch.Set(*req.Registro)
		}
		if req.Linhagem != nil {
			p.Linhagem = patch.Set(*req.Linhagem)
		}

		b, changed, err := svc.UpdateBull(r.Context(), chi.URLParam(r, "touroID"), p)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, updateBullResponse{
			Touro:             toBullResponse(b),
			CamposAtualizados: changed,
		})
	}
}

// deactivateBullHandler godoc
// @Summary Desativar touro
// @Description Soft delete. Apenas admin e gerente.
// @Tags touros
// @Produce json
// @Param touroID path string true "ID do touro"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "touro não encontrado"
// @Router /touros/{touroID} [delete]
func deactivateBullHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.DeactivateBull(r.Context(), users.Role(claims.Role), chi.URLParam(r, "touroID")); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "touro desativado com sucesso"})
	}
}

func toEventResponse(ev Event) eventResponse {
	return eventResponse{
		ID:           ev.ID,
		AnimalID:     ev.AnimalID,
		Tipo:         ev.Tipo,
		DataEvento:   ev.DataEvento,
		TouroID:      ev.TouroID,
		BezerroID:    ev.BezerroID,
		Natimorto:    ev.Natimorto,
		DataPrevista: ev.DataPrevista,
		Observacoes:  ev.Observacoes,
		CreatedAt:    ev.CreatedAt,
	}
}

func toStatusResponse(st Status) statusResponse {
	return statusResponse{
		Status:               st.State,
		DataPrevista:         st.DataPrevista,
		UltimaInseminacao:    st.UltimaInseminacao,
		UltimoParto:          st.UltimoParto,
		UltimoCio:            st.UltimoCio,
		CandidataInseminacao: st.CandidataInseminacao,
	}
}

func toBullResponse(b Bull) bullResponse {
	return bullResponse{
		ID:        b.ID,
		Brinco:    b.Brinco,
		Nome:      b.Nome,
		RacaID:    b.RacaID,
		Registro:  b.Registro,
		Linhagem:  b.Linhagem,
		Ativo:     b.Ativo,
		CreatedAt: b.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoChanges), errors.Is(err, ErrNotFemale):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "evento não encontrado", http.StatusNotFound)
	case errors.Is(err, ErrBullNotFound):
		http.Error(w, "touro não encontrado", http.StatusNotFound)
	case errors.Is(err, ErrAnimalNotFound):
		http.Error(w, "animal não encontrado", http.StatusNotFound)
	case errors.Is(err, ErrBrincoTaken):
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
