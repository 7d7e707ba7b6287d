package health

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"controle-gado/internal/domain/users"
	"controle-gado/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animais/{animalID}/sanidade", func(sr chi.Router) {
		sr.Post("/", recordHealthEventHandler(svc))
		sr.Get("/", listHealthEventsHandler(svc))
	})
	r.Get("/sanidade/proximas", upcomingApplicationsHandler(svc))
	r.Delete("/sanidade/{eventoID}", deleteHealthEventHandler(svc))
}

type recordHealthEventRequest struct {
	Tipo             string     `json:"tipo" enums:"vacina,vermifugo,antibiotico,carrapaticida,outro"`
	Produto          string     `json:"produto"`
	Dose             string     `json:"dose"`
	Aplicador        string     `json:"aplicador"`
	DataAplicacao    *time.Time `json:"data_aplicacao"`
	ProximaAplicacao *time.Time `json:"proxima_aplicacao"`
	Custo            *float64   `json:"custo"`
	Observacoes      string     `json:"observacoes"`
}

type healthEventResponse struct {
	ID               string     `json:"id"`
	AnimalID         string     `json:"animal_id"`
	Tipo             EventKind  `json:"tipo"`
	Produto          string     `json:"produto"`
	Dose             string     `json:"dose,omitempty"`
	Aplicador        string     `json:"aplicador,omitempty"`
	DataAplicacao    time.Time  `json:"data_aplicacao"`
	ProximaAplicacao *time.Time `json:"proxima_aplicacao,omitempty"`
	Custo            *float64   `json:"custo,omitempty"`
	Observacoes      string     `json:"observacoes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type upcomingApplicationResponse struct {
	EventoID         string    `json:"evento_id"`
	AnimalID         string    `json:"animal_id"`
	Brinco           string    `json:"brinco"`
	Nome             string    `json:"nome,omitempty"`
	Tipo             EventKind `json:"tipo"`
	Produto          string    `json:"produto"`
	ProximaAplicacao time.Time `json:"proxima_aplicacao"`
	DiasRestantes    int       `json:"dias_restantes"`
}

// recordHealthEventHandler godoc
// @Summary Registrar aplicação sanitária
// @Tags sanidade
// @Accept json
// @Produce json
// @Param animalID path string true "ID do animal"
// @Param payload body recordHealthEventRequest true "Dados da aplicação"
// @Success 201 {object} healthEventResponse
// @Failure 400 {string} string "invalid json / dados inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal não encontrado"
// @Router /animais/{animalID}/sanidade [post]
func recordHealthEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req recordHealthEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ev, err := svc.Record(r.Context(), RecordInput{
			AnimalID:         chi.URLParam(r, "animalID"),
			Tipo:             EventKind(strings.TrimSpace(req.Tipo)),
			Produto:          req.Produto,
			Dose:             req.Dose,
			Aplicador:        req.Aplicador,
			DataAplicacao:    req.DataAplicacao,
			ProximaAplicacao: req.ProximaAplicacao,
			Custo:            req.Custo,
			Observacoes:      req.Observacoes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toHealthEventResponse(ev))
	}
}

// listHealthEventsHandler godoc
// @Summary Histórico sanitário
// @Description Lista as aplicações do animal, mais recente primeiro.
// @Tags sanidade
// @Produce json
// @Param animalID path string true "ID do animal"
// @Success 200 {array} healthEventResponse
// @Failure 401 {string} string "unauthorized"
// @Router /animais/{animalID}/sanidade [get]
func listHealthEventsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]healthEventResponse, 0, len(items))
		for _, ev := range items {
			out = append(out, toHealthEventResponse(ev))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// upcomingApplicationsHandler godoc
// @Summary Próximas aplicações
// @Description Aplicações agendadas para animais ativos dentro do horizonte (default 30 dias), incluindo as vencidas.
// @Tags sanidade
// @Produce json
// @Param dias query int false "Horizonte em dias (default 30)"
// @Success 200 {array} upcomingApplicationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /sanidade/proximas [get]
func upcomingApplicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		horizon := DefaultHorizonDays
		if v, err := strconv.Atoi(r.URL.Query().Get("dias")); err == nil && v > 0 {
			horizon = v
		}

		items, err := svc.Upcoming(r.Context(), horizon)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]upcomingApplicationResponse, 0, len(items))
		for _, u := range items {
			out = append(out, upcomingApplicationResponse{
				EventoID:         u.EventID,
				AnimalID:         u.AnimalID,
				Brinco:           u.Brinco,
				Nome:             u.Nome,
				Tipo:             u.Tipo,
				Produto:          u.Produto,
				ProximaAplicacao: u.ProximaAplicacao,
				DiasRestantes:    u.DiasRestantes,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// deleteHealthEventHandler godoc
// @Summary Excluir aplicação sanitária
// @Description Remove uma aplicação. Apenas admin e gerente.
// @Tags sanidade
// @Produce json
// @Param eventoID path string true "ID da aplicação"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "aplicação não encontrada"
// @Router /sanidade/{eventoID} [delete]
func deleteHealthEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if err := svc.Delete(r.Context(), users.Role(claims.Role), chi.URLParam(r, "eventoID")); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "aplicação excluída com sucesso"})
	}
}

func toHealthEventResponse(ev Event) healthEventResponse {
	return healthEventResponse{
		ID:               ev.ID,
		AnimalID:         ev.AnimalID,
		Tipo:             ev.Tipo,
		Produto:          ev.Produto,
		Dose:             ev.Dose,
		Aplicador:        ev.Aplicador,
		DataAplicacao:    ev.DataAplicacao,
		ProximaAplicacao: ev.ProximaAplicacao,
		Custo:            ev.Custo,
		Observacoes:      ev.Observacoes,
		CreatedAt:        ev.CreatedAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "aplicação não encontrada", http.StatusNotFound)
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
