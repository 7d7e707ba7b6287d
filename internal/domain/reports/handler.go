package reports

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"controle-gado/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// DefaultHorizonDays é o horizonte padrão do relatório de próximos
// eventos reprodutivos.
const DefaultHorizonDays = 30

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/relatorios", func(rr chi.Router) {
		rr.Get("/resumo", summaryHandler(svc))
		rr.Get("/performance", performanceHandler(svc))
		rr.Get("/reproducao", reproductionStatsHandler(svc))
		rr.Get("/proximos-eventos", upcomingBirthsHandler(svc))
	})
	r.Get("/femeas-reprodutivas", femalesOverviewHandler(svc))
}

type summaryResponse struct {
	TotalAtivos int      `json:"total_ativos"`
	Machos      int      `json:"machos"`
	Femeas      int      `json:"femeas"`
	PesoMedio   *float64 `json:"peso_medio,omitempty"`
}

type performanceEntryResponse struct {
	AnimalID  string   `json:"animal_id"`
	Brinco    string   `json:"brinco"`
	Nome      string   `json:"nome,omitempty"`
	PesoAtual *float64 `json:"peso_atual,omitempty"`
	GMD       float64  `json:"gmd"`
}

type reproductionStatsResponse struct {
	Total         int `json:"total_femeas"`
	Vazias        int `json:"vazias"`
	Inseminadas   int `json:"inseminadas"`
	ADiagnosticar int `json:"a_diagnosticar"`
	Prenhas       int `json:"prenhas"`
	RecemParidas  int `json:"recem_paridas"`
	Candidatas    int `json:"candidatas_inseminacao"`
}

type upcomingBirthResponse struct {
	AnimalID      string    `json:"animal_id"`
	Brinco        string    `json:"brinco"`
	Nome          string    `json:"nome,omitempty"`
	Status        string    `json:"status"`
	DataPrevista  time.Time `json:"data_prevista"`
	DiasRestantes int       `json:"dias_restantes"`
}

type femaleStatusResponse struct {
	AnimalID             string     `json:"animal_id"`
	Brinco               string     `json:"brinco"`
	Nome                 string     `json:"nome,omitempty"`
	Status               string     `json:"status"`
	DataPrevista         *time.Time `json:"data_prevista,omitempty"`
	UltimaInseminacao    *time.Time `json:"ultima_inseminacao,omitempty"`
	UltimoParto          *time.Time `json:"ultimo_parto,omitempty"`
	UltimoCio            *time.Time `json:"ultimo_cio,omitempty"`
	CandidataInseminacao bool       `json:"candidata_inseminacao"`
}

func requireClaims(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// summaryHandler godoc
// @Summary Resumo do rebanho
// @Description Totais do rebanho ativo e peso médio dos animais pesados.
// @Tags relatorios
// @Produce json
// @Success 200 {object} summaryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /relatorios/resumo [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		sum, err := svc.Summary(r.Context())
		if err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, summaryResponse(sum))
	}
}

// performanceHandler godoc
// @Summary Ranking de desempenho
// @Description GMD por animal, descendente; animais sem histórico suficiente ficam fora.
// @Tags relatorios
// @Produce json
// @Success 200 {array} performanceEntryResponse
// @Failure 401 {string} string "unauthorized"
// @Router /relatorios/performance [get]
func performanceHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		entries, err := svc.Performance(r.Context())
		if err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		out := make([]performanceEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, performanceEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// reproductionStatsHandler godoc
// @Summary Estatísticas reprodutivas
// @Description Fêmeas ativas por estado reprodutivo derivado.
// @Tags relatorios
// @Produce json
// @Success 200 {object} reproductionStatsResponse
// @Failure 401 {string} string "unauthorized"
// @Router /relatorios/reproducao [get]
func reproductionStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		stats, err := svc.ReproductionStats(r.Context())
		if err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, reproductionStatsResponse(stats))
	}
}

// upcomingBirthsHandler godoc
// @Summary Próximos eventos reprodutivos
// @Description Partos previstos dentro do horizonte (default 30 dias), incluindo os vencidos.
// @Tags relatorios
// @Produce json
// @Param dias query int false "Horizonte em dias (default 30)"
// @Success 200 {array} upcomingBirthResponse
// @Failure 401 {string} string "unauthorized"
// @Router /relatorios/proximos-eventos [get]
func upcomingBirthsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}

		horizon := DefaultHorizonDays
		if v, err := strconv.Atoi(r.URL.Query().Get("dias")); err == nil && v > 0 {
			horizon = v
		}

		births, err := svc.UpcomingBirths(r.Context(), horizon)
		if err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		out := make([]upcomingBirthResponse, 0, len(births))
		for _, b := range births {
			out = append(out, upcomingBirthResponse{
				AnimalID:      b.AnimalID,
				Brinco:        b.Brinco,
				Nome:          b.Nome,
				Status:        string(b.State),
				DataPrevista:  b.DataPrevista,
				DiasRestantes: b.DiasRestantes,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// femalesOverviewHandler godoc
// @Summary Fêmeas reprodutivas
// @Description Estado reprodutivo derivado de cada fêmea ativa do rebanho.
// @Tags relatorios
// @Produce json
// @Success 200 {array} femaleStatusResponse
// @Failure 401 {string} string "unauthorized"
// @Router /femeas-reprodutivas [get]
func femalesOverviewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireClaims(w, r) {
			return
		}
		overview, err := svc.FemalesOverview(r.Context())
		if err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		out := make([]femaleStatusResponse, 0, len(overview))
		for _, f := range overview {
			out = append(out, femaleStatusResponse{
				AnimalID:             f.AnimalID,
				Brinco:               f.Brinco,
				Nome:                 f.Nome,
				Status:               string(f.Status.State),
				DataPrevista:         f.Status.DataPrevista,
				UltimaInseminacao:    f.Status.UltimaInseminacao,
				UltimoParto:          f.Status.UltimoParto,
				UltimoCio:            f.Status.UltimoCio,
				CandidataInseminacao: f.Status.CandidataInseminacao,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// writeJSON está duplicado intencionalmente nos handlers dos módulos
// para evitar criar helpers compartilhados cedo demais.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
