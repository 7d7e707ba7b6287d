package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"controle-gado/internal/domain/users"
	"controle-gado/internal/domain/weighings"
	"controle-gado/internal/middleware"
	"controle-gado/internal/patch"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, pesagens *weighings.Service) {
	r.Route("/animais", func(ar chi.Router) {
		ar.Post("/", registerAnimalHandler(svc, pesagens))
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/brinco/{brinco}", getAnimalByBrincoHandler(svc))
		ar.Get("/{animalID}", getAnimalHandler(svc))
		ar.Patch("/{animalID}", updateAnimalHandler(svc))
		ar.Delete("/{animalID}", deactivateAnimalHandler(svc))
	})
}

type registerAnimalRequest struct {
	Brinco         string     `json:"brinco"`
	Nome           string     `json:"nome"`
	Sexo           string     `json:"sexo" enums:"M,F"`
	DataNascimento *time.Time `json:"data_nascimento"`
	RacaID         *string    `json:"raca_id"`
	PesoAtual      *float64   `json:"peso_atual"`
	LoteID         *string    `json:"lote_id"`
	PastoID        *string    `json:"pasto_id"`
	MaeID          *string    `json:"mae_id"`
	PaiID          *string    `json:"pai_id"`
	Origem         string     `json:"origem"`
	ValorCompra    *float64   `json:"valor_compra"`
	Observacoes    string     `json:"observacoes"`
}

type updateAnimalRequest struct {
	// Ponteiros para PATCH real: nil = não tocar. Brinco e status ficam
	// de fora: o brinco é imutável e o status só muda via DELETE.
	Nome           *string    `json:"nome"`
	Sexo           *string    `json:"sexo"`
	DataNascimento *time.Time `json:"data_nascimento"`
	RacaID         *string    `json:"raca_id"`
	LoteID         *string    `json:"lote_id"`
	PastoID        *string    `json:"pasto_id"`
	Origem         *string    `json:"origem"`
	ValorCompra    *float64   `json:"valor_compra"`
	Observacoes    *string    `json:"observacoes"`
}

type animalResponse struct {
	ID             string     `json:"id"`
	Brinco         string     `json:"brinco"`
	Nome           string     `json:"nome,omitempty"`
	Sexo           Sex        `json:"sexo"`
	DataNascimento *time.Time `json:"data_nascimento,omitempty"`
	IdadeMeses     *int       `json:"idade_meses,omitempty"`
	RacaID         *string    `json:"raca_id,omitempty"`
	PesoAtual      *float64   `json:"peso_atual,omitempty"`
	LoteID         *string    `json:"lote_id,omitempty"`
	PastoID        *string    `json:"pasto_id,omitempty"`
	MaeID          *string    `json:"mae_id,omitempty"`
	PaiID          *string    `json:"pai_id,omitempty"`
	Origem         string     `json:"origem,omitempty"`
	ValorCompra    *float64   `json:"valor_compra,omitempty"`
	Observacoes    string     `json:"observacoes,omitempty"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type updateAnimalResponse struct {
	Animal            animalResponse `json:"animal"`
	CamposAtualizados []string       `json:"campos_atualizados"`
}

// registerAnimalHandler godoc
// @Summary Cadastrar animal
// @Description Cadastra um novo animal ativo. Se peso_atual for informado, ele vira a primeira pesagem do histórico.
// @Tags animais
// @Accept json
// @Produce json
// @Param payload body registerAnimalRequest true "Dados do animal"
// @Success 201 {object} animalResponse
// @Failure 400 {string} string "invalid json / dados inválidos"
// @Failure 401 {string} string "unauthorized"
// @Failure 409 {string} string "brinco já cadastrado"
// @Router /animais [post]
func registerAnimalHandler(svc *Service, pesagens *weighings.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req registerAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Register(r.Context(), RegisterInput{
			Brinco:         req.Brinco,
			Nome:           req.Nome,
			Sexo:           Sex(strings.ToUpper(strings.TrimSpace(req.Sexo))),
			DataNascimento: req.DataNascimento,
			RacaID:         req.RacaID,
			PesoAtual:      req.PesoAtual,
			LoteID:         req.LoteID,
			PastoID:        req.PastoID,
			MaeID:          req.MaeID,
			PaiID:          req.PaiID,
			Origem:         req.Origem,
			ValorCompra:    req.ValorCompra,
			Observacoes:    req.Observacoes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		// O peso de cadastro abre o histórico de pesagens do animal.
		if req.PesoAtual != nil {
			if _, err := pesagens.Record(r.Context(), weighings.RecordInput{
				AnimalID:    a.ID,
				Peso:        *req.PesoAtual,
				Observacoes: "peso de cadastro",
			}); err != nil {
				writeError(w, err)
				return
			}
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

// listAnimalsHandler godoc
// @Summary Listar animais
// @Description Lista o rebanho por brinco ascendente. Filtros: status, sexo, lote_id, pasto_id, limit, offset.
// @Tags animais
// @Produce json
// @Param status query string false "ativo ou inativo (default: ativo)"
// @Param sexo query string false "M ou F"
// @Param lote_id query string false "ID do lote"
// @Param pasto_id query string false "ID do pasto"
// @Param limit query int false "Máximo de resultados"
// @Param offset query int false "Deslocamento"
// @Success 200 {array} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Router /animais [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()
		f := Filter{
			Status:  StatusActive,
			Sexo:    Sex(strings.ToUpper(q.Get("sexo"))),
			LoteID:  q.Get("lote_id"),
			PastoID: q.Get("pasto_id"),
		}
		if st := q.Get("status"); st != "" {
			f.Status = Status(st)
		}
		if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
			f.Limit = v
		}
		if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
			f.Offset = v
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getAnimalHandler godoc
// @Summary Buscar animal por ID
// @Tags animais
// @Produce json
// @Param animalID path string true "ID do animal"
// @Success 200 {object} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal não encontrado"
// @Router /animais/{animalID} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "animalID"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// getAnimalByBrincoHandler godoc
// @Summary Buscar animal por brinco
// @Tags animais
// @Produce json
// @Param brinco path string true "Brinco do animal"
// @Success 200 {object} animalResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal não encontrado"
// @Router /animais/brinco/{brinco} [get]
func getAnimalByBrincoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetByBrinco(r.Context(), chi.URLParam(r, "brinco"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// updateAnimalHandler godoc
// @Summary Atualizar animal
// @Description Aplica um change-set esparso. Brinco e status não são editáveis por aqui.
// @Tags animais
// @Accept json
// @Produce json
// @Param animalID path string true "ID do animal"
// @Param payload body updateAnimalRequest true "Campos a atualizar"
// @Success 200 {object} updateAnimalResponse
// @Failure 400 {string} string "invalid json / nenhum campo para atualizar"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "animal não encontrado"
// @Router /animais/{animalID} [patch]
func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req updateAnimalRequest
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
		if req.Sexo != nil {
			p.Sexo = patch.Set(Sex(strings.ToUpper(strings.TrimSpace(*req.Sexo))))
		}
		if req.DataNascimento != nil {
			p.DataNascimento = patch.Set(*req.DataNascimento)
		}
		if req.RacaID != nil {
			p.RacaID = patch.Set(*req.RacaID)
		}
		if req.LoteID != nil {
			p.LoteID = patch.Set(*req.LoteID)
		}
		if req.PastoID != nil {
			p.PastoID = patch.Set(*req.PastoID)
		}
		if req.Origem != nil {
			p.Origem = patch.Set(*req.Origem)
		}
		if req.ValorCompra != nil {
			p.ValorCompra = patch.Set(*req.ValorCompra)
		}
		if req.Observacoes != nil {
			p.Observacoes = patch.Set(*req.Observacoes)
		}

		a, changed, err := svc.Update(r.Context(), chi.URLParam(r, "animalID"), p)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, updateAnimalResponse{
			Animal:            toAnimalResponse(a),
			CamposAtualizados: changed,
		})
	}
}

// deactivateAnimalHandler godoc
// @Summary Desativar animal
// @Description Soft delete: o animal sai do rebanho ativo mas mantém o histórico. Apenas admin e gerente.
// @Tags animais
// @Produce json
// @Param animalID path string true "ID do animal"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "animal não encontrado"
// @Router /animais/{animalID} [delete]
func deactivateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if _, err := svc.Deactivate(r.Context(), users.Role(claims.Role), chi.URLParam(r, "animalID")); err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "animal desativado com sucesso"})
	}
}

func toAnimalResponse(a Animal) animalResponse {
	resp := animalResponse{
		ID:             a.ID,
		Brinco:         a.Brinco,
		Nome:           a.Nome,
		Sexo:           a.Sexo,
		DataNascimento: a.DataNascimento,
		RacaID:         a.RacaID,
		PesoAtual:      a.PesoAtual,
		LoteID:         a.LoteID,
		PastoID:        a.PastoID,
		MaeID:          a.MaeID,
		PaiID:          a.PaiID,
		Origem:         a.Origem,
		ValorCompra:    a.ValorCompra,
		Observacoes:    a.Observacoes,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
	if meses := a.IdadeMeses(time.Now()); meses >= 0 {
		resp.IdadeMeses = &meses
	}
	return resp
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoChanges),
		errors.Is(err, weighings.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound), errors.Is(err, weighings.ErrAnimalNotFound):
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
