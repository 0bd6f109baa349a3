package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rqueiroz/exchange-betting-poc/internal/slip"
	"github.com/rqueiroz/exchange-betting-poc/internal/slip-service/dto"
	"github.com/rqueiroz/exchange-betting-poc/internal/slip-service/store"
)

var (
	placementsAttempted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "slip_placements_attempted_total",
		Help: "Tentativas de colocação de boletim",
	})
	placementsSucceeded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "slip_placements_succeeded_total",
		Help: "Boletins colocados com sucesso (todas as pernas)",
	})
	placementsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "slip_placements_failed_total",
		Help: "Colocações que falharam (validação ou perna rejeitada)",
	})
)

func init() {
	prometheus.MustRegister(placementsAttempted, placementsSucceeded, placementsFailed)
}

// Server expõe a API REST do boletim de apostas por sessão.
type Server struct {
	log    *zap.Logger
	slips  *store.Store
	ledger slip.Ledger
}

func NewServer(log *zap.Logger, slips *store.Store, ledger slip.Ledger) *Server {
	return &Server{log: log, slips: slips, ledger: ledger}
}

// Router retorna o roteador HTTP com as rotas do boletim.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Post("/v1/slips", s.createSlip)
	r.Route("/v1/slips/{sid}", func(r chi.Router) {
		r.Get("/", s.getSlip)
		r.Delete("/", s.closeSlip)
		r.Post("/selections", s.addSelection)
		r.Delete("/selections", s.clearSlip)
		r.Delete("/selections/{id}", s.removeSelection)
		r.Put("/selections/{id}/stake", s.updateStake)
		r.Post("/place", s.place)
	})
	return r
}

func (s *Server) createSlip(w http.ResponseWriter, r *http.Request) {
	id := s.slips.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": id})
}

func (s *Server) closeSlip(w http.ResponseWriter, r *http.Request) {
	s.slips.Delete(chi.URLParam(r, "sid"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSlip(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	b, ok := s.slips.Get(sid)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, slipResponse(sid, b))
}

// addSelection acrescenta uma perna; duplicata por (evento, resultado, lado)
// é no-op e responde o estado corrente do boletim.
func (s *Server) addSelection(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	b, ok := s.slips.Get(sid)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	var req dto.AddSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	side := slip.Side(req.Side)
	if side != slip.Back && side != slip.Lay {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "side must be back or lay"})
		return
	}
	if req.SelectionName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "selectionName required"})
		return
	}

	odds := req.Odds
	if side == slip.Lay && odds <= 0 && req.BackOdds > 0 {
		// snapshot sem preço de lay: aplica o markup sintético
		odds = slip.SyntheticLayOdds(req.BackOdds)
	}
	if odds <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "odds must be positive"})
		return
	}

	b.Add(req.EventID, req.EventName, req.SelectionName, odds, side)
	writeJSON(w, http.StatusOK, slipResponse(sid, b))
}

func (s *Server) removeSelection(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	b, ok := s.slips.Get(sid)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	b.Remove(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, slipResponse(sid, b))
}

func (s *Server) updateStake(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	b, ok := s.slips.Get(sid)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	var req dto.UpdateStakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	if !b.UpdateStake(chi.URLParam(r, "id"), req.Stake) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "selection not found"})
		return
	}
	writeJSON(w, http.StatusOK, slipResponse(sid, b))
}

func (s *Server) clearSlip(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	b, ok := s.slips.Get(sid)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	b.Clear()
	writeJSON(w, http.StatusOK, slipResponse(sid, b))
}

// place dispara o loop sequencial de colocação contra o ledger.
func (s *Server) place(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	b, ok := s.slips.Get(sid)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	placementsAttempted.Inc()
	res, err := b.PlaceAll(r.Context(), s.ledger)
	if err != nil {
		placementsFailed.Inc()
		s.writePlaceError(w, sid, res, err)
		return
	}

	placementsSucceeded.Inc()
	s.log.Info("slip placed",
		zap.String("session", sid),
		zap.Int("legs", res.LegsPlaced),
	)
	writeJSON(w, http.StatusOK, dto.PlaceResponse{
		Success:    true,
		LegsPlaced: res.LegsPlaced,
		LegsTotal:  res.LegsTotal,
		NewBalance: res.NewBalance,
	})
}

// writePlaceError mapeia a taxonomia de erros do boletim pra HTTP.
// Erros de validação nunca chegaram na rede; falha de perna indica estado
// parcial no ledger (sem rollback) e vira 502 com a contagem de pernas.
func (s *Server) writePlaceError(w http.ResponseWriter, sid string, res slip.PlaceResult, err error) {
	var (
		missing      *slip.MissingStakeError
		insufficient *slip.InsufficientBalanceError
		leg          *slip.LegFailure
	)

	switch {
	case errors.Is(err, slip.ErrEmptySlip):
		writeJSON(w, http.StatusBadRequest, dto.PlaceResponse{Error: "bet slip is empty"})
	case errors.As(err, &missing):
		writeJSON(w, http.StatusBadRequest, dto.PlaceResponse{Error: missing.Error()})
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusBadRequest, dto.PlaceResponse{
			Error:     "insufficient balance",
			Required:  insufficient.Required,
			Available: insufficient.Available,
		})
	case errors.Is(err, slip.ErrPlacementInFlight):
		writeJSON(w, http.StatusConflict, dto.PlaceResponse{Error: "placement already in progress"})
	case errors.As(err, &leg):
		s.log.Error("placement stopped mid-loop",
			zap.String("session", sid),
			zap.Int("failed_leg", leg.Index),
			zap.Int("legs_placed", res.LegsPlaced),
			zap.Error(leg.Err),
		)
		writeJSON(w, http.StatusBadGateway, dto.PlaceResponse{
			Error:      leg.Error(),
			LegsPlaced: res.LegsPlaced,
			LegsTotal:  res.LegsTotal,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.PlaceResponse{Error: err.Error()})
	}
}

func slipResponse(sid string, b *slip.Slip) dto.SlipResponse {
	return dto.SlipResponse{
		SessionID:  sid,
		Selections: b.Selections(),
		Totals: dto.Totals{
			Stake:           b.TotalStake(),
			PotentialReturn: b.TotalReturn(),
			Liability:       b.TotalLiability(),
			Required:        b.TotalRequired(),
		},
		Placing: b.Placing(),
	}
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
