package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rqueiroz/exchange-betting-poc/internal/ledger-service/dto"
	"github.com/rqueiroz/exchange-betting-poc/internal/ledger-service/repo"
	"github.com/rqueiroz/exchange-betting-poc/pkg/contracts/events"
)

// Repo define as operações de carteira e apostas usadas pelo handler HTTP
type Repo interface {
	Balance(ctx context.Context) (float64, time.Time, error)
	PlaceBet(ctx context.Context, b *repo.Bet, required float64) (betID string, newBalance float64, err error)
	Settle(ctx context.Context, betID, result string) (profitLoss, newBalance float64, err error)
	Deposit(ctx context.Context, amount float64) (float64, error)
	Withdraw(ctx context.Context, amount float64) (float64, error)
	ListBets(ctx context.Context, onlyOpen bool) ([]repo.Bet, error)
	Stats(ctx context.Context) (repo.Stats, error)
	Transactions(ctx context.Context) ([]repo.Transaction, error)
}

// Server expõe os endpoints HTTP do ledger (saldo + apostas persistidas)
type Server struct {
	log  *zap.Logger
	repo Repo
	publ interface {
		PublishBetPlaced(context.Context, events.BetPlaced) error
	}
}

func NewServer(log *zap.Logger, r Repo, p interface {
	PublishBetPlaced(context.Context, events.BetPlaced) error
}) *Server {
	return &Server{log: log, repo: r, publ: p}
}

// Router retorna o roteador HTTP com as rotas do ledger
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/bets", s.placeBet)
	r.Get("/bets", s.listBets)
	r.Get("/bets/open", s.listOpenBets)
	r.Get("/bets/history", s.history)
	r.Get("/bets/stats", s.stats)
	r.Post("/bets/{id}/settle", s.settle)

	r.Get("/balance", s.balance)
	r.Post("/balance/deposit", s.deposit)
	r.Post("/balance/withdraw", s.withdraw)
	r.Get("/balance/transactions", s.transactions)

	return r
}

// placeBet persiste uma perna de aposta, debitando o valor exigido:
// stake no back, liability (stake × (odds−1)) no lay.
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.PlaceBetResponse{Error: "bad json"})
		return
	}
	if req.SelectionName == "" || req.EventID == "" {
		writeJSON(w, http.StatusBadRequest, dto.PlaceBetResponse{Error: "invalid payload"})
		return
	}
	if req.Side != "back" && req.Side != "lay" {
		writeJSON(w, http.StatusBadRequest, dto.PlaceBetResponse{Error: "side must be back or lay"})
		return
	}
	if req.Stake <= 0 {
		writeJSON(w, http.StatusBadRequest, dto.PlaceBetResponse{Error: "stake must be positive"})
		return
	}
	if req.Odds < 1.0 {
		writeJSON(w, http.StatusBadRequest, dto.PlaceBetResponse{Error: "odds must be >= 1.0"})
		return
	}

	var potentialReturn, liability, required float64
	if req.Side == "back" {
		potentialReturn = req.Stake * req.Odds // payout total
		required = req.Stake
	} else {
		potentialReturn = req.Stake // lucro do layer
		liability = req.Stake * (req.Odds - 1)
		required = liability
	}

	bet := &repo.Bet{
		EventID:         req.EventID,
		EventName:       req.EventName,
		SelectionName:   req.SelectionName,
		Side:            req.Side,
		Odds:            req.Odds,
		Stake:           req.Stake,
		PotentialReturn: potentialReturn,
		Liability:       liability,
	}

	betID, newBalance, err := s.repo.PlaceBet(r.Context(), bet, required)
	if err != nil {
		if errors.Is(err, repo.ErrInsufficientFunds) {
			writeJSON(w, http.StatusBadRequest, dto.PlaceBetResponse{
				Error:     "Insufficient balance",
				Required:  required,
				Available: newBalance,
			})
			return
		}
		s.log.Error("place bet", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.PlaceBetResponse{Error: err.Error()})
		return
	}

	// Evento pro settlement-worker; falha aqui não desfaz a aposta
	if err := s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
		BetID:         betID,
		EventID:       req.EventID,
		EventName:     req.EventName,
		SelectionName: req.SelectionName,
		Side:          req.Side,
		Odds:          req.Odds,
		Stake:         req.Stake,
		Required:      required,
	}); err != nil {
		s.log.Warn("publish bet_placed", zap.String("betId", betID), zap.Error(err))
	}

	s.log.Info("bet placed",
		zap.String("betId", betID),
		zap.String("side", req.Side),
		zap.Float64("stake", req.Stake),
		zap.Float64("required", required),
	)
	writeJSON(w, http.StatusOK, dto.PlaceBetResponse{Success: true, BetID: betID, NewBalance: newBalance})
}

// settle liquida manualmente uma aposta aberta (também usado pelo worker).
func (s *Server) settle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	if req.Result != "won" && req.Result != "lost" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "result must be 'won' or 'lost'"})
		return
	}

	profitLoss, newBalance, err := s.repo.Settle(r.Context(), id, req.Result)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "bet not found"})
		case errors.Is(err, repo.ErrAlreadySettled):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "bet already settled"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SettleResponse{
		Success:    true,
		BetID:      id,
		Result:     req.Result,
		ProfitLoss: profitLoss,
		NewBalance: newBalance,
	})
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	bal, at, err := s.repo.Balance(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	resp := dto.BalanceResponse{Balance: bal}
	if !at.IsZero() {
		resp.UpdatedAt = at.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	s.adjust(w, r, s.repo.Deposit)
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	s.adjust(w, r, s.repo.Withdraw)
}

func (s *Server) adjust(w http.ResponseWriter, r *http.Request, fn func(context.Context, float64) (float64, error)) {
	var req dto.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	if req.Amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Amount must be positive"})
		return
	}
	newBalance, err := fn(r.Context(), req.Amount)
	if err != nil {
		if errors.Is(err, repo.ErrInsufficientFunds) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Insufficient balance"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "new_balance": newBalance})
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	s.writeBets(w, r, false)
}

func (s *Server) listOpenBets(w http.ResponseWriter, r *http.Request) {
	s.writeBets(w, r, true)
}

func (s *Server) writeBets(w http.ResponseWriter, r *http.Request, onlyOpen bool) {
	bets, err := s.repo.ListBets(r.Context(), onlyOpen)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]dto.BetResponse, 0, len(bets))
	for _, b := range bets {
		out = append(out, toBetResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	bets, err := s.repo.ListBets(r.Context(), false)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := dto.HistoryResponse{Bets: make([]dto.BetResponse, 0, len(bets))}
	for _, b := range bets {
		out.Bets = append(out.Bets, toBetResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.repo.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, dto.StatsResponse{
		TotalBets:     st.TotalBets,
		Pending:       st.Pending,
		Won:           st.Won,
		Lost:          st.Lost,
		WinRate:       st.WinRate,
		TotalStaked:   st.TotalStaked,
		NetProfitLoss: st.NetProfitLoss,
	})
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.repo.Transactions(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, dto.TransactionResponse{
			ID: t.ID, Amount: t.Amount, Type: t.Type,
			Description: t.Description, BetID: t.BetID, CreatedAt: t.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func toBetResponse(b repo.Bet) dto.BetResponse {
	return dto.BetResponse{
		ID:              b.ID,
		EventID:         b.EventID,
		EventName:       b.EventName,
		SelectionName:   b.SelectionName,
		Side:            b.Side,
		Odds:            b.Odds,
		Stake:           b.Stake,
		PotentialReturn: b.PotentialReturn,
		Liability:       b.Liability,
		Status:          b.Status,
		Result:          b.Result,
		ProfitLoss:      b.ProfitLoss,
		PlacedAt:        b.CreatedAt,
		SettledAt:       b.SettledAt,
	}
}

// writeJSON serializa e envia resposta JSON
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
