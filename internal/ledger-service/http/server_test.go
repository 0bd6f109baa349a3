package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rqueiroz/exchange-betting-poc/internal/ledger-service/dto"
	"github.com/rqueiroz/exchange-betting-poc/internal/ledger-service/repo"
	"github.com/rqueiroz/exchange-betting-poc/pkg/contracts/events"
)

type fakeRepo struct {
	balance      float64
	lastBet      *repo.Bet
	lastRequired float64
	settleErr    error
	placeErr     error
}

func (f *fakeRepo) Balance(ctx context.Context) (float64, time.Time, error) {
	return f.balance, time.Now(), nil
}

func (f *fakeRepo) PlaceBet(ctx context.Context, b *repo.Bet, required float64) (string, float64, error) {
	if f.placeErr != nil {
		return "", f.balance, f.placeErr
	}
	f.lastBet = b
	f.lastRequired = required
	f.balance -= required
	return "bet-1", f.balance, nil
}

func (f *fakeRepo) Settle(ctx context.Context, betID, result string) (float64, float64, error) {
	if f.settleErr != nil {
		return 0, 0, f.settleErr
	}
	return 16, f.balance + 36, nil
}

func (f *fakeRepo) Deposit(ctx context.Context, amount float64) (float64, error) {
	f.balance += amount
	return f.balance, nil
}

func (f *fakeRepo) Withdraw(ctx context.Context, amount float64) (float64, error) {
	if amount > f.balance {
		return f.balance, repo.ErrInsufficientFunds
	}
	f.balance -= amount
	return f.balance, nil
}

func (f *fakeRepo) ListBets(ctx context.Context, onlyOpen bool) ([]repo.Bet, error) {
	return nil, nil
}

func (f *fakeRepo) Stats(ctx context.Context) (repo.Stats, error) {
	return repo.Stats{TotalBets: 4, Pending: 1, Won: 2, Lost: 1, WinRate: 66.66666666666666, TotalStaked: 40, NetProfitLoss: 12}, nil
}

func (f *fakeRepo) Transactions(ctx context.Context) ([]repo.Transaction, error) {
	return nil, nil
}

type fakePublisher struct{ published []events.BetPlaced }

func (f *fakePublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	f.published = append(f.published, e)
	return nil
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPlaceBetValidation(t *testing.T) {
	fr := &fakeRepo{balance: 1000}
	h := NewServer(zap.NewNop(), fr, &fakePublisher{}).Router()

	tests := []struct {
		name string
		req  dto.PlaceBetRequest
	}{
		{"no selection", dto.PlaceBetRequest{EventID: "E", Side: "back", Odds: 2, Stake: 10}},
		{"no event", dto.PlaceBetRequest{SelectionName: "A", Side: "back", Odds: 2, Stake: 10}},
		{"bad side", dto.PlaceBetRequest{EventID: "E", SelectionName: "A", Side: "both", Odds: 2, Stake: 10}},
		{"zero stake", dto.PlaceBetRequest{EventID: "E", SelectionName: "A", Side: "back", Odds: 2}},
		{"negative stake", dto.PlaceBetRequest{EventID: "E", SelectionName: "A", Side: "back", Odds: 2, Stake: -5}},
		{"odds below 1", dto.PlaceBetRequest{EventID: "E", SelectionName: "A", Side: "back", Odds: 0.9, Stake: 10}},
	}
	for _, tt := range tests {
		rec := post(t, h, "/bets", tt.req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rec.Code)
		}
	}
	if fr.lastBet != nil {
		t.Error("repo must not be called on validation failure")
	}
}

func TestPlaceBackBetDebitsStake(t *testing.T) {
	fr := &fakeRepo{balance: 1000}
	pub := &fakePublisher{}
	h := NewServer(zap.NewNop(), fr, pub).Router()

	rec := post(t, h, "/bets", dto.PlaceBetRequest{
		EventID: "EV1", EventName: "A v B", SelectionName: "A", Side: "back", Odds: 1.80, Stake: 20,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}

	if fr.lastRequired != 20 {
		t.Errorf("required = %v, want stake 20", fr.lastRequired)
	}
	if fr.lastBet.PotentialReturn != 36 { // 20 × 1.80, payout total
		t.Errorf("potential return = %v, want 36", fr.lastBet.PotentialReturn)
	}
	if fr.lastBet.Liability != 0 {
		t.Errorf("back liability = %v, want 0", fr.lastBet.Liability)
	}

	var out dto.PlaceBetResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if !out.Success || out.NewBalance != 980 {
		t.Errorf("response = %+v", out)
	}
	if len(pub.published) != 1 || pub.published[0].BetID != "bet-1" {
		t.Errorf("bet_placed must be published once, got %+v", pub.published)
	}
}

func TestPlaceLayBetDebitsLiability(t *testing.T) {
	fr := &fakeRepo{balance: 1000}
	h := NewServer(zap.NewNop(), fr, &fakePublisher{}).Router()

	rec := post(t, h, "/bets", dto.PlaceBetRequest{
		EventID: "EV1", SelectionName: "B", Side: "lay", Odds: 3.00, Stake: 10,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if fr.lastRequired != 20 { // 10 × (3.00 − 1)
		t.Errorf("required = %v, want liability 20", fr.lastRequired)
	}
	if fr.lastBet.PotentialReturn != 10 {
		t.Errorf("lay potential return = %v, want stake 10", fr.lastBet.PotentialReturn)
	}
	if fr.lastBet.Liability != 20 {
		t.Errorf("liability = %v, want 20", fr.lastBet.Liability)
	}
}

func TestPlaceBetInsufficientFunds(t *testing.T) {
	fr := &fakeRepo{balance: 30, placeErr: repo.ErrInsufficientFunds}
	h := NewServer(zap.NewNop(), fr, &fakePublisher{}).Router()

	rec := post(t, h, "/bets", dto.PlaceBetRequest{
		EventID: "EV1", SelectionName: "A", Side: "back", Odds: 2.0, Stake: 50,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var out dto.PlaceBetResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out.Required != 50 || out.Available != 30 {
		t.Errorf("required/available = %v/%v, want 50/30", out.Required, out.Available)
	}
}

func TestSettleValidation(t *testing.T) {
	h := NewServer(zap.NewNop(), &fakeRepo{}, &fakePublisher{}).Router()

	rec := post(t, h, "/bets/bet-1/settle", dto.SettleRequest{Result: "push"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSettleAlreadySettled(t *testing.T) {
	h := NewServer(zap.NewNop(), &fakeRepo{settleErr: repo.ErrAlreadySettled}, &fakePublisher{}).Router()

	rec := post(t, h, "/bets/bet-1/settle", dto.SettleRequest{Result: "won"})
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestSettleNotFound(t *testing.T) {
	h := NewServer(zap.NewNop(), &fakeRepo{settleErr: repo.ErrNotFound}, &fakePublisher{}).Router()

	rec := post(t, h, "/bets/nope/settle", dto.SettleRequest{Result: "lost"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestWithdrawInsufficient(t *testing.T) {
	h := NewServer(zap.NewNop(), &fakeRepo{balance: 10}, &fakePublisher{}).Router()

	rec := post(t, h, "/balance/withdraw", dto.AmountRequest{Amount: 50})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestStats(t *testing.T) {
	h := NewServer(zap.NewNop(), &fakeRepo{}, &fakePublisher{}).Router()

	req := httptest.NewRequest(http.MethodGet, "/bets/stats", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out dto.StatsResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out.TotalBets != 4 || out.Won != 2 || out.NetProfitLoss != 12 {
		t.Errorf("stats = %+v", out)
	}
}
