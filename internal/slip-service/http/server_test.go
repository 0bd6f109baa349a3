package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/rqueiroz/exchange-betting-poc/internal/slip"
	"github.com/rqueiroz/exchange-betting-poc/internal/slip-service/dto"
	"github.com/rqueiroz/exchange-betting-poc/internal/slip-service/store"
)

type fakeLedger struct {
	balance      float64
	placed       []slip.PlaceRequest
	failAt       int
	balanceCalls int
}

func (f *fakeLedger) Balance(ctx context.Context) (float64, error) {
	f.balanceCalls++
	return f.balance, nil
}

func (f *fakeLedger) PlaceBet(ctx context.Context, req slip.PlaceRequest) (float64, error) {
	if f.failAt >= 0 && len(f.placed) == f.failAt {
		return 0, errors.New("supplier rejected")
	}
	f.placed = append(f.placed, req)
	f.balance -= req.Stake
	return f.balance, nil
}

func newTestServer(led *fakeLedger) (*Server, *store.Store) {
	st := store.New()
	return NewServer(zap.NewNop(), st, led), st
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/v1/slips", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status = %d", rec.Code)
	}
	var out map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return out["sessionId"]
}

func TestUnknownSessionIs404(t *testing.T) {
	srv, _ := newTestServer(&fakeLedger{balance: 1000, failAt: -1})
	h := srv.Router()

	rec := doJSON(t, h, http.MethodGet, "/v1/slips/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAddSelectionAndSyntheticLay(t *testing.T) {
	srv, _ := newTestServer(&fakeLedger{balance: 1000, failAt: -1})
	h := srv.Router()
	sid := createSession(t, h)

	rec := doJSON(t, h, http.MethodPost, "/v1/slips/"+sid+"/selections", dto.AddSelectionRequest{
		EventID: "EV1", EventName: "A v B", SelectionName: "A", Side: "lay", BackOdds: 2.00,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}

	var out dto.SlipResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if len(out.Selections) != 1 {
		t.Fatalf("selections = %d, want 1", len(out.Selections))
	}
	if got := out.Selections[0].Odds; got < 2.039 || got > 2.041 {
		t.Errorf("synthetic lay odds = %v, want ~2.04", got)
	}
}

func TestAddDuplicateSelectionIsNoop(t *testing.T) {
	srv, _ := newTestServer(&fakeLedger{balance: 1000, failAt: -1})
	h := srv.Router()
	sid := createSession(t, h)

	add := dto.AddSelectionRequest{EventID: "EV1", EventName: "A v B", SelectionName: "A", Side: "back", Odds: 1.8}
	doJSON(t, h, http.MethodPost, "/v1/slips/"+sid+"/selections", add)
	add.Odds = 2.5
	rec := doJSON(t, h, http.MethodPost, "/v1/slips/"+sid+"/selections", add)

	var out dto.SlipResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if len(out.Selections) != 1 {
		t.Fatalf("selections = %d, want 1", len(out.Selections))
	}
	if out.Selections[0].Odds != 1.8 {
		t.Errorf("odds = %v, want original 1.8 (no retroactive update)", out.Selections[0].Odds)
	}
}

func TestAddSelectionValidation(t *testing.T) {
	srv, _ := newTestServer(&fakeLedger{balance: 1000, failAt: -1})
	h := srv.Router()
	sid := createSession(t, h)

	tests := []struct {
		name string
		req  dto.AddSelectionRequest
	}{
		{"bad side", dto.AddSelectionRequest{EventID: "E", SelectionName: "A", Side: "push", Odds: 2}},
		{"empty selection", dto.AddSelectionRequest{EventID: "E", Side: "back", Odds: 2}},
		{"no odds", dto.AddSelectionRequest{EventID: "E", SelectionName: "A", Side: "back"}},
	}
	for _, tt := range tests {
		rec := doJSON(t, h, http.MethodPost, "/v1/slips/"+sid+"/selections", tt.req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, rec.Code)
		}
	}
}

func TestPlaceBlockedOnMissingStake(t *testing.T) {
	led := &fakeLedger{balance: 1000, failAt: -1}
	srv, _ := newTestServer(led)
	h := srv.Router()
	sid := createSession(t, h)

	doJSON(t, h, http.MethodPost, "/v1/slips/"+sid+"/selections",
		dto.AddSelectionRequest{EventID: "EV1", SelectionName: "A", Side: "back", Odds: 1.8})

	rec := doJSON(t, h, http.MethodPost, "/v1/slips/"+sid+"/place", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if len(led.placed) != 0 {
		t.Errorf("no placement call expected, got %d", len(led.placed))
	}
}

func TestPlaceInsufficientBalanceCarriesAmounts(t *testing.T) {
	led := &fakeLedger{balance: 30, failAt: -1}
	srv, st := newTestServer(led)
	h := srv.Router()
	sid := createSession(t, h)

	b, _ := st.Get(sid)
	sel := b.Add("EV1", "A v B", "B", 3.00, slip.Lay)
	b.UpdateStake(sel.ID, "25") // liability 50

	rec := doJSON(t, h, http.MethodPost, "/v1/slips/"+sid+"/place", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var out dto.PlaceResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out.Required != 50 || out.Available != 30 {
		t.Errorf("required/available = %v/%v, want 50/30", out.Required, out.Available)
	}
}

func TestPlaceSuccessClearsSlip(t *testing.T) {
	led := &fakeLedger{balance: 1000, failAt: -1}
	srv, st := newTestServer(led)
	h := srv.Router()
	sid := createSession(t, h)

	b, _ := st.Get(sid)
	sel := b.Add("EVA", "Event A", "Team X", 1.80, slip.Back)
	b.UpdateStake(sel.ID, "20")

	rec := doJSON(t, h, http.MethodPost, "/v1/slips/"+sid+"/place", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}

	var out dto.PlaceResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if !out.Success || out.LegsPlaced != 1 {
		t.Errorf("response = %+v, want success with 1 leg", out)
	}
	if out.NewBalance == nil || *out.NewBalance != 980 {
		t.Errorf("new balance = %v, want 980", out.NewBalance)
	}
	if len(led.placed) != 1 {
		t.Fatalf("placement calls = %d, want 1", len(led.placed))
	}
	if got := led.placed[0]; got.EventID != "EVA" || got.Side != slip.Back || got.Stake != 20 || got.Odds != 1.80 {
		t.Errorf("payload = %+v", got)
	}
	if b.Len() != 0 {
		t.Errorf("slip not cleared, Len() = %d", b.Len())
	}
}

func TestPlacePartialFailureIs502AndKeepsSlip(t *testing.T) {
	led := &fakeLedger{balance: 1000, failAt: 1}
	srv, st := newTestServer(led)
	h := srv.Router()
	sid := createSession(t, h)

	b, _ := st.Get(sid)
	s1 := b.Add("EV1", "A v B", "A", 2.0, slip.Back)
	s2 := b.Add("EV2", "C v D", "C", 1.5, slip.Back)
	b.UpdateStake(s1.ID, "10")
	b.UpdateStake(s2.ID, "10")

	rec := doJSON(t, h, http.MethodPost, "/v1/slips/"+sid+"/place", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	var out dto.PlaceResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out.LegsPlaced != 1 || out.LegsTotal != 2 {
		t.Errorf("legs = %d/%d, want 1/2", out.LegsPlaced, out.LegsTotal)
	}
	if b.Len() != 2 {
		t.Errorf("slip must not be cleared on failure, Len() = %d", b.Len())
	}
}
