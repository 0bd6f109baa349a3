package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rqueiroz/exchange-betting-poc/internal/odds-service/dto"
)

type fakeRepo struct {
	events    []dto.Event
	lastSport string
	getCalls  int
}

func (f *fakeRepo) ListEvents(ctx context.Context, sport string) ([]dto.Event, error) {
	f.lastSport = sport
	if sport == "" {
		return f.events, nil
	}
	var out []dto.Event
	for _, e := range f.events {
		if e.Sport == sport {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListLive(ctx context.Context) ([]dto.Event, error) {
	var out []dto.Event
	for _, e := range f.events {
		if e.IsLive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetEvent(ctx context.Context, eventID string) (*dto.Event, error) {
	f.getCalls++
	for i := range f.events {
		if f.events[i].EventID == eventID {
			return &f.events[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) ListSports(ctx context.Context) ([]dto.Sport, error) {
	counts := map[string]int{}
	for _, e := range f.events {
		counts[e.Sport]++
	}
	var out []dto.Sport
	for name, n := range counts {
		out = append(out, dto.Sport{Name: name, Count: n})
	}
	return out, nil
}

func (f *fakeRepo) FeedStatus(ctx context.Context) (dto.FeedStatus, error) {
	return dto.FeedStatus{TotalEvents: len(f.events), IsFresh: true, Sports: map[string]int{"futebol": 2}}, nil
}

type fakeCache struct {
	data map[string][]byte
	hits int
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string][]byte{}} }

func (f *fakeCache) GetEvent(ctx context.Context, eventID string, dst any) (bool, error) {
	b, ok := f.data[eventID]
	if !ok {
		return false, nil
	}
	f.hits++
	return true, json.Unmarshal(b, dst)
}

func (f *fakeCache) SetEvent(ctx context.Context, eventID string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	f.data[eventID] = b
	return nil
}

func testEvents() []dto.Event {
	return []dto.Event{
		{EventID: "EV1", Sport: "futebol", EventName: "Grêmio v Inter", ScrapeOrder: 1, IsLive: true,
			Odds: []dto.OddsLine{{SelectionName: "Grêmio", BackOdds: 2.1, LayOdds: 2.142}}},
		{EventID: "EV2", Sport: "futebol", EventName: "Flamengo v Vasco", ScrapeOrder: 2},
		{EventID: "EV3", Sport: "tênis", EventName: "Alcaraz v Sinner", ScrapeOrder: 3},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListEventsFilterBySport(t *testing.T) {
	fr := &fakeRepo{events: testEvents()}
	h := (&API{ReadRepo: fr, Cache: newFakeCache()}).Router()

	rec := get(t, h, "/v1/events?sport=tênis")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out []dto.Event
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if len(out) != 1 || out[0].EventID != "EV3" {
		t.Errorf("events = %+v, want only EV3", out)
	}
}

func TestListLive(t *testing.T) {
	fr := &fakeRepo{events: testEvents()}
	h := (&API{ReadRepo: fr, Cache: newFakeCache()}).Router()

	rec := get(t, h, "/v1/events/live")
	var out []dto.Event
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if len(out) != 1 || out[0].EventID != "EV1" {
		t.Errorf("live events = %+v, want only EV1", out)
	}
}

func TestGetEventNotFound(t *testing.T) {
	h := (&API{ReadRepo: &fakeRepo{}, Cache: newFakeCache()}).Router()

	rec := get(t, h, "/v1/events/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetEventUsesCacheOnSecondHit(t *testing.T) {
	fr := &fakeRepo{events: testEvents()}
	fc := newFakeCache()
	h := (&API{ReadRepo: fr, Cache: fc}).Router()

	for i := 0; i < 2; i++ {
		rec := get(t, h, "/v1/events/EV1")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}
	if fr.getCalls != 1 {
		t.Errorf("repo calls = %d, want 1 (second read from cache)", fr.getCalls)
	}
	if fc.hits != 1 {
		t.Errorf("cache hits = %d, want 1", fc.hits)
	}
}

func TestFeedStatus(t *testing.T) {
	h := (&API{ReadRepo: &fakeRepo{events: testEvents()}, Cache: newFakeCache()}).Router()

	rec := get(t, h, "/v1/feed/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out dto.FeedStatus
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out.TotalEvents != 3 || !out.IsFresh {
		t.Errorf("status = %+v", out)
	}
}
