package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/rqueiroz/exchange-betting-poc/internal/odds-service/dto"
)

// Repo define as consultas de leitura usadas pelos handlers REST
type Repo interface {
	ListEvents(ctx context.Context, sport string) ([]dto.Event, error)
	ListLive(ctx context.Context) ([]dto.Event, error)
	GetEvent(ctx context.Context, eventID string) (*dto.Event, error)
	ListSports(ctx context.Context) ([]dto.Sport, error)
	FeedStatus(ctx context.Context) (dto.FeedStatus, error)
}

// EventCache é o cache de leitura por evento (Redis)
type EventCache interface {
	GetEvent(ctx context.Context, eventID string, dst any) (bool, error)
	SetEvent(ctx context.Context, eventID string, v any, ttl time.Duration) error
}

// API expõe os endpoints REST de consulta do catálogo de eventos e odds
type API struct {
	ReadRepo Repo
	Cache    EventCache
	WS       http.HandlerFunc // handler do hub WebSocket, opcional
}

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/v1/events", a.listEvents)      // lista eventos, filtro opcional ?sport=
	r.Get("/v1/events/live", a.listLive)   // eventos em andamento
	r.Get("/v1/events/{id}", a.getEvent)   // evento com linhas de odds
	r.Get("/v1/sports", a.listSports)      // esportes disponíveis
	r.Get("/v1/feed/status", a.feedStatus) // frescor do feed
	if a.WS != nil {
		r.Get("/ws", a.WS)
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	sport := r.URL.Query().Get("sport")
	ev, err := a.ReadRepo.ListEvents(r.Context(), sport)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if ev == nil {
		ev = []dto.Event{}
	}
	writeJSON(w, http.StatusOK, ev)
}

func (a *API) listLive(w http.ResponseWriter, r *http.Request) {
	ev, err := a.ReadRepo.ListLive(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if ev == nil {
		ev = []dto.Event{}
	}
	writeJSON(w, http.StatusOK, ev)
}

// getEvent retorna o evento com suas odds, preferencialmente do cache
func (a *API) getEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fromCache dto.Event
	if ok, _ := a.Cache.GetEvent(r.Context(), id, &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	ev, err := a.ReadRepo.GetEvent(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = a.Cache.SetEvent(r.Context(), id, ev, 30*time.Second) // cache curto, feed atualiza a cada poucos segundos
	writeJSON(w, http.StatusOK, ev)
}

func (a *API) listSports(w http.ResponseWriter, r *http.Request) {
	sp, err := a.ReadRepo.ListSports(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if sp == nil {
		sp = []dto.Sport{}
	}
	writeJSON(w, http.StatusOK, sp)
}

func (a *API) feedStatus(w http.ResponseWriter, r *http.Request) {
	st, err := a.ReadRepo.FeedStatus(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, st)
}
