package results

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rqueiroz/exchange-betting-poc/internal/feed-simulator/catalog"
)

// Result é a resposta de GET /results/{eventID}
type Result struct {
	EventID  string `json:"event_id"`
	Finished bool   `json:"finished"`
	Winner   string `json:"winner,omitempty"`
}

// Oracle sorteia e memoriza o vencedor de cada evento do catálogo.
// Um evento é considerado encerrado após EventDuration desde a criação do Oracle;
// o vencedor é sorteado uma única vez na primeira consulta após o encerramento.
type Oracle struct {
	mu       sync.Mutex
	entries  map[string]catalog.Entry
	winners  map[string]string
	rng      *rand.Rand
	started  time.Time
	duration time.Duration
}

func NewOracle(eventDuration time.Duration, seed int64) *Oracle {
	entries := make(map[string]catalog.Entry)
	for _, e := range catalog.Events() {
		entries[e.EventID] = e
	}
	return &Oracle{
		entries:  entries,
		winners:  make(map[string]string),
		rng:      rand.New(rand.NewSource(seed)),
		started:  time.Now(),
		duration: eventDuration,
	}
}

// Lookup retorna o resultado do evento; ok=false para eventID desconhecido
func (o *Oracle) Lookup(eventID string) (Result, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	e, ok := o.entries[eventID]
	if !ok {
		return Result{}, false
	}

	res := Result{EventID: eventID}
	if time.Since(o.started) < o.duration {
		return res, true
	}

	winner, ok := o.winners[eventID]
	if !ok {
		winner = e.Selections[o.rng.Intn(len(e.Selections))].Name
		o.winners[eventID] = winner
	}
	res.Finished = true
	res.Winner = winner
	return res, true
}

// Handler expõe GET /results/{eventID}
func (o *Oracle) Handler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")
	res, ok := o.Lookup(id)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "event not found"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(res)
}
