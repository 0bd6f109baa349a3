package generator

import (
	"math"
	"math/rand"
	"time"

	"github.com/rqueiroz/exchange-betting-poc/internal/feed-simulator/catalog"
	"github.com/rqueiroz/exchange-betting-poc/pkg/contracts/events"
)

// LayMarkup é o spread aplicado sobre o back para derivar o lay simulado
const LayMarkup = 1.02

// Generator produz snapshots de odds oscilando em torno das odds base do catálogo
type Generator struct {
	entries []catalog.Entry
	source  string
	rng     *rand.Rand
	version int
	started time.Time
}

func New(source string, seed int64) *Generator {
	return &Generator{
		entries: catalog.Events(),
		source:  source,
		rng:     rand.New(rand.NewSource(seed)),
		started: time.Now().UTC(),
	}
}

// Next gera a próxima rodada de snapshots, um por evento do catálogo,
// com a versão incrementada a cada rodada.
func (g *Generator) Next() []events.OddsSnapshot {
	g.version++
	now := time.Now().UTC()

	out := make([]events.OddsSnapshot, 0, len(g.entries))
	for _, e := range g.entries {
		snap := events.OddsSnapshot{
			EventID:     e.EventID,
			Sport:       e.Sport,
			Competition: e.Competition,
			EventName:   e.EventName,
			StartTime:   g.started,
			IsLive:      e.IsLive,
			ScrapeOrder: e.ScrapeOrder,
			ScrapedAt:   now,
			Source:      g.source,
			Version:     g.version,
		}
		for _, s := range e.Selections {
			back := drift(g.rng, s.BaseOdds)
			snap.Selections = append(snap.Selections, events.SelectionOdds{
				Name:      s.Name,
				BackOdds:  back,
				LayOdds:   round2(back * LayMarkup),
				Liquidity: round2(100 + g.rng.Float64()*900),
			})
		}
		out = append(out, snap)
	}
	return out
}

// drift aplica uma variação de até ±10% sobre a odd base, com piso em 1.01
func drift(rng *rand.Rand, base float64) float64 {
	factor := 0.90 + rng.Float64()*0.20
	odds := base * factor
	if odds < 1.01 {
		odds = 1.01
	}
	return round2(odds)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
