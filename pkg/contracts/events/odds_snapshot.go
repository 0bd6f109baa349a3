package events

import "time"

// SelectionOdds representa os preços de exchange de um resultado nomeado
// (ex: um time, "The Draw") dentro de um evento.
type SelectionOdds struct {
	Name      string  `json:"name"`
	BackOdds  float64 `json:"back_odds"`
	LayOdds   float64 `json:"lay_odds"`
	Liquidity float64 `json:"liquidity,omitempty"`
}

// Evento publicado no tópico "odds_snapshots"
type OddsSnapshot struct {
	EventID     string          `json:"event_id"`
	Sport       string          `json:"sport"`
	Competition string          `json:"competition,omitempty"`
	EventName   string          `json:"event_name"`
	StartTime   time.Time       `json:"start_time"`
	IsLive      bool            `json:"is_live"`
	ScrapeOrder int             `json:"scrape_order"` // preserva a ordem da página de origem
	Selections  []SelectionOdds `json:"selections"`
	ScrapedAt   time.Time       `json:"scraped_at"`
	Source      string          `json:"source"`  // "feed-simulator"
	Version     int             `json:"version"` // incrementado a cada atualização
}
