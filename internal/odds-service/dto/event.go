package dto

// OddsLine representa os preços de exchange de um resultado de um evento
type OddsLine struct {
	SelectionName string  `json:"selection_name"`
	BackOdds      float64 `json:"back_odds"`
	LayOdds       float64 `json:"lay_odds"`
	Liquidity     float64 `json:"liquidity,omitempty"`
	Version       int     `json:"version"`
	UpdatedAt     string  `json:"updated_at"`
}

// Event representa um evento esportivo com suas odds de exchange
type Event struct {
	EventID     string     `json:"event_id"`
	Sport       string     `json:"sport"`
	Competition string     `json:"competition,omitempty"`
	EventName   string     `json:"event_name"`
	StartTime   string     `json:"start_time,omitempty"`
	IsLive      bool       `json:"is_live"`
	ScrapeOrder int        `json:"scrape_order"`
	ScrapedAt   string     `json:"scraped_at"`
	Odds        []OddsLine `json:"odds"`
}

// Sport agrega a contagem de eventos por esporte
type Sport struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// FeedStatus expõe a idade do último snapshot recebido do feed
type FeedStatus struct {
	TotalEvents int            `json:"total_events"`
	LastUpdate  string         `json:"last_update,omitempty"`
	AgeSeconds  int            `json:"age_seconds"`
	IsFresh     bool           `json:"is_fresh"` // último snapshot com menos de 30 minutos
	Sports      map[string]int `json:"sports"`
}
