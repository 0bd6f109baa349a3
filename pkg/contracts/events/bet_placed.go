package events

type BetPlaced struct {
	BetID         string  `json:"bet_id"`
	EventID       string  `json:"event_id"`
	EventName     string  `json:"event_name,omitempty"`
	SelectionName string  `json:"selection_name"`
	Side          string  `json:"side"` // "back" | "lay"
	Odds          float64 `json:"odds"`
	Stake         float64 `json:"stake"`
	Required      float64 `json:"required"` // valor debitado: stake (back) ou liability (lay)
	TsUnixMs      int64   `json:"ts_unix_ms"`
}
