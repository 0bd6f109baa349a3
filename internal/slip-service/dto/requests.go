package dto

// AddSelectionRequest adiciona uma perna ao boletim da sessão.
// Quando side = "lay" e lay não veio no snapshot, o caller manda só back_odds
// e o serviço aplica o markup sintético.
type AddSelectionRequest struct {
	EventID       string  `json:"eventId"`
	EventName     string  `json:"eventName"`
	SelectionName string  `json:"selectionName"`
	Side          string  `json:"side"` // "back" | "lay"
	Odds          float64 `json:"odds,omitempty"`
	BackOdds      float64 `json:"back_odds,omitempty"`
}

type UpdateStakeRequest struct {
	Stake string `json:"stake"` // texto cru, preserva digitação em andamento
}
