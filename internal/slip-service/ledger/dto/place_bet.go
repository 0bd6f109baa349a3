package dto

// PlaceBetRequest representa o payload de uma perna enviada ao ledger-service.
type PlaceBetRequest struct {
	EventID       string  `json:"eventId"`
	EventName     string  `json:"eventName,omitempty"`
	SelectionName string  `json:"selectionName"`
	Side          string  `json:"side"`
	Odds          float64 `json:"odds"`
	Stake         float64 `json:"stake"`
}

// PlaceBetResponse representa a resposta do ledger-service.
type PlaceBetResponse struct {
	Success    bool    `json:"success"`
	BetID      string  `json:"bet_id,omitempty"`
	NewBalance float64 `json:"new_balance"`
	Error      string  `json:"error,omitempty"`
}

type BalanceResponse struct {
	Balance   float64 `json:"balance"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}
