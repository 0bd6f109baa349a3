package dto

type PlaceBetRequest struct {
	EventID       string  `json:"eventId"`
	EventName     string  `json:"eventName,omitempty"`
	SelectionName string  `json:"selectionName"`
	Side          string  `json:"side"` // "back" | "lay"
	Odds          float64 `json:"odds"` // odd que o cliente viu
	Stake         float64 `json:"stake"`
}

type SettleRequest struct {
	Result string `json:"result"` // "won" | "lost"
}

type AmountRequest struct {
	Amount float64 `json:"amount"`
}
