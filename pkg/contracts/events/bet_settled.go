package events

import "time"

// Evento emitido pelo settlement-worker após liquidar uma aposta.
type BetSettled struct {
	BetID      string    `json:"betId"`
	Result     string    `json:"result"` // "won" | "lost"
	ProfitLoss float64   `json:"profitLoss"`
	NewBalance float64   `json:"newBalance,omitempty"`
	Ts         time.Time `json:"ts"`
}
