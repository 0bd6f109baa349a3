package dto

import "github.com/rqueiroz/exchange-betting-poc/internal/slip"

// Totals são os agregados derivados do boletim, recalculados a cada leitura.
type Totals struct {
	Stake           float64 `json:"totalStake"`
	PotentialReturn float64 `json:"totalPotentialReturn"`
	Liability       float64 `json:"totalLiability"`
	Required        float64 `json:"totalRequired"`
}

type SlipResponse struct {
	SessionID  string           `json:"sessionId"`
	Selections []slip.Selection `json:"selections"`
	Totals     Totals           `json:"totals"`
	Placing    bool             `json:"placing"`
}

type PlaceResponse struct {
	Success    bool     `json:"success"`
	LegsPlaced int      `json:"legs_placed"`
	LegsTotal  int      `json:"legs_total"`
	NewBalance *float64 `json:"new_balance,omitempty"`
	Error      string   `json:"error,omitempty"`
	Required   float64  `json:"required,omitempty"`
	Available  float64  `json:"available,omitempty"`
}
