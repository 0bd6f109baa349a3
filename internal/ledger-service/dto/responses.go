package dto

import "time"

type PlaceBetResponse struct {
	Success    bool    `json:"success"`
	BetID      string  `json:"bet_id,omitempty"`
	NewBalance float64 `json:"new_balance,omitempty"`
	Error      string  `json:"error,omitempty"`
	Required   float64 `json:"required,omitempty"`
	Available  float64 `json:"available,omitempty"`
}

type BalanceResponse struct {
	Balance   float64 `json:"balance"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

type BetResponse struct {
	ID              string     `json:"id"`
	EventID         string     `json:"event_id"`
	EventName       string     `json:"event_name,omitempty"`
	SelectionName   string     `json:"selection_name"`
	Side            string     `json:"side"`
	Odds            float64    `json:"odds"`
	Stake           float64    `json:"stake"`
	PotentialReturn float64    `json:"potential_return"`
	Liability       float64    `json:"liability"`
	Status          string     `json:"status"`
	Result          string     `json:"result,omitempty"`
	ProfitLoss      *float64   `json:"profit_loss,omitempty"`
	PlacedAt        time.Time  `json:"placed_at"`
	SettledAt       *time.Time `json:"settled_at,omitempty"`
}

type HistoryResponse struct {
	Bets []BetResponse `json:"bets"`
}

type SettleResponse struct {
	Success    bool    `json:"success"`
	BetID      string  `json:"bet_id"`
	Result     string  `json:"result"`
	ProfitLoss float64 `json:"profit_loss"`
	NewBalance float64 `json:"new_balance"`
}

type StatsResponse struct {
	TotalBets     int     `json:"total_bets"`
	Pending       int     `json:"pending"`
	Won           int     `json:"won"`
	Lost          int     `json:"lost"`
	WinRate       float64 `json:"win_rate"`
	TotalStaked   float64 `json:"total_staked"`
	NetProfitLoss float64 `json:"net_profit_loss"`
}

type TransactionResponse struct {
	ID          int64     `json:"id"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"transaction_type"`
	Description string    `json:"description,omitempty"`
	BetID       *string   `json:"bet_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
