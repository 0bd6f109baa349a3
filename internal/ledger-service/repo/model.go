package repo

import "time"

// Bet é o modelo persistido no Postgres.
type Bet struct {
	ID              string
	EventID         string
	EventName       string
	SelectionName   string
	Side            string // "back" | "lay"
	Odds            float64
	Stake           float64
	PotentialReturn float64
	Liability       float64
	Status          string // "open" | "settled"
	Result          string // "won" | "lost" | ""
	ProfitLoss      *float64
	CreatedAt       time.Time
	SettledAt       *time.Time
}

// Transaction é uma linha do extrato da conta.
type Transaction struct {
	ID          int64
	Amount      float64
	Type        string // "bet_placed" | "bet_settlement" | "deposit" | "withdrawal"
	Description string
	BetID       *string
	CreatedAt   time.Time
}

// Stats agrega o desempenho da conta.
type Stats struct {
	TotalBets     int
	Pending       int
	Won           int
	Lost          int
	WinRate       float64
	TotalStaked   float64
	NetProfitLoss float64
}
