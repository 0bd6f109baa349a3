package topics

const (
	// Odds
	OddsSnapshots = "odds_snapshots"

	// Bets
	BetPlaced  = "bet_placed"
	BetSettled = "bet_settled"

	// DLQs
	BetPlacedDLQ = "bet_placed_dlq"
)
