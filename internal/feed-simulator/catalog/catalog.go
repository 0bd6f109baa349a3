package catalog

// Entry descreve um evento fixo do catálogo simulado.
// BaseOdds são os preços de referência em torno dos quais as odds oscilam.
type Entry struct {
	EventID     string
	Sport       string
	Competition string
	EventName   string
	IsLive      bool
	ScrapeOrder int
	Selections  []Selection
}

type Selection struct {
	Name     string
	BaseOdds float64
}

// Events retorna o catálogo fixo de eventos simulados, em ordem de página
func Events() []Entry {
	return []Entry{
		{
			EventID: "MATCH_001", Sport: "futebol", Competition: "Brasileirão Série A",
			EventName: "Flamengo v Palmeiras", IsLive: true, ScrapeOrder: 1,
			Selections: []Selection{
				{Name: "Flamengo", BaseOdds: 2.10},
				{Name: "The Draw", BaseOdds: 3.40},
				{Name: "Palmeiras", BaseOdds: 3.10},
			},
		},
		{
			EventID: "MATCH_002", Sport: "futebol", Competition: "Brasileirão Série A",
			EventName: "Grêmio v Internacional", IsLive: true, ScrapeOrder: 2,
			Selections: []Selection{
				{Name: "Grêmio", BaseOdds: 2.60},
				{Name: "The Draw", BaseOdds: 3.10},
				{Name: "Internacional", BaseOdds: 2.75},
			},
		},
		{
			EventID: "MATCH_003", Sport: "futebol", Competition: "Brasileirão Série A",
			EventName: "Corinthians v Santos", IsLive: false, ScrapeOrder: 3,
			Selections: []Selection{
				{Name: "Corinthians", BaseOdds: 1.95},
				{Name: "The Draw", BaseOdds: 3.30},
				{Name: "Santos", BaseOdds: 3.80},
			},
		},
		{
			EventID: "TENNIS_001", Sport: "tênis", Competition: "ATP Masters",
			EventName: "Alcaraz v Sinner", IsLive: true, ScrapeOrder: 4,
			Selections: []Selection{
				{Name: "Alcaraz", BaseOdds: 1.85},
				{Name: "Sinner", BaseOdds: 1.95},
			},
		},
		{
			EventID: "BASKET_001", Sport: "basquete", Competition: "NBB",
			EventName: "Flamengo Basquete v Franca", IsLive: false, ScrapeOrder: 5,
			Selections: []Selection{
				{Name: "Flamengo Basquete", BaseOdds: 1.70},
				{Name: "Franca", BaseOdds: 2.15},
			},
		},
	}
}
