package slip

import (
	"math"
	"strconv"
	"strings"
)

// Side indica o lado da aposta na exchange.
type Side string

const (
	Back Side = "back" // aposta a favor do resultado
	Lay  Side = "lay"  // aposta contra o resultado
)

// LayMarkup é o fator aplicado sobre a odd de back quando o snapshot
// não traz preço de lay (placeholder sintético, igual ao feed de origem).
const LayMarkup = 1.02

// Selection é uma perna candidata do boletim: um resultado nomeado de um
// evento, com odd congelada no momento da seleção e stake digitado pelo usuário.
type Selection struct {
	ID            string  `json:"id"`
	EventID       string  `json:"eventId"`
	EventName     string  `json:"eventName"`
	SelectionName string  `json:"selectionName"`
	Odds          float64 `json:"odds"`
	Side          Side    `json:"side"`
	// Stake guarda o texto cru digitado pelo usuário ("12." enquanto digita);
	// a conversão numérica só acontece na leitura dos agregados e na validação.
	Stake string `json:"stake"`
}

// SelectionID deriva o id determinístico de uma perna.
// Garante no máximo uma entrada por (evento, resultado, lado).
func SelectionID(eventID, selectionName string, side Side) string {
	return eventID + "|" + selectionName + "|" + string(side)
}

// SyntheticLayOdds devolve a odd de lay sintética quando o feed só dá o back.
// Nunca fica abaixo do preço de back.
func SyntheticLayOdds(backOdds float64) float64 {
	return backOdds * LayMarkup
}

// ParsedStake converte o stake cru em número.
// Texto vazio, lixo ou valor não finito contam como zero.
func (s *Selection) ParsedStake() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s.Stake), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// HasValidStake informa se a perna está apta pra colocação (stake finito > 0).
func (s *Selection) HasValidStake() bool {
	return s.ParsedStake() > 0
}

// PotentialReturn calcula o retorno potencial da perna.
// Back: payout total (stake + lucro). Lay: o lucro é o próprio stake do backer.
func (s *Selection) PotentialReturn() float64 {
	st := s.ParsedStake()
	if s.Side == Lay {
		return st
	}
	return st * s.Odds
}

// Liability calcula a responsabilidade da perna.
// Só pernas de lay carregam liability; no back a perda máxima é o stake.
func (s *Selection) Liability() float64 {
	if s.Side != Lay {
		return 0
	}
	return s.ParsedStake() * (s.Odds - 1)
}

// RequiredFunds é o valor que precisa existir em saldo pra cobrir a perna:
// stake no back, liability no lay.
func (s *Selection) RequiredFunds() float64 {
	if s.Side == Lay {
		return s.Liability()
	}
	return s.ParsedStake()
}
