package settlement

// Decide resolve o resultado de uma perna a partir do vencedor do evento.
// Back ganha quando a seleção apostada vence; lay ganha quando qualquer
// outra seleção vence.
func Decide(side, selectionName, winner string) string {
	backed := selectionName == winner
	if side == "lay" {
		if backed {
			return "lost"
		}
		return "won"
	}
	if backed {
		return "won"
	}
	return "lost"
}
