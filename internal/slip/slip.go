package slip

import "sync"

// Slip é o boletim de apostas de uma sessão: coleção ordenada de seleções,
// ordem de inserção = ordem de exibição = ordem de submissão.
//
// O boletim pertence a uma única sessão (single-writer); o mutex existe porque
// o servidor HTTP pode receber requisições simultâneas da mesma sessão.
type Slip struct {
	mu         sync.Mutex
	selections []*Selection
	inflight   bool // guarda de concorrência: cobre PlaceAll do início ao fim
	placing    bool // estado visível: só depois de todas as pré-condições
}

func New() *Slip {
	return &Slip{}
}

// Add acrescenta uma seleção ao boletim com stake vazio.
// Se já existir seleção com o mesmo id derivado, a chamada é no-op:
// a entrada original (inclusive stake e odd antiga) é preservada.
func (b *Slip) Add(eventID, eventName, selectionName string, odds float64, side Side) *Selection {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := SelectionID(eventID, selectionName, side)
	for _, s := range b.selections {
		if s.ID == id {
			return s // duplicado: primeira ocorrência vence
		}
	}

	sel := &Selection{
		ID:            id,
		EventID:       eventID,
		EventName:     eventName,
		SelectionName: selectionName,
		Odds:          odds,
		Side:          side,
	}
	b.selections = append(b.selections, sel)
	return sel
}

// Remove tira a seleção do boletim se presente; no-op caso contrário.
func (b *Slip) Remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.selections {
		if s.ID == id {
			b.selections = append(b.selections[:i], b.selections[i+1:]...)
			return
		}
	}
}

// UpdateStake guarda o valor cru digitado, sem coerção numérica.
// Validação só acontece na colocação.
func (b *Slip) UpdateStake(id string, raw string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.selections {
		if s.ID == id {
			s.Stake = raw
			return true
		}
	}
	return false
}

// Clear esvazia o boletim incondicionalmente.
func (b *Slip) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selections = nil
}

// Selections devolve uma cópia da lista na ordem de inserção.
func (b *Slip) Selections() []Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Slip) snapshotLocked() []Selection {
	out := make([]Selection, len(b.selections))
	for i, s := range b.selections {
		out[i] = *s
	}
	return out
}

// Len devolve o número de seleções no boletim.
func (b *Slip) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.selections)
}

// Placing informa se há um loop de colocação em andamento. Só vira true
// depois que todas as pré-condições passaram; durante a validação continua
// false, mesmo com uma chamada de PlaceAll em voo.
func (b *Slip) Placing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.placing
}

// Agregados derivados: sempre recalculados da lista corrente, nunca cacheados.

// TotalStake soma os stakes parseados de todas as pernas, back e lay.
func (b *Slip) TotalStake() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var total float64
	for _, s := range b.selections {
		total += s.ParsedStake()
	}
	return total
}

// TotalReturn soma os retornos potenciais por perna.
func (b *Slip) TotalReturn() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var total float64
	for _, s := range b.selections {
		total += s.PotentialReturn()
	}
	return total
}

// TotalLiability soma as liabilities das pernas de lay.
func (b *Slip) TotalLiability() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var total float64
	for _, s := range b.selections {
		total += s.Liability()
	}
	return total
}

// TotalRequired é o valor checado contra o saldo antes da colocação:
// stake nas pernas de back, liability nas de lay. Difere de TotalStake.
func (b *Slip) TotalRequired() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	var total float64
	for _, s := range b.selections {
		total += s.RequiredFunds()
	}
	return total
}
