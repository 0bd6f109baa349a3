package slip

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrEmptySlip         = errors.New("empty slip")
	ErrPlacementInFlight = errors.New("placement already in progress")
)

// MissingStakeError indica perna sem stake válido; bloqueia o boletim inteiro,
// nunca colocação parcial.
type MissingStakeError struct {
	SelectionID   string
	SelectionName string
}

func (e *MissingStakeError) Error() string {
	return fmt.Sprintf("selection %q has no valid stake", e.SelectionName)
}

// InsufficientBalanceError carrega o valor exigido e o disponível pra exibição.
type InsufficientBalanceError struct {
	Required  float64
	Available float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %.2f, available %.2f", e.Required, e.Available)
}

// LegFailure embrulha o erro da primeira perna que falhou no loop sequencial.
type LegFailure struct {
	Index         int // posição da perna no boletim
	SelectionID   string
	SelectionName string
	Err           error
}

func (e *LegFailure) Error() string {
	return fmt.Sprintf("leg %d (%s) failed: %v", e.Index, e.SelectionName, e.Err)
}

func (e *LegFailure) Unwrap() error { return e.Err }

// PlaceRequest é o payload de uma perna enviada ao ledger.
type PlaceRequest struct {
	EventID       string
	EventName     string
	SelectionName string
	Side          Side
	Odds          float64
	Stake         float64
}

// Ledger é o cliente do serviço de carteira/apostas visto pelo boletim.
type Ledger interface {
	// PlaceBet registra uma perna e devolve o saldo atualizado.
	PlaceBet(ctx context.Context, req PlaceRequest) (newBalance float64, err error)
	// Balance lê o saldo corrente da conta.
	Balance(ctx context.Context) (float64, error)
}

// PlaceResult resume o desfecho do loop de colocação.
type PlaceResult struct {
	LegsPlaced int      // pernas efetivamente submetidas com sucesso
	LegsTotal  int      // pernas no boletim no início do loop
	NewBalance *float64 // saldo relido após sucesso total (best effort)
}

// PlaceAll valida e submete as pernas sequencialmente, na ordem do boletim.
//
// Pré-condições, nessa ordem e antes de qualquer chamada de rede:
//  1. boletim não vazio
//  2. todas as pernas com stake finito > 0
//  3. saldo (quando legível) >= TotalRequired
//
// O loop para na primeira falha: pernas já enviadas ficam colocadas (sem
// rollback compensatório) e as seguintes nunca são tentadas. Em sucesso total
// o boletim é limpo e o saldo é relido do ledger (leitura separada, nunca
// derivada das respostas de colocação).
//
// O boletim só entra em estado "placing" depois que todas as pré-condições
// passaram; a rejeição de chamadas concorrentes usa uma guarda própria que
// cobre a chamada inteira, validação inclusive.
func (b *Slip) PlaceAll(ctx context.Context, ledger Ledger) (PlaceResult, error) {
	b.mu.Lock()
	if b.inflight {
		b.mu.Unlock()
		return PlaceResult{}, ErrPlacementInFlight
	}

	if len(b.selections) == 0 {
		b.mu.Unlock()
		return PlaceResult{}, ErrEmptySlip
	}
	for _, s := range b.selections {
		if !s.HasValidStake() {
			err := &MissingStakeError{SelectionID: s.ID, SelectionName: s.SelectionName}
			b.mu.Unlock()
			return PlaceResult{}, err
		}
	}

	var required float64
	for _, s := range b.selections {
		required += s.RequiredFunds()
	}

	legs := b.snapshotLocked()
	b.inflight = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.inflight = false
		b.placing = false
		b.mu.Unlock()
	}()

	// Checagem de saldo: leitura best effort. Se o ledger não responder,
	// a validação local é pulada e o próprio ledger rejeita na colocação.
	if balance, err := ledger.Balance(ctx); err == nil {
		if required > balance {
			return PlaceResult{}, &InsufficientBalanceError{Required: required, Available: balance}
		}
	}

	b.mu.Lock()
	b.placing = true
	b.mu.Unlock()

	res := PlaceResult{LegsTotal: len(legs)}
	for i, s := range legs {
		_, err := ledger.PlaceBet(ctx, PlaceRequest{
			EventID:       s.EventID,
			EventName:     s.EventName,
			SelectionName: s.SelectionName,
			Side:          s.Side,
			Odds:          s.Odds,
			Stake:         s.ParsedStake(),
		})
		if err != nil {
			// para imediatamente; estado parcial fica como está
			return res, &LegFailure{Index: i, SelectionID: s.ID, SelectionName: s.SelectionName, Err: err}
		}
		res.LegsPlaced++
	}

	b.Clear()

	// Releitura do saldo após sucesso; falha aqui não derruba a colocação.
	if balance, err := ledger.Balance(ctx); err == nil {
		res.NewBalance = &balance
	}

	return res, nil
}
