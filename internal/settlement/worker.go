package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sfeed "github.com/rqueiroz/exchange-betting-poc/internal/settlement/feed"
	sledger "github.com/rqueiroz/exchange-betting-poc/internal/settlement/ledger"
	"github.com/rqueiroz/exchange-betting-poc/pkg/contracts/events"
)

// maxSettleAttempts define quantas falhas de liquidação toleramos antes da DLQ
const maxSettleAttempts = 3

// ResultSource consulta o resultado de um evento (feed-simulator)
type ResultSource interface {
	Lookup(ctx context.Context, eventID string) (sfeed.Result, error)
}

// Settler liquida uma aposta no ledger
type Settler interface {
	Settle(ctx context.Context, betID, result string) (profitLoss, newBalance float64, err error)
}

// SettledPublisher publica eventos bet_settled
type SettledPublisher interface {
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// DLQWriter envia mensagens irrecuperáveis para a dead letter queue
type DLQWriter interface {
	Write(ctx context.Context, key string, payload []byte) error
}

type pendingBet struct {
	placed   events.BetPlaced
	raw      []byte
	attempts int
}

// Worker consome bets colocadas, aguarda o fim dos eventos e liquida cada
// perna no ledger conforme o vencedor informado pelo feed.
type Worker struct {
	Log          *zap.Logger
	Reader       *kafkago.Reader
	Results      ResultSource
	Ledger       Settler
	Publisher    SettledPublisher
	DLQ          DLQWriter // opcional
	PollInterval time.Duration

	OnSettled func(result string) // métricas
	OnDLQ     func()              // métricas

	mu      sync.Mutex
	pending map[string]*pendingBet
}

// Run inicia o consumo do Kafka e o loop periódico de liquidação
func (w *Worker) Run(ctx context.Context) error {
	if w.PollInterval <= 0 {
		w.PollInterval = 15 * time.Second
	}

	go w.consume(ctx)

	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

func (w *Worker) consume(ctx context.Context) {
	for {
		m, err := w.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.Log.Warn("kafka read failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var placed events.BetPlaced
		if err := json.Unmarshal(m.Value, &placed); err != nil {
			w.Log.Error("unmarshal bet_placed", zap.Error(err))
			continue
		}
		if placed.BetID == "" {
			continue
		}
		w.Enqueue(placed, m.Value)
	}
}

// Enqueue registra uma aposta aguardando o fim do evento
func (w *Worker) Enqueue(placed events.BetPlaced, raw []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		w.pending = make(map[string]*pendingBet)
	}
	if _, ok := w.pending[placed.BetID]; ok {
		return
	}
	w.pending[placed.BetID] = &pendingBet{placed: placed, raw: raw}
	w.Log.Info("bet queued for settlement",
		zap.String("betId", placed.BetID),
		zap.String("eventId", placed.EventID),
	)
}

// Pending retorna quantas apostas aguardam liquidação
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Sweep percorre as apostas pendentes e liquida as de eventos encerrados
func (w *Worker) Sweep(ctx context.Context) {
	w.mu.Lock()
	batch := make([]*pendingBet, 0, len(w.pending))
	for _, p := range w.pending {
		batch = append(batch, p)
	}
	w.mu.Unlock()

	for _, p := range batch {
		w.settleOne(ctx, p)
	}
}

func (w *Worker) settleOne(ctx context.Context, p *pendingBet) {
	res, err := w.Results.Lookup(ctx, p.placed.EventID)
	if err != nil {
		// feed indisponível; tenta de novo na próxima varredura
		w.Log.Warn("feed lookup failed",
			zap.String("betId", p.placed.BetID),
			zap.String("eventId", p.placed.EventID),
			zap.Error(err),
		)
		return
	}
	if !res.Finished {
		return
	}

	outcome := Decide(p.placed.Side, p.placed.SelectionName, res.Winner)

	profitLoss, newBalance, err := w.Ledger.Settle(ctx, p.placed.BetID, outcome)
	if err != nil {
		if errors.Is(err, sledger.ErrAlreadySettled) {
			w.drop(p.placed.BetID)
			return
		}
		p.attempts++
		w.Log.Warn("ledger settle failed",
			zap.String("betId", p.placed.BetID),
			zap.Int("attempts", p.attempts),
			zap.Error(err),
		)
		if p.attempts >= maxSettleAttempts {
			if w.DLQ != nil {
				if derr := w.DLQ.Write(ctx, p.placed.BetID, p.raw); derr != nil {
					w.Log.Error("dlq write failed", zap.String("betId", p.placed.BetID), zap.Error(derr))
					return // mantém pendente até conseguir gravar na DLQ
				}
			}
			if w.OnDLQ != nil {
				w.OnDLQ()
			}
			w.drop(p.placed.BetID)
		}
		return
	}

	if err := w.Publisher.PublishBetSettled(ctx, events.BetSettled{
		BetID:      p.placed.BetID,
		Result:     outcome,
		ProfitLoss: profitLoss,
		NewBalance: newBalance,
		Ts:         time.Now().UTC(),
	}); err != nil {
		w.Log.Warn("publish bet_settled", zap.String("betId", p.placed.BetID), zap.Error(err))
	}

	if w.OnSettled != nil {
		w.OnSettled(outcome)
	}
	w.Log.Info("bet settled",
		zap.String("betId", p.placed.BetID),
		zap.String("result", outcome),
		zap.Float64("profitLoss", profitLoss),
	)
	w.drop(p.placed.BetID)
}

func (w *Worker) drop(betID string) {
	w.mu.Lock()
	delete(w.pending, betID)
	w.mu.Unlock()
}
