package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rqueiroz/exchange-betting-poc/internal/settlement"
	sfeed "github.com/rqueiroz/exchange-betting-poc/internal/settlement/feed"
	sledger "github.com/rqueiroz/exchange-betting-poc/internal/settlement/ledger"
	"github.com/rqueiroz/exchange-betting-poc/internal/shared/config"
	"github.com/rqueiroz/exchange-betting-poc/internal/shared/kafka"
	"github.com/rqueiroz/exchange-betting-poc/internal/shared/logger"
	"github.com/rqueiroz/exchange-betting-poc/pkg/contracts/events"
)

// kafkaSettledPublisher publica bet_settled via writer compartilhado
type kafkaSettledPublisher struct {
	writer *kafkago.Writer
}

func (p *kafkaSettledPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	b, _ := json.Marshal(e)
	return kafka.WriteJSON(ctx, p.writer, e.BetID, b)
}

// kafkaDLQ grava mensagens irrecuperáveis no tópico de DLQ
type kafkaDLQ struct {
	writer *kafkago.Writer
}

func (d *kafkaDLQ) Write(ctx context.Context, key string, payload []byte) error {
	return kafka.WriteJSON(ctx, d.writer, key, payload)
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Consumer de bet_placed (consumer group settlement-worker)
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicBetPlaced, "settlement-worker")
	defer reader.Close()

	// Producers: bet_settled e DLQ
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()

	var dlq settlement.DLQWriter
	if cfg.TopicBetPlacedDLQ != "" {
		dlqWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlacedDLQ)
		defer dlqWriter.Close()
		dlq = &kafkaDLQ{writer: dlqWriter}
	}

	// Métricas de liquidação
	settled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_bets_settled_total",
		Help: "apostas liquidadas por resultado",
	}, []string{"result"})
	dlqTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_dlq_total",
		Help: "apostas enviadas para DLQ",
	})
	prometheus.MustRegister(settled, dlqTotal)

	worker := &settlement.Worker{
		Log:          log,
		Reader:       reader,
		Results:      sfeed.NewClient(cfg.FeedBaseURL),
		Ledger:       sledger.NewClient(cfg.LedgerURL),
		Publisher:    &kafkaSettledPublisher{writer: settledWriter},
		DLQ:          dlq,
		PollInterval: 15 * time.Second,
		OnSettled:    func(result string) { settled.WithLabelValues(result).Inc() },
		OnDLQ:        func() { dlqTotal.Inc() },
	}

	// Servidor HTTP para métricas e health check
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := ":" + cfg.MetricsPort
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("settlement-worker started",
		zap.String("consume", cfg.TopicBetPlaced),
		zap.String("publish", cfg.TopicBetSettled),
		zap.String("feed", cfg.FeedBaseURL),
	)
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("worker stopped with error", zap.Error(err))
	}
	log.Info("settlement-worker stopped")
}
