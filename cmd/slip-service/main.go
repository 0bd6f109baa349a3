package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rqueiroz/exchange-betting-poc/internal/shared/config"
	"github.com/rqueiroz/exchange-betting-poc/internal/shared/logger"
	"github.com/rqueiroz/exchange-betting-poc/internal/shared/metrics"
	shttp "github.com/rqueiroz/exchange-betting-poc/internal/slip-service/http"
	"github.com/rqueiroz/exchange-betting-poc/internal/slip-service/ledger"
	"github.com/rqueiroz/exchange-betting-poc/internal/slip-service/store"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// deps: sessões de boletim em memória + cliente do ledger
	slips := store.New()
	lcli := ledger.New(cfg.LedgerURL)

	prometheus.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "slip_active_sessions",
		Help: "Sessões de boletim ativas",
	}, func() float64 { return float64(slips.Len()) }))

	api := shttp.NewServer(log, slips, lcli)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health; o serviço é stateless, health só confirma o processo vivo
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	log.Info("slip-service listening",
		zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)),
		zap.String("ledger", cfg.LedgerURL),
	)
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
