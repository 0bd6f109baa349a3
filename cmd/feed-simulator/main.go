package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rqueiroz/exchange-betting-poc/internal/feed-simulator/generator"
	"github.com/rqueiroz/exchange-betting-poc/internal/feed-simulator/hub"
	"github.com/rqueiroz/exchange-betting-poc/internal/feed-simulator/results"
	"github.com/rqueiroz/exchange-betting-poc/internal/shared/config"
	"github.com/rqueiroz/exchange-betting-poc/internal/shared/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	h := hub.New(log)
	gen := generator.New(cfg.ServiceName, time.Now().UnixNano())
	oracle := results.NewOracle(2*time.Minute, time.Now().UnixNano())

	// Gera e envia snapshots para todos os clientes conectados a cada 3 segundos
	go func() {
		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			for _, snap := range gen.Next() {
				h.Broadcast(snap)
			}
		}
	}()

	// ==== Servidor público: /ws e /results/{eventID}
	appMux := chi.NewRouter()

	appMux.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn("ws upgrade failed", zap.Error(err))
			return
		}
		id := fmt.Sprintf("%d", time.Now().UnixNano())
		h.Add(id, conn)

		// Mantém a conexão viva e remove o cliente ao desconectar
		go func() {
			defer func() {
				h.Remove(id)
				_ = conn.Close()
			}()
			_ = conn.SetReadDeadline(time.Time{})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	appMux.Get("/results/{eventID}", oracle.Handler)

	// ==== Servidor de métricas: /healthz, /metrics
	metricsMux := http.NewServeMux()
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	metricsMux.Handle("/metrics", promhttp.Handler())

	go func() {
		metricsAddr := fmt.Sprintf(":%s", cfg.MetricsPort)
		log.Info("feed simulator (metrics) running", zap.String("addr", metricsAddr))
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Fatal("metrics server error", zap.Error(err))
		}
	}()

	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("feed simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/ws,/results/{eventID}"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
