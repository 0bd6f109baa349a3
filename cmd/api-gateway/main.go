package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/rqueiroz/exchange-betting-poc/internal/shared/config"
	"github.com/rqueiroz/exchange-betting-poc/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

// newMux monta o roteamento do gateway. Cada recurso registra o caminho exato
// além da subárvore: sem isso o ServeMux responde 301 pro caminho com barra,
// e o redirect derruba o body de um POST.
func newMux(odds, ledger, slip http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// odds (ex.: /api/odds/v1/events -> odds-service)
	mux.Handle("/api/odds/", http.StripPrefix("/api/odds", odds))

	// boletim de apostas (ex.: /api/slips/* -> slip-service /v1/slips/*)
	mux.Handle("/api/slips", http.StripPrefix("/api", slip))
	mux.Handle("/api/slips/", http.StripPrefix("/api", slip))

	// ledger: apostas persistidas e saldo
	mux.Handle("/api/bets", http.StripPrefix("/api", ledger))
	mux.Handle("/api/bets/", http.StripPrefix("/api", ledger))
	mux.Handle("/api/balance", http.StripPrefix("/api", ledger))
	mux.Handle("/api/balance/", http.StripPrefix("/api", ledger))

	return mux
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	oddsURL := os.Getenv("ODDS_URL")
	if oddsURL == "" {
		oddsURL = "http://localhost:8080"
	}
	ledgerURL := os.Getenv("LEDGER_URL")
	if ledgerURL == "" {
		ledgerURL = "http://localhost:8082"
	}
	slipURL := os.Getenv("SLIP_URL")
	if slipURL == "" {
		slipURL = "http://localhost:8083/v1"
	}

	mux := newMux(rp(oddsURL), rp(ledgerURL), rp(slipURL))

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
