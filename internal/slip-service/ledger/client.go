package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rqueiroz/exchange-betting-poc/internal/slip"
	ledgerdto "github.com/rqueiroz/exchange-betting-poc/internal/slip-service/ledger/dto"
)

// Client fala com o ledger-service (carteira + apostas persistidas).
// Sem retry por contrato: o loop de colocação para na primeira falha.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// PlaceBet registra uma perna no ledger e devolve o saldo atualizado.
// Qualquer resposta não-2xx ou success=false conta como falha da perna.
func (c *Client) PlaceBet(ctx context.Context, req slip.PlaceRequest) (float64, error) {
	body, _ := json.Marshal(ledgerdto.PlaceBetRequest{
		EventID:       req.EventID,
		EventName:     req.EventName,
		SelectionName: req.SelectionName,
		Side:          string(req.Side),
		Odds:          req.Odds,
		Stake:         req.Stake,
	})
	hreq, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/bets", bytes.NewReader(body))
	hreq.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(hreq)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	var out ledgerdto.PlaceBetResponse
	if decErr := json.NewDecoder(res.Body).Decode(&out); decErr != nil && res.StatusCode < 300 {
		return 0, decErr
	}
	if res.StatusCode >= 300 || !out.Success {
		if out.Error != "" {
			return 0, fmt.Errorf("ledger rejected bet: %s", out.Error)
		}
		return 0, fmt.Errorf("ledger place bet http %d", res.StatusCode)
	}
	return out.NewBalance, nil
}

// Balance lê o saldo corrente da conta.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	hreq, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/balance", nil)
	res, err := c.HTTP.Do(hreq)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return 0, fmt.Errorf("ledger balance http %d", res.StatusCode)
	}
	var out ledgerdto.BalanceResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}
