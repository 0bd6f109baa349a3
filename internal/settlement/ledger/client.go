package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// ErrAlreadySettled indica que o ledger já liquidou a aposta (409)
var ErrAlreadySettled = errors.New("bet already settled")

type settleRequest struct {
	Result string `json:"result"`
}

type settleResponse struct {
	Success    bool    `json:"success"`
	ProfitLoss float64 `json:"profit_loss"`
	NewBalance float64 `json:"new_balance"`
	Error      string  `json:"error,omitempty"`
}

// Client chama o endpoint de liquidação do ledger-service
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Settle liquida uma aposta como won/lost no ledger
func (c *Client) Settle(ctx context.Context, betID, result string) (profitLoss, newBalance float64, err error) {
	body, _ := json.Marshal(settleRequest{Result: result})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/bets/"+betID+"/settle", bytes.NewReader(body))
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return 0, 0, ErrAlreadySettled
	}
	if resp.StatusCode != http.StatusOK {
		return 0, 0, errors.New("ledger settle http " + resp.Status)
	}

	var out settleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, 0, err
	}
	if !out.Success {
		return 0, 0, errors.New("ledger settle failed: " + out.Error)
	}
	return out.ProfitLoss, out.NewBalance, nil
}
