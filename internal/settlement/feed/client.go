package feed

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Result é a resposta do feed para GET /results/{eventID}
type Result struct {
	EventID  string `json:"event_id"`
	Finished bool   `json:"finished"`
	Winner   string `json:"winner,omitempty"`
}

// Client consulta resultados de eventos no feed-simulator
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

// Lookup consulta o resultado de um evento no feed
func (c *Client) Lookup(ctx context.Context, eventID string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/results/"+eventID, nil)
	if err != nil {
		return Result{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, errors.New("feed results http " + resp.Status)
	}
	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, err
	}
	return out, nil
}
