package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rqueiroz/exchange-betting-poc/internal/odds-ingest/publisher"
	"github.com/rqueiroz/exchange-betting-poc/pkg/contracts/events"
)

// WSClient consome snapshots de odds do feed via WebSocket
// e publica cada snapshot recebido no tópico Kafka.
type WSClient struct {
	URL       string
	Log       *zap.Logger
	Publisher *publisher.KafkaPublisher

	OnReceived func() // métricas
	OnInvalid  func() // métricas
}

// Start inicia o loop de conexão e escuta do WebSocket.
// Em caso de desconexão, tenta reconectar automaticamente com backoff.
func (c *WSClient) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			c.Log.Info("context canceled, stopping WS client")
			return
		default:
			if err := c.connectAndListen(ctx); err != nil {
				c.Log.Warn("connection closed", zap.Error(err))
				time.Sleep(3 * time.Second)
			}
		}
	}
}

// connectAndListen estabelece a conexão WebSocket e processa mensagens recebidas.
func (c *WSClient) connectAndListen(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	c.Log.Info("connected to odds feed WS", zap.String("url", c.URL))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) || errors.Is(err, context.Canceled) {
				return nil
			}
			c.Log.Error("read message failed", zap.Error(err))
			return err
		}

		if c.OnReceived != nil {
			c.OnReceived()
		}

		var snap events.OddsSnapshot
		if err := json.Unmarshal(message, &snap); err != nil {
			c.Log.Warn("invalid message", zap.Error(err))
			if c.OnInvalid != nil {
				c.OnInvalid()
			}
			continue
		}
		if snap.EventID == "" {
			c.Log.Warn("snapshot without event_id, skipping")
			if c.OnInvalid != nil {
				c.OnInvalid()
			}
			continue
		}

		if err := c.Publisher.Publish(ctx, snap); err != nil {
			c.Log.Error("failed to publish to Kafka", zap.Error(err))
		}
	}
}
