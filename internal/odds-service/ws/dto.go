package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// EventID vazio em subscribe/unsubscribe inscreve/remove de todos os eventos
type ClientMsg struct {
	Type    string `json:"type"`
	EventID string `json:"event_id,omitempty"`
}

// OddsUpdate representa uma atualização de odds repassada aos clientes WebSocket.
// Payload carrega o snapshot completo do evento.
type OddsUpdate struct {
	EventID string      `json:"event_id"`
	Payload interface{} `json:"payload"`
}
