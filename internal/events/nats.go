package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bank_transactions/internal/domain"
	"bank_transactions/internal/logger"

	"github.com/nats-io/nats.go"
)

// ConnectNATS dials url and keeps reconnecting in the background if the server drops
func ConnectNATS(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("bank-transactions"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
}

// NATSPublisher sends every event as JSON on <prefix>.<action>, e.g. transactions.created
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(conn *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

func (p *NATSPublisher) Subject(action string) string {
	return p.prefix + "." + action
}

func (p *NATSPublisher) Publish(_ context.Context, event domain.TransactionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.conn.Publish(p.Subject(event.Action), payload); err != nil {
		return fmt.Errorf("publish %s: %w", p.Subject(event.Action), err)
	}
	return nil
}
