package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"solana-launch-alerts/internal/domain"
)

// DefaultNATSSubject is the subject alerts are published on.
const DefaultNATSSubject = "launches.alerts"

// Publisher is the subset of *nats.Conn used by NATSNotifier.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ConnectNATS dials a NATS server with reconnects enabled.
func ConnectNATS(url string, logger *log.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = log.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name("launch-alerts"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Printf("[nats] disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Printf("[nats] reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// NATSNotifier publishes alerts as JSON on a NATS subject.
type NATSNotifier struct {
	pub     Publisher
	subject string
}

// NewNATSNotifier creates a NATS notifier.
func NewNATSNotifier(pub Publisher, subject string) *NATSNotifier {
	if subject == "" {
		subject = DefaultNATSSubject
	}
	return &NATSNotifier{pub: pub, subject: subject}
}

// Name implements Notifier.
func (n *NATSNotifier) Name() string { return "nats" }

// Notify publishes the alert.
func (n *NATSNotifier) Notify(ctx context.Context, a Alert) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationDeliveryFailed, err)
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", domain.ErrNotificationDeliveryFailed, err)
	}
	if err := n.pub.Publish(n.subject, data); err != nil {
		return fmt.Errorf("%w: nats publish: %v", domain.ErrNotificationDeliveryFailed, err)
	}
	return nil
}
