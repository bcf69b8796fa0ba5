package alert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"solana-launch-alerts/internal/domain"
)

// DefaultKafkaTopic is the topic alerts are produced to.
const DefaultKafkaTopic = "launch-alerts"

// NewKafkaProducer creates a synchronous producer for a comma-separated broker list.
func NewKafkaProducer(brokersCSV string) (sarama.SyncProducer, error) {
	brokers := splitCSV(brokersCSV)
	if len(brokers) == 0 {
		return nil, errors.New("no brokers")
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Retry.Backoff = 200 * time.Millisecond
	// SyncProducer requires Return.Successes.
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Version = sarama.V2_1_0_0

	return sarama.NewSyncProducer(brokers, cfg)
}

// KafkaNotifier produces alerts as JSON keyed by mint address.
type KafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaNotifier creates a Kafka notifier.
func NewKafkaNotifier(producer sarama.SyncProducer, topic string) *KafkaNotifier {
	if topic == "" {
		topic = DefaultKafkaTopic
	}
	return &KafkaNotifier{producer: producer, topic: topic}
}

// Name implements Notifier.
func (n *KafkaNotifier) Name() string { return "kafka" }

// Notify sends the alert and waits for the broker ack.
func (n *KafkaNotifier) Notify(ctx context.Context, a Alert) error {
	// SyncProducer takes no context; only check it before sending.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNotificationDeliveryFailed, err)
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", domain.ErrNotificationDeliveryFailed, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(a.Mint),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := n.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("%w: kafka: %v", domain.ErrNotificationDeliveryFailed, err)
	}
	return nil
}

// Close closes the underlying producer.
func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, x := range parts {
		x = strings.TrimSpace(x)
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}
