package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver names accepted by messaging.driver.
const (
	DriverNSQ          = "nsq"
	DriverNATS         = "nats"
	DriverKafka        = "kafka"
	DriverGooglePubSub = "google-pubsub"
	DriverRabbitMQ     = "rabbitmq"
)

var (
	ErrUnknownDriver = errors.New("messaging: unknown driver")
	// ErrMissingOption is returned before connecting when the selected
	// broker has no address to dial.
	ErrMissingOption = errors.New("messaging: missing option")
)

// driverAliases accepts the spellings operators tend to type.
var driverAliases = map[string]string{
	"pubsub":   DriverGooglePubSub,
	"gcp":      DriverGooglePubSub,
	"amqp":     DriverRabbitMQ,
	"rabbit":   DriverRabbitMQ,
	"nats.io":  DriverNATS,
	"redpanda": DriverKafka,
}

// FactoryOptions carries every broker block; only the selected one is read.
type FactoryOptions struct {
	NSQ      NSQConfig
	Kafka    KafkaConfig
	NATS     NATSConfig
	PubSub   PubSubConfig
	RabbitMQ RabbitMQConfig
}

func driverName(driver string) string {
	name := strings.ToLower(strings.TrimSpace(driver))
	if alias, ok := driverAliases[name]; ok {
		return alias
	}
	return name
}

func (o FactoryOptions) required(driver string) (string, bool, error) {
	switch driver {
	case DriverNSQ:
		return "messaging.nsq.producer_addr", o.NSQ.ProducerAddr != "", nil
	case DriverKafka:
		return "messaging.kafka.brokers", len(o.Kafka.Brokers) > 0, nil
	case DriverNATS:
		return "messaging.nats.url", o.NATS.URL != "", nil
	case DriverGooglePubSub:
		return "messaging.pubsub.project_id", o.PubSub.ProjectID != "", nil
	case DriverRabbitMQ:
		return "messaging.rabbitmq.url", o.RabbitMQ.URL != "", nil
	default:
		return "", false, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// NewFromDriver connects the broker that carries notification events.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Messaging, error) {
	name := driverName(driver)

	key, ok, err := opts.required(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingOption, key)
	}

	switch name {
	case DriverNSQ:
		return NewNSQ(opts.NSQ)
	case DriverKafka:
		return NewKafka(opts.Kafka)
	case DriverNATS:
		return NewNATS(opts.NATS)
	case DriverGooglePubSub:
		return NewPubSub(ctx, opts.PubSub)
	default:
		return NewRabbitMQ(opts.RabbitMQ)
	}
}
