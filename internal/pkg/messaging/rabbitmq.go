package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrRabbitMQURLRequired is returned when the AMQP URL is missing.
	ErrRabbitMQURLRequired = errors.New("messaging: rabbitmq url is required")
	// ErrRabbitMQQueueRequired is returned when Consume has no queue name.
	ErrRabbitMQQueueRequired = errors.New("messaging: rabbitmq queue is required")
)

// RabbitMQConfig configures the RabbitMQ implementation.
type RabbitMQConfig struct {
	URL string
	// Exchange is the durable topic exchange events are routed through.
	Exchange string
	// DelayedExchange, when set, names an x-delayed-message exchange used for
	// messages with a Delay. It requires the delayed message plugin.
	DelayedExchange string
}

// RabbitMQ routes messages through a topic exchange using the destination as
// routing key. Each consumer gets a durable queue bound to its source.
type RabbitMQ struct {
	cfg  RabbitMQConfig
	conn *amqp.Connection

	pubMu sync.Mutex
	pubCh *amqp.Channel

	mu     sync.Mutex
	closed bool
}

// NewRabbitMQ dials the broker and declares the exchanges.
func NewRabbitMQ(cfg RabbitMQConfig) (*RabbitMQ, error) {
	if cfg.URL == "" {
		return nil, ErrRabbitMQURLRequired
	}
	if cfg.Exchange == "" {
		cfg.Exchange = "gonotif.events"
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("messaging: rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, errors.Join(fmt.Errorf("messaging: rabbitmq channel: %w", err), conn.Close())
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, errors.Join(fmt.Errorf("messaging: rabbitmq declare exchange: %w", err), conn.Close())
	}
	if cfg.DelayedExchange != "" {
		args := amqp.Table{"x-delayed-type": amqp.ExchangeTopic}
		if err := ch.ExchangeDeclare(cfg.DelayedExchange, "x-delayed-message", true, false, false, false, args); err != nil {
			return nil, errors.Join(fmt.Errorf("messaging: rabbitmq declare delayed exchange: %w", err), conn.Close())
		}
	}

	return &RabbitMQ{cfg: cfg, conn: conn, pubCh: ch}, nil
}

// Close closes the connection and every channel opened on it.
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.conn.Close()
}

// Publish sends a persistent message with destination as routing key.
func (r *RabbitMQ) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if destination == "" {
		return PublishResult{}, ErrDestinationRequired
	}

	exchange := r.cfg.Exchange
	headers := amqp.Table{}
	for _, h := range msg.Headers {
		if h.Key != "" {
			headers[h.Key] = string(h.Value)
		}
	}
	if msg.Delay > 0 {
		if r.cfg.DelayedExchange == "" {
			return PublishResult{}, ErrUnsupported
		}
		exchange = r.cfg.DelayedExchange
		headers["x-delay"] = msg.Delay.Milliseconds()
	}

	now := time.Now()
	pub := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    now,
		Headers:      headers,
		Body:         msg.Body,
	}

	r.pubMu.Lock()
	err := r.pubCh.PublishWithContext(ctx, exchange, destination, false, false, pub)
	r.pubMu.Unlock()
	if err != nil {
		return PublishResult{}, fmt.Errorf("messaging: rabbitmq publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: now}, nil
}

// Consume declares the queue from WithQueue, binds it to source and feeds
// deliveries to handler. Nack requeues the delivery.
func (r *RabbitMQ) Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error {
	if err := validateConsume(ctx, source, handler); err != nil {
		return err
	}
	co := newConsumeOptions(opts...)
	if co.queue == "" {
		return ErrRabbitMQQueueRequired
	}

	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return io.ErrClosedPipe
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return fmt.Errorf("messaging: rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if err := ch.Qos(max(co.maxInFlight, co.concurrency), 0, false); err != nil {
		return fmt.Errorf("messaging: rabbitmq qos: %w", err)
	}
	if _, err := ch.QueueDeclare(co.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("messaging: rabbitmq declare queue: %w", err)
	}
	for _, exchange := range []string{r.cfg.Exchange, r.cfg.DelayedExchange} {
		if exchange == "" {
			continue
		}
		if err := ch.QueueBind(co.queue, source, exchange, false, nil); err != nil {
			return fmt.Errorf("messaging: rabbitmq bind queue: %w", err)
		}
	}

	deliveries, err := ch.ConsumeWithContext(ctx, co.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("messaging: rabbitmq consume: %w", err)
	}

	var wg sync.WaitGroup
	for range co.concurrency {
		wg.Go(func() {
			for d := range deliveries {
				//nolint:errcheck // a failed ack surfaces as a redelivery
				_ = dispatch(ctx, "rabbitmq", &rabbitMessage{topic: source, d: d}, handler, co.autoAck)
			}
		})
	}
	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("messaging: rabbitmq deliveries closed: %w", io.ErrUnexpectedEOF)
}

type rabbitMessage struct {
	topic string
	d     amqp.Delivery
	acked responseGuard
}

func (m *rabbitMessage) Body() []byte { return m.d.Body }

func (m *rabbitMessage) Headers() []Header {
	headers := make([]Header, 0, len(m.d.Headers))
	for k, v := range m.d.Headers {
		switch val := v.(type) {
		case string:
			headers = append(headers, Header{Key: k, Value: []byte(val)})
		case []byte:
			headers = append(headers, Header{Key: k, Value: val})
		}
	}
	return headers
}

func (m *rabbitMessage) ID() string           { return m.d.MessageId }
func (m *rabbitMessage) Topic() string        { return m.topic }
func (m *rabbitMessage) Timestamp() time.Time { return m.d.Timestamp }
func (m *rabbitMessage) responded() bool      { return m.acked.responded() }

func (m *rabbitMessage) Ack(context.Context) error {
	if !m.acked.claim() {
		return nil
	}
	return m.d.Ack(false)
}

func (m *rabbitMessage) Nack(context.Context) error {
	if !m.acked.claim() {
		return nil
	}
	return m.d.Nack(false, true)
}
