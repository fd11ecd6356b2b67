package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeMessage struct {
	acked  responseGuard
	acks   int
	nacks  int
	header []Header
}

func (m *fakeMessage) Body() []byte         { return []byte(`{}`) }
func (m *fakeMessage) Headers() []Header    { return m.header }
func (m *fakeMessage) ID() string           { return "1" }
func (m *fakeMessage) Topic() string        { return "enquiry_created" }
func (m *fakeMessage) Timestamp() time.Time { return time.Time{} }
func (m *fakeMessage) responded() bool      { return m.acked.responded() }

func (m *fakeMessage) Ack(context.Context) error {
	if m.acked.claim() {
		m.acks++
	}
	return nil
}

func (m *fakeMessage) Nack(context.Context) error {
	if m.acked.claim() {
		m.nacks++
	}
	return nil
}

func TestDispatch_AutoAck(t *testing.T) {
	ctx := context.Background()

	ok := &fakeMessage{}
	assert.NoError(t, dispatch(ctx, "test", ok, func(context.Context, Message) error { return nil }, true))
	assert.Equal(t, 1, ok.acks)

	failed := &fakeMessage{}
	assert.NoError(t, dispatch(ctx, "test", failed, func(context.Context, Message) error { return errors.New("db down") }, true))
	assert.Equal(t, 1, failed.nacks)
}

func TestDispatch_ManualAck(t *testing.T) {
	msg := &fakeMessage{}
	herr := errors.New("boom")

	err := dispatch(context.Background(), "test", msg, func(context.Context, Message) error { return herr }, false)

	assert.ErrorIs(t, err, herr)
	assert.Zero(t, msg.acks+msg.nacks)
}

func TestDispatch_HandlerAlreadyResponded(t *testing.T) {
	msg := &fakeMessage{}

	err := dispatch(context.Background(), "test", msg, func(ctx context.Context, m Message) error {
		return m.Ack(ctx)
	}, true)

	assert.NoError(t, err)
	assert.Equal(t, 1, msg.acks)
	assert.Zero(t, msg.nacks)
}

func TestDispatch_Panic(t *testing.T) {
	msg := &fakeMessage{}

	err := dispatch(context.Background(), "test", msg, func(context.Context, Message) error { panic("nil map") }, true)

	assert.NoError(t, err)
	assert.Equal(t, 1, msg.nacks)
}

func TestHeaderValue(t *testing.T) {
	headers := []Header{{Key: "cID", Value: []byte("abc")}, {Key: "cID", Value: []byte("def")}}

	assert.Equal(t, "abc", HeaderValue(headers, "cID"))
	assert.Equal(t, "", HeaderValue(headers, "missing"))
}

func TestNewConsumeOptions(t *testing.T) {
	co := newConsumeOptions(WithConcurrency(0), WithQueue("gonotif.enquiry_created"), nil, WithAutoAck(true))

	assert.Equal(t, 1, co.concurrency)
	assert.Equal(t, "gonotif.enquiry_created", co.queue)
	assert.True(t, co.autoAck)
}

func TestNewFromDriver_Unknown(t *testing.T) {
	_, err := NewFromDriver(context.Background(), "carrier-pigeon", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestNewFromDriver_MissingOption(t *testing.T) {
	for _, driver := range []string{"nsq", "kafka", "NATS", " pubsub ", "amqp"} {
		_, err := NewFromDriver(context.Background(), driver, FactoryOptions{})
		assert.ErrorIs(t, err, ErrMissingOption, driver)
	}
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, DriverGooglePubSub, driverName("PubSub"))
	assert.Equal(t, DriverRabbitMQ, driverName("rabbit"))
	assert.Equal(t, DriverKafka, driverName(" kafka "))
	assert.Equal(t, "sqs", driverName("sqs"))
}

func TestValidateConsume(t *testing.T) {
	h := func(context.Context, Message) error { return nil }

	assert.ErrorIs(t, validateConsume(context.Background(), "", h), ErrDestinationRequired)
	assert.ErrorIs(t, validateConsume(context.Background(), "t", nil), ErrHandlerRequired)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, validateConsume(ctx, "t", h), context.Canceled)
}
