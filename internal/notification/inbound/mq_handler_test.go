package inbound

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/gonotif/internal/notification/usecase"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/shandysiswandi/gonotif/internal/pkg/messaging"
	"github.com/shandysiswandi/gonotif/internal/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeMessage struct {
	body    string
	headers []messaging.Header
}

func (m fakeMessage) Body() []byte                { return []byte(m.body) }
func (m fakeMessage) Headers() []messaging.Header { return m.headers }
func (m fakeMessage) ID() string                  { return "msg-1" }
func (m fakeMessage) Topic() string               { return "topic" }
func (m fakeMessage) Timestamp() time.Time        { return time.Time{} }
func (m fakeMessage) Ack(context.Context) error   { return nil }
func (m fakeMessage) Nack(context.Context) error  { return nil }

func newMQHandler(t *testing.T) (*mockUC, *MQHandler) {
	t.Helper()
	m := &mockUC{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m, &MQHandler{uc: m, uuid: uid.NewUUID(), ins: instrument.NewNoop()}
}

func TestMQHandler_ServiceCreatedNotification(t *testing.T) {
	m, h := newMQHandler(t)
	scheduled := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	m.On("ConsumeServiceCreated", mock.MatchedBy(func(ctx context.Context) bool {
		return instrument.GetCorrelationID(ctx) == "corr-1"
	}), usecase.ConsumeServiceCreatedInput{
		ComplaintID:   42,
		TicketID:      "SRV-42",
		CustomerName:  "Ravi",
		CustomerPhone: "9876543210",
		ServiceType:   "AC Repair",
		ScheduledDate: &scheduled,
	}).Return(nil).Once()

	err := h.ServiceCreatedNotification(context.Background(), fakeMessage{
		body: `{"complaint_id":42,"ticket_id":"SRV-42","customer_name":"Ravi","customer_phone":"9876543210",
			"service_type":"AC Repair","scheduled_date":"2026-03-12T00:00:00Z"}`,
		headers: []messaging.Header{{Key: "cID", Value: []byte("corr-1")}},
	})

	assert.NoError(t, err)
}

func TestMQHandler_DropsUnparsableBody(t *testing.T) {
	_, h := newMQHandler(t)

	err := h.EnquiryCreatedNotification(context.Background(), fakeMessage{body: "not json"})

	assert.NoError(t, err)
}

func TestMQHandler_ReturnsConsumeErrorForRedelivery(t *testing.T) {
	m, h := newMQHandler(t)
	m.On("ConsumeDeliveryFailed", mock.Anything, usecase.ConsumeDeliveryFailedInput{
		StockMovementID: 9,
		CustomerPhone:   "9876543210",
	}).Return(errors.New("db down")).Once()

	err := h.DeliveryFailedNotification(context.Background(), fakeMessage{
		body: `{"stock_movement_id":9,"customer_phone":"9876543210"}`,
	})

	assert.EqualError(t, err, "db down")
}

func TestMQHandler_AllConsumersWired(t *testing.T) {
	_, h := newMQHandler(t)

	consumers := mqConsumers(h)

	assert.Len(t, consumers, 6)
	seen := map[string]bool{}
	for _, c := range consumers {
		assert.NotNil(t, c.handler, c.name)
		assert.False(t, seen[c.topic], "duplicate topic %s", c.topic)
		seen[c.topic] = true
	}
}
