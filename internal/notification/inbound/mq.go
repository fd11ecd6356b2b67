package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/gonotif/internal/pkg/config"
	"github.com/shandysiswandi/gonotif/internal/pkg/goroutine"
	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/shandysiswandi/gonotif/internal/pkg/messaging"
	"github.com/shandysiswandi/gonotif/internal/pkg/uid"
	"github.com/shandysiswandi/gonotif/internal/shared/event"
)

type mqConsumer struct {
	name    string // also the consumer group, channel, queue or subscription
	topic   string // destination where publisher sent message
	handler messaging.Handler
}

func mqConsumers(h *MQHandler) []mqConsumer {
	return []mqConsumer{
		{
			name:    event.EnquiryCreatedConsumerNotification,
			topic:   event.EnquiryCreatedDestination,
			handler: h.EnquiryCreatedNotification,
		},
		{
			name:    event.ServiceCreatedConsumerNotification,
			topic:   event.ServiceCreatedDestination,
			handler: h.ServiceCreatedNotification,
		},
		{
			name:    event.ServiceEngineerAssignedConsumerNotification,
			topic:   event.ServiceEngineerAssignedDestination,
			handler: h.ServiceEngineerAssignedNotification,
		},
		{
			name:    event.ServiceCompletedConsumerNotification,
			topic:   event.ServiceCompletedDestination,
			handler: h.ServiceCompletedNotification,
		},
		{
			name:    event.DeliveryFailedConsumerNotification,
			topic:   event.DeliveryFailedDestination,
			handler: h.DeliveryFailedNotification,
		},
		{
			name:    event.DeliveryReattemptConsumerNotification,
			topic:   event.DeliveryReattemptDestination,
			handler: h.DeliveryReattemptNotification,
		},
	}
}

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc ucConsumer,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")
	concurrency := max(cfg.GetInt("modules.notification.consumer_concurrency"), 1)

	for _, consumer := range mqConsumers(mqHandler) {
		if !slices.Contains(enableConsumerNames, consumer.name) {
			continue
		}

		routine.Go(ctx, "consumer "+consumer.name, func(pCtx context.Context) error {
			slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
			return messenger.Consume(pCtx,
				consumer.topic,
				consumer.handler,
				messaging.WithChannel(consumer.name),
				messaging.WithQueueGroup(consumer.name),
				messaging.WithGroup(consumer.name),
				messaging.WithSubscription(consumer.name),
				messaging.WithQueue(consumer.name),
				messaging.WithAutoAck(true),
				messaging.WithConcurrency(concurrency),
				messaging.WithMaxInFlight(concurrency),
			)
		})
	}
}
