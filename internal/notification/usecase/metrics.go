package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type metrics struct {
	triggers metric.Int64Counter
	sends    metric.Int64Counter
	inflight metric.Int64UpDownCounter
}

func newMetrics(meter metric.Meter) *metrics {
	m := &metrics{
		triggers: noop.Int64Counter{},
		sends:    noop.Int64Counter{},
		inflight: noop.Int64UpDownCounter{},
	}

	if c, err := meter.Int64Counter("notification.triggers",
		metric.WithDescription("Trigger calls by dispatch result.")); err == nil {
		m.triggers = c
	} else {
		slog.Warn("failed to create metric", "name", "notification.triggers", "error", err)
	}

	if c, err := meter.Int64Counter("notification.sends",
		metric.WithDescription("Channel send attempts by result.")); err == nil {
		m.sends = c
	} else {
		slog.Warn("failed to create metric", "name", "notification.sends", "error", err)
	}

	if c, err := meter.Int64UpDownCounter("notification.deliveries.inflight",
		metric.WithDescription("Delivery attempts currently running.")); err == nil {
		m.inflight = c
	} else {
		slog.Warn("failed to create metric", "name", "notification.deliveries.inflight", "error", err)
	}

	return m
}

func (m *metrics) trigger(ctx context.Context, event entity.EventType, out entity.DispatchOutcome) {
	m.triggers.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", event.String()),
		attribute.String("result", string(out.Result)),
		attribute.String("reason", out.Reason),
	))
}

func (m *metrics) send(ctx context.Context, event entity.EventType, res entity.SendResult) {
	m.sends.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", event.String()),
		attribute.String("result", res.Status.String()),
	))
}
