package services

import (
	"context"
	"time"

	"tokopos/internal/apperror"
	"tokopos/internal/events"
	"tokopos/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	spanPrefix     = "usecase."
	eventProducer  = "tokopos"
	publishTimeout = 5 * time.Second
)

var tracer = otel.Tracer("tokopos/services")

// observer bundles the logger and metrics every service reports to.
type observer struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

func newObserver(log *zap.Logger, m *metrics.Metrics) observer {
	if log == nil {
		log = zap.NewNop()
	}
	return observer{log: log, metrics: m}
}

// track starts a span for useCase. The returned func must be called exactly once
// with the operation's final error; it ends the span, records metrics and logs
// the outcome.
func (o observer) track(ctx context.Context, useCase string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	attrs = append(attrs, attribute.String("use_case", useCase))
	ctx, span := tracer.Start(ctx, spanPrefix+useCase, trace.WithAttributes(attrs...))
	start := time.Now()

	return ctx, func(err error) {
		outcome := "success"
		if err != nil {
			outcome = string(apperror.KindOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		} else {
			span.SetStatus(codes.Ok, "OK")
		}
		span.End()
		o.metrics.ObserveUseCase(useCase, start, err)

		fields := make([]zap.Field, 0, len(attrs)+4)
		for _, kv := range attrs {
			fields = append(fields, zap.String(string(kv.Key), kv.Value.Emit()))
		}
		fields = append(fields,
			zap.String("outcome", outcome),
			zap.Float64("latency_seconds", time.Since(start).Seconds()),
		)
		if sc := span.SpanContext(); sc.IsValid() {
			fields = append(fields,
				zap.String("trace_id", sc.TraceID().String()),
				zap.String("span_id", sc.SpanID().String()),
			)
		}

		switch {
		case err == nil:
			o.log.Info("usecase_completed", fields...)
		case apperror.Is(err, apperror.KindInternal):
			o.log.Error("usecase_failed", append(fields, zap.Error(err))...)
		default:
			o.log.Warn("usecase_rejected", append(fields, zap.Error(err))...)
		}
	}
}

// publish sends an event after the unit of work has committed. Failures are
// logged and counted; the committed operation still succeeds.
func (o observer) publish(ctx context.Context, p events.Publisher, t events.Type, orderID string, payload any) {
	if p == nil {
		return
	}
	ev, err := events.New(t, eventProducer, orderID, payload)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		err = p.Publish(ctx, ev)
		cancel()
	}
	if err != nil {
		o.metrics.PublishFailed(string(t))
		o.log.Warn("event_publish_failed",
			zap.String("event_type", string(t)),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return
	}
	o.log.Debug("event_published", zap.String("event_type", string(t)), zap.String("event_id", ev.ID))
}
