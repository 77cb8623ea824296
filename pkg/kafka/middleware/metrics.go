package kafka_middleware

import (
	"context"
	"time"

	"fishtank/pkg/kafka"
	"fishtank/pkg/metrics"
)

// MetricsProducerMiddleware tracks producer metrics
func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		metrics.EventPublishDuration.Observe(time.Since(start).Seconds())
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeError
		}
		metrics.EventsPublished.WithLabelValues(msg.GetEventType(), outcome).Inc()

		return err
	}
}
