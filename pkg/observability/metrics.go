package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "codeloom.requests.total"
	metricRequestDuration  = "codeloom.request.duration.seconds"
	metricErrorsTotal      = "codeloom.errors.total"
	metricInflightRequests = "codeloom.inflight.requests"

	attrOp     = "op"
	attrStatus = "status"

	statusError = "error"
)

// durationBucketBoundaries covers 1ms to 60s: tool calls and document
// edits are sub-second, full-tree ingest and graph builds can take
// tens of seconds on large projects.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// REDMetrics holds the OTel instruments for Rate, Error, Duration
// metrics.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics builds the rate, error, and duration instruments on
// meter, plus an in-flight gauge.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	var errs []error

	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := mt.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("create %s: %w", name, err))
		}

		return c
	}

	rm := &REDMetrics{
		requestsTotal: counter(metricRequestsTotal, "Total number of requests", "{request}"),
		errorsTotal:   counter(metricErrorsTotal, "Total number of errors", "{error}"),
	}

	duration, err := mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		errs = append(errs, fmt.Errorf("create %s: %w", metricRequestDuration, err))
	}

	rm.requestDuration = duration

	inflight, err := mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		errs = append(errs, fmt.Errorf("create %s: %w", metricInflightRequests, err))
	}

	rm.inflightRequests = inflight

	if joined := errors.Join(errs...); joined != nil {
		return nil, joined
	}

	return rm, nil
}

// RecordRequest records a completed request with its operation,
// status, and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == statusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// TrackInflight increments the in-flight gauge and returns a function
// to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}
