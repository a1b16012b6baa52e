// Package telemetry provides OpenTelemetry instruments for inkmatch.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope of every inkmatch instrument.
const MeterName = "github.com/thebtf/inkmatch"

// Search outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeProviderError = "provider_error"
	OutcomeSearchError   = "search_error"
)

// Metrics tracks search traffic and the health of the external collaborators.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	searches        metric.Int64Counter
	searchDuration  metric.Float64Histogram
	embedDuration   metric.Float64Histogram
	queryDuration   metric.Float64Histogram
	sketchesServed  metric.Int64Histogram
	sessionLogs     metric.Int64Counter
	droppedSessions metric.Int64Counter
}

// NewMetrics registers instruments on the global meter provider.
// Without an installed SDK the instruments are no-ops.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithProvider(otel.GetMeterProvider())
}

// NewMetricsWithProvider registers instruments on mp.
func NewMetricsWithProvider(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(MeterName)
	m := &Metrics{}
	var err error

	if m.searches, err = meter.Int64Counter("inkmatch.search.requests",
		metric.WithDescription("Sketch searches by outcome")); err != nil {
		return nil, err
	}
	if m.searchDuration, err = meter.Float64Histogram("inkmatch.search.duration",
		metric.WithDescription("End-to-end search latency"), metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	if m.embedDuration, err = meter.Float64Histogram("inkmatch.embedding.duration",
		metric.WithDescription("Embedding provider latency"), metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	if m.queryDuration, err = meter.Float64Histogram("inkmatch.vector.duration",
		metric.WithDescription("Vector similarity query latency"), metric.WithUnit("ms")); err != nil {
		return nil, err
	}
	if m.sketchesServed, err = meter.Int64Histogram("inkmatch.search.results",
		metric.WithDescription("Sketches returned per search")); err != nil {
		return nil, err
	}
	if m.sessionLogs, err = meter.Int64Counter("inkmatch.sessionlog.writes",
		metric.WithDescription("Session log writes by outcome")); err != nil {
		return nil, err
	}
	if m.droppedSessions, err = meter.Int64Counter("inkmatch.sessionlog.dropped",
		metric.WithDescription("Session log writes dropped before dispatch")); err != nil {
		return nil, err
	}
	return m, nil
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RecordSearch records one completed search.
func (m *Metrics) RecordSearch(ctx context.Context, outcome string, d time.Duration, results int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.searches.Add(ctx, 1, attrs)
	m.searchDuration.Record(ctx, ms(d), attrs)
	if outcome == OutcomeOK {
		m.sketchesServed.Record(ctx, int64(results))
	}
}

// RecordEmbedding records the latency of one embedding call.
func (m *Metrics) RecordEmbedding(ctx context.Context, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.embedDuration.Record(ctx, ms(d), metric.WithAttributes(attribute.Bool("error", err != nil)))
}

// RecordVectorQuery records the latency of one similarity query.
func (m *Metrics) RecordVectorQuery(ctx context.Context, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.queryDuration.Record(ctx, ms(d), metric.WithAttributes(attribute.Bool("error", err != nil)))
}

// RecordSessionLog records the result of a background session write.
func (m *Metrics) RecordSessionLog(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.sessionLogs.Add(ctx, 1, metric.WithAttributes(attribute.Bool("error", err != nil)))
}

// RecordDroppedSessionLog counts a session write that was never dispatched.
func (m *Metrics) RecordDroppedSessionLog(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.droppedSessions.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
