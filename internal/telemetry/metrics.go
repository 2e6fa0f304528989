package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "boss"

// Metrics holds the orchestrator's instruments. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Asks          metric.Int64Counter
	Rounds        metric.Int64Histogram
	OwnerFailures metric.Int64Counter
	OwnerDuration metric.Float64Histogram
}

// NewMetrics creates all metric instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Asks, err = meter.Int64Counter("boss.asks",
		metric.WithDescription("Number of asks by outcome"))
	if err != nil {
		return nil, err
	}

	m.Rounds, err = meter.Int64Histogram("boss.rounds",
		metric.WithDescription("Routing rounds used per ask"))
	if err != nil {
		return nil, err
	}

	m.OwnerFailures, err = meter.Int64Counter("boss.owner.failures",
		metric.WithDescription("Owner calls degraded to a synthetic gap"))
	if err != nil {
		return nil, err
	}

	m.OwnerDuration, err = meter.Float64Histogram("boss.owner.duration_seconds",
		metric.WithDescription("Owner call duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordAsk counts a finished ask and the rounds it took.
func (m *Metrics) RecordAsk(ctx context.Context, outcome string, rounds int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.Asks.Add(ctx, 1, attrs)
	m.Rounds.Record(ctx, int64(rounds), attrs)
}

// RecordOwner records one owner call; status is the response status.
func (m *Metrics) RecordOwner(ctx context.Context, owner, status string, seconds float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("owner.id", owner),
		attribute.String("status", status),
	)
	m.OwnerDuration.Record(ctx, seconds, attrs)
	if status == "unavailable" || status == "timeout" {
		m.OwnerFailures.Add(ctx, 1, attrs)
	}
}
