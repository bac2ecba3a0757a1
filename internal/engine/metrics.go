package engine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "cleanquest/engine"

type instruments struct {
	actions      metric.Int64Counter
	effects      metric.Int64Counter
	saveFailures metric.Int64Counter
	loadFailures metric.Int64Counter
}

func newInstruments(mp metric.MeterProvider) instruments {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m := mp.Meter(meterName)
	return instruments{
		actions:      counter(m, "cleanquest.actions", "Actions dispatched to the state reducer"),
		effects:      counter(m, "cleanquest.effects", "Derived effects applied after a transition"),
		saveFailures: counter(m, "cleanquest.save.failures", "State snapshots that could not be persisted"),
		loadFailures: counter(m, "cleanquest.load.failures", "Startups that could not read the stored state"),
	}
}

func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

func (in instruments) recordDispatch(ctx context.Context, a Action, effects []Effect) {
	in.actions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", string(a.Type()))))
	for _, e := range effects {
		in.effects.Add(ctx, 1, metric.WithAttributes(attribute.String("effect", string(e.Kind()))))
	}
}
