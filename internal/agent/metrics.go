package agent

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/louisbranch/liarsdice/internal/agent"

type instruments struct {
	faults    metric.Int64Counter
	decisions metric.Float64Histogram
}

// newInstruments binds the decision instruments to mp, or to the global
// meter provider when mp is nil.
func newInstruments(mp metric.MeterProvider) instruments {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	faults, err := meter.Int64Counter("liarsdice.agent.faults",
		metric.WithDescription("Decisions replaced by the fallback liar call"),
	)
	if err != nil {
		faults, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("liarsdice.agent.faults")
	}
	decisions, err := meter.Float64Histogram("liarsdice.agent.decision.duration",
		metric.WithDescription("Wall-clock time of agent decisions"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		decisions, _ = noop.NewMeterProvider().Meter(instrumentationName).Float64Histogram("liarsdice.agent.decision.duration")
	}
	return instruments{faults: faults, decisions: decisions}
}
