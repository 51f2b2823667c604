package tournament

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type instruments struct {
	matches    metric.Int64Counter
	turnGuards metric.Int64Counter
}

func newInstruments(mp metric.MeterProvider) instruments {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)
	fallback := noop.NewMeterProvider().Meter(instrumentationName)
	matches, err := meter.Int64Counter("liarsdice.tournament.matches",
		metric.WithDescription("Matches played to completion"),
	)
	if err != nil {
		matches, _ = fallback.Int64Counter("liarsdice.tournament.matches")
	}
	turnGuards, err := meter.Int64Counter("liarsdice.match.turn_guards",
		metric.WithDescription("Hands ended by the turn guard"),
	)
	if err != nil {
		turnGuards, _ = fallback.Int64Counter("liarsdice.match.turn_guards")
	}
	return instruments{matches: matches, turnGuards: turnGuards}
}

func (i instruments) matchPlayed(ctx context.Context, turnGuards int) {
	i.matches.Add(ctx, 1)
	if turnGuards > 0 {
		i.turnGuards.Add(ctx, int64(turnGuards))
	}
}
