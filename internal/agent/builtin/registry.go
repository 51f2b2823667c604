package builtin

import (
	"sort"

	"github.com/louisbranch/liarsdice/internal/agent"
)

// Strategy names accepted in a roster.
const (
	NameBaseline   = "baseline"
	NameBayesian   = "bayesian"
	NameAdaptive   = "adaptive"
	NameMonteCarlo = "montecarlo"
	NameAggressive = "aggressive"
)

var constructors = map[string]func() agent.Strategy{
	NameBaseline:   func() agent.Strategy { return NewBaseline() },
	NameBayesian:   func() agent.Strategy { return NewBayesian() },
	NameAdaptive:   func() agent.Strategy { return NewAdaptive() },
	NameMonteCarlo: func() agent.Strategy { return NewMonteCarlo() },
	NameAggressive: func() agent.Strategy { return NewAggressive() },
}

// Factory returns the factory for a built-in strategy.
func Factory(name string) (agent.Factory, bool) {
	build, ok := constructors[name]
	if !ok {
		return nil, false
	}
	return agent.NewFactory(name, func() (agent.Strategy, error) { return build(), nil }), true
}

// Names lists the built-in strategies in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
