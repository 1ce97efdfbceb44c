package dre

import (
	"fmt"
	"strings"

	"github.com/hoppemairon/gestor-plantio/internal/config"
	"github.com/hoppemairon/gestor-plantio/pkg/constants"
)

// Scenario identifies one deterministic variant of the baseline projection.
type Scenario string

const (
	ScenarioProjected   Scenario = "Projected"
	ScenarioPessimistic Scenario = "Pessimistic"
	ScenarioOptimistic  Scenario = "Optimistic"
)

// Scenarios lists all scenarios in presentation order.
var Scenarios = []Scenario{ScenarioProjected, ScenarioPessimistic, ScenarioOptimistic}

// ParseScenario resolves a string into a Scenario. Empty input defaults to
// the projected baseline.
func ParseScenario(s string) (Scenario, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ScenarioProjected, nil
	}
	for _, scenario := range Scenarios {
		if strings.EqualFold(string(scenario), trimmed) {
			return scenario, nil
		}
	}
	return "", fmt.Errorf("unknown scenario %q", s)
}

// RevenueFactor is the multiplicative revenue shift for the scenario,
// applied uniformly per year after inflation.
func RevenueFactor(scenario Scenario, params config.Parameters) float64 {
	switch scenario {
	case ScenarioPessimistic:
		return 1.0 - params.PessimisticRevenueReductionPct/constants.PercentageMultiplier
	case ScenarioOptimistic:
		return 1.0 + params.OptimisticRevenueIncreasePct/constants.PercentageMultiplier
	}
	return 1.0
}

// ExpenseAdjustmentPct is the signed percentage applied to every expense
// line of the scenario. Sales and result taxes are never adjusted directly;
// they are recomputed from the scenario's own figures.
func ExpenseAdjustmentPct(scenario Scenario, params config.Parameters) float64 {
	switch scenario {
	case ScenarioPessimistic:
		return params.PessimisticExpenseIncreasePct
	case ScenarioOptimistic:
		return -params.OptimisticExpenseReductionPct
	}
	return 0
}
