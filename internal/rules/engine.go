package rules

import (
	"math"

	"github.com/ducminhle1904/options-dsl-bot/internal/dsl"
	"github.com/ducminhle1904/options-dsl-bot/internal/indicators"
	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// DefaultRuleName marks a signal produced by the default action rather
// than a matched rule.
const DefaultRuleName = "default"

// Engine applies an ordered rule list to one bar at a time. Rules are
// checked in declared order and the first whose condition tree holds wins;
// later rules are skipped for that bar, so the engine emits exactly one
// signal per bar. Step is a pure function of its inputs, which makes
// re-evaluating a bar after a late data correction safe.
type Engine struct {
	rules         []dsl.SignalRule
	defaultAction dsl.Action
}

// NewEngine creates a rule engine for a validated strategy.
func NewEngine(strategy *dsl.Strategy) *Engine {
	return &Engine{
		rules:         strategy.SignalRules,
		defaultAction: strategy.Default,
	}
}

// Step evaluates all rules against the current row (with prev carrying the
// one-bar lookback) and returns the single signal for that bar. When no
// rule matches the default action applies.
func (e *Engine) Step(row, prev indicators.Row) types.Signal {
	for i := range e.rules {
		rule := &e.rules[i]
		if Evaluate(rule.ConditionsGroup, row, prev) {
			return buildSignal(row, rule.ActionOnTrue, rule.RuleName)
		}
	}
	return buildSignal(row, e.defaultAction, DefaultRuleName)
}

func buildSignal(row indicators.Row, action dsl.Action, ruleName string) types.Signal {
	return types.Signal{
		Timestamp:     row.Timestamp(),
		Type:          action.SignalType,
		Strength:      action.Strength,
		Price:         row.Value("close"),
		RuleTriggered: ruleName,
		Confidence:    confidence(action.Strength),
		ProfitCapPct:  action.ProfitCapPct,
	}
}

// confidence maps the discrete strength scale onto [0, 1].
func confidence(strength int) float64 {
	c := math.Abs(float64(strength)) / 7.0
	if c > 1 {
		c = 1
	}
	return c
}
