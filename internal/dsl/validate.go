package dsl

import (
	"fmt"
	"strings"

	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// Base OHLCV columns every strategy may reference without declaring an
// indicator.
var baseColumns = map[string]bool{
	"open":   true,
	"high":   true,
	"low":    true,
	"close":  true,
	"volume": true,
}

var allowedStrengths = map[int]bool{-7: true, -3: true, 0: true, 3: true, 7: true}

// Validate schema-checks a resolved strategy document, collecting every
// fault on the report. It assumes Resolve already ran; operands that are
// still strings must therefore name columns.
func Validate(s *Strategy, report *ValidationReport) {
	if s.DSLVersion == "" {
		report.Add("dsl_version", "missing dsl_version")
	}

	columns := validateIndicators(s, report)

	if len(s.SignalRules) == 0 {
		report.Add("signal_rules", "strategy declares no signal rules")
	}

	ruleNames := make(map[string]bool)
	for i := range s.SignalRules {
		rule := &s.SignalRules[i]
		path := fmt.Sprintf("signal_rules[%d]", i)

		if rule.RuleName == "" {
			report.Add(path+".rule_name", "missing rule name")
		} else if ruleNames[rule.RuleName] {
			report.Add(path+".rule_name", fmt.Sprintf("duplicate rule name %q", rule.RuleName))
		}
		ruleNames[rule.RuleName] = true

		if rule.ConditionsGroup == nil {
			report.Add(path+".conditions_group", "missing conditions group")
		} else {
			validateCondition(rule.ConditionsGroup, columns, path+".conditions_group", report)
		}

		validateAction(rule.ActionOnTrue, path+".action_on_true", report)
	}

	validateAction(s.Default, "default_action_on_no_match", report)
}

// validateIndicators checks the indicator list and returns the full set of
// columns a rule may legally reference.
func validateIndicators(s *Strategy, report *ValidationReport) map[string]bool {
	columns := make(map[string]bool, len(baseColumns)+len(s.Indicators))
	for col := range baseColumns {
		columns[col] = true
	}

	names := make(map[string]bool)
	for i := range s.Indicators {
		ind := &s.Indicators[i]
		path := fmt.Sprintf("indicators[%d]", i)

		if ind.Name == "" {
			report.Add(path+".name", "missing indicator name")
		} else if names[ind.Name] {
			report.Add(path+".name", fmt.Sprintf("duplicate indicator name %q", ind.Name))
		}
		names[ind.Name] = true

		if !KnownIndicatorType(ind.Type) {
			report.Add(path+".type", fmt.Sprintf("unknown indicator type %q", ind.Type))
			continue
		}

		for key, value := range ind.Params {
			if num, ok := value.(float64); ok && num <= 0 {
				report.Add(fmt.Sprintf("%s.params.%s", path, key),
					fmt.Sprintf("parameter must be positive, got %v", num))
			}
		}

		primary := ind.Outputs.PrimaryOutputColumn
		if primary == "" {
			report.Add(path+".outputs.primary_output_column", "missing primary output column")
		} else {
			addOutputColumn(columns, primary, path+".outputs.primary_output_column", report)
		}

		validateComponentMap(ind, columns, path, report)
	}

	return columns
}

func validateComponentMap(ind *IndicatorSpec, columns map[string]bool, path string, report *ValidationReport) {
	if len(ind.Outputs.ComponentOutputMap) == 0 {
		return
	}

	if !MultiOutput(ind.Type) {
		report.Add(path+".outputs.component_output_map",
			fmt.Sprintf("indicator type %q has a single output; component map is not allowed", ind.Type))
		return
	}

	known := make(map[string]bool)
	for _, raw := range ind.RawOutputKeys() {
		known[NormalizeOutputKey(raw)] = true
	}

	for raw, col := range ind.Outputs.ComponentOutputMap {
		if !known[NormalizeOutputKey(raw)] {
			report.Add(fmt.Sprintf("%s.outputs.component_output_map.%s", path, raw),
				fmt.Sprintf("no such component for %s with these params (expected one of %v)",
					ind.Type, ind.RawOutputKeys()))
			continue
		}
		addOutputColumn(columns, col, fmt.Sprintf("%s.outputs.component_output_map.%s", path, raw), report)
	}
}

func addOutputColumn(columns map[string]bool, col, path string, report *ValidationReport) {
	if baseColumns[col] {
		report.Add(path, fmt.Sprintf("output column %q shadows a base OHLCV column", col))
		return
	}
	if columns[col] {
		report.Add(path, fmt.Sprintf("duplicate output column %q", col))
		return
	}
	columns[col] = true
}

func validateCondition(node *ConditionNode, columns map[string]bool, path string, report *ValidationReport) {
	if node.IsGroup() {
		if len(node.Conditions) == 0 {
			report.Add(path, "empty condition group")
			return
		}
		for i, child := range node.Conditions {
			validateCondition(child, columns, fmt.Sprintf("%s.conditions[%d]", path, i), report)
		}
		return
	}

	op := strings.ToLower(node.Operator)
	if !IsLeafOperator(op) {
		report.Add(path+".operator", fmt.Sprintf("unsupported operator %q", node.Operator))
	}

	if node.Series1 == "" {
		report.Add(path+".series1", "missing series1")
	} else if !columns[node.Series1] {
		report.Add(path+".series1", fmt.Sprintf("reference to undefined column %q", node.Series1))
	}

	// Trend operators take a single operand; everything else needs a second.
	if op != OpIsRising && op != OpIsFalling {
		switch v := node.Series2OrValue.(type) {
		case nil:
			report.Add(path+".series2_or_value", "missing series2_or_value")
		case string:
			if !columns[v] {
				report.Add(path+".series2_or_value", fmt.Sprintf("reference to undefined column %q", v))
			}
		case float64, int:
			// literal, fine
		default:
			report.Add(path+".series2_or_value", fmt.Sprintf("operand must be a column name or number, got %T", v))
		}
	}

	if op == OpIsBetween || op == OpIsNotBetween {
		for name, bound := range map[string]interface{}{"lower_bound": node.LowerBound, "upper_bound": node.UpperBound} {
			if _, ok := bound.(float64); !ok {
				report.Add(path+"."+name, "range operators require a numeric bound")
			}
		}
	}
}

func validateAction(a Action, path string, report *ValidationReport) {
	switch a.SignalType {
	case types.SignalCall:
		if a.Strength <= 0 {
			report.Add(path+".strength", fmt.Sprintf("CALL action needs positive strength, got %d", a.Strength))
		}
	case types.SignalPut:
		if a.Strength >= 0 {
			report.Add(path+".strength", fmt.Sprintf("PUT action needs negative strength, got %d", a.Strength))
		}
	case types.SignalNeutral:
		if a.Strength != 0 {
			report.Add(path+".strength", fmt.Sprintf("NEUTRAL action needs zero strength, got %d", a.Strength))
		}
	default:
		report.Add(path+".signal_type", fmt.Sprintf("unknown signal type %q", a.SignalType))
	}

	if !allowedStrengths[a.Strength] {
		report.Add(path+".strength", fmt.Sprintf("strength must be one of -7, -3, 0, 3, 7; got %d", a.Strength))
	}

	if a.SignalType != types.SignalNeutral && a.ProfitCapPct <= 0 {
		report.Add(path+".profit_cap_pct", fmt.Sprintf("profit cap must be positive, got %v", a.ProfitCapPct))
	}
}
