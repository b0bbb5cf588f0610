package dsl

import (
	"fmt"
	"strings"
)

// ConstRefSigil marks a symbolic constant reference, e.g. "@rsi_oversold".
const ConstRefSigil = "@"

// Resolve substitutes every "@name" constant reference in indicator params
// and condition operands with its literal value from the constants map.
// It is a single pre-execution rewrite pass: after Resolve succeeds the
// strategy object is fully literal and nothing resolves lazily per bar.
// Every unresolved reference is recorded on the report.
func Resolve(s *Strategy, report *ValidationReport) {
	for i := range s.Indicators {
		ind := &s.Indicators[i]
		for key, value := range ind.Params {
			resolved, err := resolveValue(s.Constants, value)
			if err != nil {
				report.Add(fmt.Sprintf("indicators[%d].params.%s", i, key), err.Error())
				continue
			}
			ind.Params[key] = resolved
		}
	}

	for i := range s.SignalRules {
		path := fmt.Sprintf("signal_rules[%d].conditions_group", i)
		resolveCondition(s.Constants, s.SignalRules[i].ConditionsGroup, path, report)
	}
}

func resolveCondition(constants map[string]interface{}, node *ConditionNode, path string, report *ValidationReport) {
	if node == nil {
		return
	}

	if node.IsGroup() {
		for i, child := range node.Conditions {
			resolveCondition(constants, child, fmt.Sprintf("%s.conditions[%d]", path, i), report)
		}
		return
	}

	// series1 may itself be a constant reference even though it usually
	// names a column; the executor treats a literal there as a constant
	// operand.
	if isConstRef(node.Series1) {
		resolved, err := resolveValue(constants, node.Series1)
		if err != nil {
			report.Add(path+".series1", err.Error())
		} else if name, ok := resolved.(string); ok {
			node.Series1 = name
		} else {
			report.Add(path+".series1", fmt.Sprintf("constant %q does not name a series", node.Series1))
		}
	}

	for _, operand := range []struct {
		name  string
		value *interface{}
	}{
		{"series2_or_value", &node.Series2OrValue},
		{"lower_bound", &node.LowerBound},
		{"upper_bound", &node.UpperBound},
	} {
		if *operand.value == nil {
			continue
		}
		resolved, err := resolveValue(constants, *operand.value)
		if err != nil {
			report.Add(path+"."+operand.name, err.Error())
			continue
		}
		*operand.value = resolved
	}
}

// resolveValue returns the literal behind a "@name" reference, or the value
// unchanged when it is not a reference.
func resolveValue(constants map[string]interface{}, value interface{}) (interface{}, error) {
	str, ok := value.(string)
	if !ok || !strings.HasPrefix(str, ConstRefSigil) {
		return value, nil
	}

	name := strings.TrimPrefix(str, ConstRefSigil)
	literal, found := constants[name]
	if !found {
		return nil, fmt.Errorf("unresolved constant reference %q", str)
	}
	return literal, nil
}

func isConstRef(value string) bool {
	return strings.HasPrefix(value, ConstRefSigil)
}
