package rules

import (
	"math"
	"strings"

	"github.com/ducminhle1904/options-dsl-bot/internal/dsl"
	"github.com/ducminhle1904/options-dsl-bot/internal/indicators"
)

// Tolerances for the == and != operators on floating point series.
const (
	equalAbsTol = 1e-8
	equalRelTol = 1e-5
)

// Evaluate walks a condition tree for one bar. prev is the row immediately
// before the current one and carries the one-bar lookback the crossing and
// trend operators need; at the first bar it is an out-of-range row whose
// every column reads NotReady, so those operators are false there by
// construction. A leaf touching any NotReady value evaluates to false
// without raising: a strategy simply cannot fire before its indicators
// have warmed up.
func Evaluate(node *dsl.ConditionNode, row, prev indicators.Row) bool {
	if node == nil {
		return false
	}

	if node.IsGroup() {
		if len(node.Conditions) == 0 {
			return false
		}
		switch strings.ToUpper(node.Operator) {
		case dsl.GroupAnd:
			for _, child := range node.Conditions {
				if !Evaluate(child, row, prev) {
					return false
				}
			}
			return true
		case dsl.GroupOr:
			for _, child := range node.Conditions {
				if Evaluate(child, row, prev) {
					return true
				}
			}
			return false
		}
		return false
	}

	return evaluateLeaf(node, row, prev)
}

func evaluateLeaf(node *dsl.ConditionNode, row, prev indicators.Row) bool {
	val1 := operandValue(node.Series1, row)
	op := strings.ToLower(node.Operator)

	switch op {
	case dsl.OpIsRising, dsl.OpIsFalling:
		prevVal := operandValue(node.Series1, prev)
		if !indicators.Ready(val1) || !indicators.Ready(prevVal) {
			return false
		}
		if op == dsl.OpIsRising {
			return val1 > prevVal
		}
		return val1 < prevVal

	case dsl.OpIsBetween, dsl.OpIsNotBetween:
		lower, lowerOK := literal(node.LowerBound)
		upper, upperOK := literal(node.UpperBound)
		if !indicators.Ready(val1) || !lowerOK || !upperOK {
			return false
		}
		between := lower <= val1 && val1 <= upper
		if op == dsl.OpIsBetween {
			return between
		}
		return !between
	}

	val2 := resolveOperand(node.Series2OrValue, row)
	if !indicators.Ready(val1) || !indicators.Ready(val2) {
		return false
	}

	switch op {
	case dsl.OpGreater:
		return val1 > val2
	case dsl.OpLess:
		return val1 < val2
	case dsl.OpGreaterOrEqual:
		return val1 >= val2
	case dsl.OpLessOrEqual:
		return val1 <= val2
	case dsl.OpEqual:
		return approxEqual(val1, val2)
	case dsl.OpNotEqual:
		return !approxEqual(val1, val2)

	case dsl.OpCrossesAbove, dsl.OpCrossesBelow:
		prevVal1 := operandValue(node.Series1, prev)
		prevVal2 := resolveOperand(node.Series2OrValue, prev)
		if !indicators.Ready(prevVal1) || !indicators.Ready(prevVal2) {
			return false
		}
		if op == dsl.OpCrossesAbove {
			return prevVal1 <= prevVal2 && val1 > val2
		}
		return prevVal1 >= prevVal2 && val1 < val2
	}

	return false
}

// operandValue reads a named column at the row. Unknown columns read
// NotReady, which every operator above turns into false.
func operandValue(name string, row indicators.Row) float64 {
	return row.Value(name)
}

// resolveOperand turns series2_or_value into a number: a string names a
// column, anything numeric is a literal (constants were already rewritten
// to literals at load time).
func resolveOperand(operand interface{}, row indicators.Row) float64 {
	switch v := operand.(type) {
	case string:
		return row.Value(v)
	case float64:
		return v
	case int:
		return float64(v)
	}
	return indicators.NotReady
}

func literal(operand interface{}) (float64, bool) {
	switch v := operand.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= equalAbsTol+equalRelTol*math.Abs(b)
}
