package dsl

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ducminhle1904/options-dsl-bot/pkg/types"
)

// Strategy is one declarative strategy document. It is authored upstream
// (typically by the strategy generation loop) and treated here as untrusted
// input: a document is never executed before Resolve and Validate both pass.
type Strategy struct {
	DSLVersion  string                 `json:"dsl_version"`
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	Constants   map[string]interface{} `json:"constants"`
	Indicators  []IndicatorSpec        `json:"indicators"`
	SignalRules []SignalRule           `json:"signal_rules"`
	Default     Action                 `json:"default_action_on_no_match"`
}

// IndicatorSpec declares one indicator computation and the column names its
// outputs are exposed under.
type IndicatorSpec struct {
	Name    string                 `json:"name"`
	Type    string                 `json:"type"`
	Params  map[string]interface{} `json:"params"`
	Outputs OutputSpec             `json:"outputs"`
}

// OutputSpec maps indicator outputs to annotated-series column names.
// ComponentOutputMap is only meaningful for multi-output indicators (macd,
// bbands, stoch, donchian); when absent only the primary output is exposed.
type OutputSpec struct {
	PrimaryOutputColumn string            `json:"primary_output_column"`
	ComponentOutputMap  map[string]string `json:"component_output_map,omitempty"`
}

// SignalRule fires an action when its condition group evaluates true.
// Rules are evaluated in declared order, first match wins.
type SignalRule struct {
	RuleName        string         `json:"rule_name"`
	ConditionsGroup *ConditionNode `json:"conditions_group"`
	ActionOnTrue    Action         `json:"action_on_true"`
	Description     string         `json:"description,omitempty"`
}

// Action is the outcome of a matched rule (or the default on no match).
type Action struct {
	SignalType   types.SignalType `json:"signal_type"`
	Strength     int              `json:"strength"`
	ProfitCapPct float64          `json:"profit_cap_pct"`
	Description  string           `json:"description,omitempty"`
}

// ConditionNode is either a leaf comparison or an AND/OR group of child
// conditions. A node with a non-empty Conditions slice is a group; groups
// may nest to arbitrary depth.
type ConditionNode struct {
	Operator   string           `json:"operator"`
	Conditions []*ConditionNode `json:"conditions,omitempty"`

	Series1        string      `json:"series1,omitempty"`
	Series2OrValue interface{} `json:"series2_or_value,omitempty"`
	LowerBound     interface{} `json:"lower_bound,omitempty"`
	UpperBound     interface{} `json:"upper_bound,omitempty"`
	Description    string      `json:"description,omitempty"`
}

// IsGroup reports whether the node is an AND/OR group rather than a leaf.
func (c *ConditionNode) IsGroup() bool {
	op := strings.ToUpper(c.Operator)
	return op == GroupAnd || op == GroupOr
}

const (
	GroupAnd = "AND"
	GroupOr  = "OR"
)

// Leaf operator vocabulary. The evaluator in internal/rules implements the
// semantics; validation rejects anything outside this set at load time.
const (
	OpGreater        = ">"
	OpLess           = "<"
	OpGreaterOrEqual = ">="
	OpLessOrEqual    = "<="
	OpEqual          = "=="
	OpNotEqual       = "!="
	OpCrossesAbove   = "crosses_above"
	OpCrossesBelow   = "crosses_below"
	OpIsRising       = "is_rising"
	OpIsFalling      = "is_falling"
	OpIsBetween      = "is_between"
	OpIsNotBetween   = "is_not_between"
)

var leafOperators = map[string]bool{
	OpGreater:        true,
	OpLess:           true,
	OpGreaterOrEqual: true,
	OpLessOrEqual:    true,
	OpEqual:          true,
	OpNotEqual:       true,
	OpCrossesAbove:   true,
	OpCrossesBelow:   true,
	OpIsRising:       true,
	OpIsFalling:      true,
	OpIsBetween:      true,
	OpIsNotBetween:   true,
}

// IsLeafOperator reports whether op belongs to the leaf operator vocabulary.
func IsLeafOperator(op string) bool {
	return leafOperators[strings.ToLower(op)]
}

// Parse unmarshals a raw DSL document without resolving or validating it.
func Parse(raw []byte) (*Strategy, error) {
	var s Strategy
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("malformed strategy document: %w", err)
	}
	return &s, nil
}

// Load parses, resolves and validates a DSL document in one pass. On any
// fault the returned report carries every problem found, not just the first.
func Load(raw []byte) (*Strategy, *ValidationReport) {
	report := NewValidationReport()

	s, err := Parse(raw)
	if err != nil {
		report.Add("document", err.Error())
		return nil, report
	}

	Resolve(s, report)
	Validate(s, report)

	if !report.OK() {
		return nil, report
	}
	return s, report
}

// LoadFile reads and loads a DSL document from disk.
func LoadFile(path string) (*Strategy, *ValidationReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read strategy file: %w", err)
	}
	s, report := Load(raw)
	return s, report, nil
}
