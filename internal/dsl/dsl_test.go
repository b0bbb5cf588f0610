package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDocument() string {
	return `{
		"dsl_version": "1.0",
		"name": "rsi_reversal",
		"constants": {
			"rsi_oversold": 30,
			"rsi_overbought": 70,
			"rsi_len": 14
		},
		"indicators": [
			{
				"name": "rsi_main",
				"type": "rsi",
				"params": {"length": "@rsi_len"},
				"outputs": {"primary_output_column": "rsi_14"}
			},
			{
				"name": "atr_main",
				"type": "atr",
				"params": {"length": 14},
				"outputs": {"primary_output_column": "atr_14"}
			}
		],
		"signal_rules": [
			{
				"rule_name": "oversold_bounce",
				"conditions_group": {
					"operator": "AND",
					"conditions": [
						{"operator": "<", "series1": "rsi_14", "series2_or_value": "@rsi_oversold"},
						{"operator": "is_rising", "series1": "rsi_14"}
					]
				},
				"action_on_true": {"signal_type": "CALL", "strength": 7, "profit_cap_pct": 10}
			},
			{
				"rule_name": "overbought_fade",
				"conditions_group": {
					"operator": ">",
					"series1": "rsi_14",
					"series2_or_value": "@rsi_overbought"
				},
				"action_on_true": {"signal_type": "PUT", "strength": -3, "profit_cap_pct": 5}
			}
		],
		"default_action_on_no_match": {"signal_type": "NEUTRAL", "strength": 0}
	}`
}

// TestLoad_ValidDocument verifies a well-formed document loads cleanly and
// comes back fully resolved.
func TestLoad_ValidDocument(t *testing.T) {
	s, report := Load([]byte(validDocument()))

	require.True(t, report.OK(), report.Error())
	require.NotNil(t, s)
	assert.Equal(t, "1.0", s.DSLVersion)
	assert.Len(t, s.Indicators, 2)
	assert.Len(t, s.SignalRules, 2)

	// constant references were rewritten to literals
	assert.EqualValues(t, 14, s.Indicators[0].IntParam("length", 0))
	leaf := s.SignalRules[0].ConditionsGroup.Conditions[0]
	assert.EqualValues(t, 30, leaf.Series2OrValue)
}

// TestLoad_UnresolvedConstant verifies an unknown @reference is reported
// with its document path.
func TestLoad_UnresolvedConstant(t *testing.T) {
	doc := `{
		"dsl_version": "1.0",
		"constants": {},
		"indicators": [
			{"name": "r", "type": "rsi", "params": {"length": "@missing"}, "outputs": {"primary_output_column": "rsi"}}
		],
		"signal_rules": [],
		"default_action_on_no_match": {"signal_type": "NEUTRAL", "strength": 0}
	}`

	s, report := Load([]byte(doc))

	assert.Nil(t, s)
	require.False(t, report.OK())
	assert.Contains(t, report.Error(), "unresolved constant reference")
	assert.Contains(t, report.Error(), "indicators[0].params.length")
}

// TestLoad_CollectsAllFaults verifies validation reports every problem,
// not just the first one.
func TestLoad_CollectsAllFaults(t *testing.T) {
	doc := `{
		"constants": {},
		"indicators": [
			{"name": "a", "type": "nope", "params": {}, "outputs": {"primary_output_column": "x"}},
			{"name": "a", "type": "rsi", "params": {"length": -3}, "outputs": {"primary_output_column": "close"}}
		],
		"signal_rules": [
			{
				"rule_name": "bad",
				"conditions_group": {"operator": "~~", "series1": "ghost", "series2_or_value": 1},
				"action_on_true": {"signal_type": "CALL", "strength": 4, "profit_cap_pct": 5}
			}
		],
		"default_action_on_no_match": {"signal_type": "NEUTRAL", "strength": 0}
	}`

	s, report := Load([]byte(doc))

	assert.Nil(t, s)
	require.False(t, report.OK())
	// missing version, unknown type, duplicate name, bad param, shadowed
	// base column, unknown operator, strength off the scale
	assert.GreaterOrEqual(t, len(report.Faults()), 5)
}

// TestLoad_MalformedJSON verifies a syntax error surfaces as a document
// fault rather than a panic.
func TestLoad_MalformedJSON(t *testing.T) {
	s, report := Load([]byte(`{"dsl_version": `))

	assert.Nil(t, s)
	assert.False(t, report.OK())
}

// TestValidate_UndefinedColumnReference verifies conditions may only read
// declared output columns or base OHLCV columns.
func TestValidate_UndefinedColumnReference(t *testing.T) {
	doc := `{
		"dsl_version": "1.0",
		"constants": {},
		"indicators": [
			{"name": "r", "type": "rsi", "params": {"length": 14}, "outputs": {"primary_output_column": "rsi_14"}}
		],
		"signal_rules": [
			{
				"rule_name": "ghost_read",
				"conditions_group": {"operator": ">", "series1": "macd_line", "series2_or_value": 0},
				"action_on_true": {"signal_type": "CALL", "strength": 3, "profit_cap_pct": 5}
			}
		],
		"default_action_on_no_match": {"signal_type": "NEUTRAL", "strength": 0}
	}`

	s, report := Load([]byte(doc))

	assert.Nil(t, s)
	require.False(t, report.OK())
	assert.Contains(t, report.Error(), "macd_line")
}

// TestValidate_ComponentMapKeys verifies component_output_map keys must
// match the indicator's raw output keys, with float-form params accepted.
func TestValidate_ComponentMapKeys(t *testing.T) {
	doc := `{
		"dsl_version": "1.0",
		"constants": {},
		"indicators": [
			{
				"name": "bb",
				"type": "bbands",
				"params": {"length": 20, "std": 2.0},
				"outputs": {
					"primary_output_column": "bb_mid",
					"component_output_map": {
						"BBM_20_2.0": "bb_mid",
						"BBL_20_2.0": "bb_lower",
						"BBU_20_2.0": "bb_upper"
					}
				}
			}
		],
		"signal_rules": [
			{
				"rule_name": "squeeze",
				"conditions_group": {"operator": "<", "series1": "close", "series2_or_value": "bb_lower"},
				"action_on_true": {"signal_type": "CALL", "strength": 3, "profit_cap_pct": 5}
			}
		],
		"default_action_on_no_match": {"signal_type": "NEUTRAL", "strength": 0}
	}`

	s, report := Load([]byte(doc))
	require.True(t, report.OK(), report.Error())
	require.NotNil(t, s)
}

// TestValidate_StrengthScale verifies actions must use the discrete
// strength scale with a sign matching the signal type.
func TestValidate_StrengthScale(t *testing.T) {
	doc := `{
		"dsl_version": "1.0",
		"constants": {},
		"indicators": [],
		"signal_rules": [
			{
				"rule_name": "wrong_sign",
				"conditions_group": {"operator": ">", "series1": "close", "series2_or_value": 0},
				"action_on_true": {"signal_type": "PUT", "strength": 7, "profit_cap_pct": 5}
			}
		],
		"default_action_on_no_match": {"signal_type": "NEUTRAL", "strength": 0}
	}`

	s, report := Load([]byte(doc))

	assert.Nil(t, s)
	assert.False(t, report.OK())
}

// TestNormalizeOutputKey verifies integral float segments collapse so
// "2.0" and "2" style keys compare equal.
func TestNormalizeOutputKey(t *testing.T) {
	assert.Equal(t, NormalizeOutputKey("BBL_20_2"), NormalizeOutputKey("BBL_20_2.0"))
	assert.NotEqual(t, NormalizeOutputKey("BBL_20_2.5"), NormalizeOutputKey("BBL_20_2"))
	assert.Equal(t, NormalizeOutputKey("MACD_12_26_9"), NormalizeOutputKey("MACD_12_26_9"))
}

// TestRawOutputKeys_PrimaryFirst verifies the primary series leads the
// raw key order for every multi-output type.
func TestRawOutputKeys_PrimaryFirst(t *testing.T) {
	macd := IndicatorSpec{Type: TypeMACD, Params: map[string]interface{}{"fast": 12, "slow": 26, "signal": 9}}
	keys := macd.RawOutputKeys()
	require.NotEmpty(t, keys)
	assert.Equal(t, "MACD_12_26_9", keys[0])

	dc := IndicatorSpec{Type: TypeDonchian, Params: map[string]interface{}{"length": 20}}
	keys = dc.RawOutputKeys()
	require.NotEmpty(t, keys)
	assert.Equal(t, "DCM_20", keys[0])
}
