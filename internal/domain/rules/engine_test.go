package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func customerCtx(age int, balance float64, supported bool) map[string]any {
	return map[string]any{
		"customer": map[string]any{
			"age":              age,
			"account_balance":  balance,
			"requires_support": supported,
			"life_stage":       "early career",
		},
	}
}

func TestEvaluate_SetValueAndTags(t *testing.T) {
	e := New([]Rule{
		{
			ID:   "senior-tone",
			Tags: []string{"personalization"},
			Conditions: ConditionGroup{
				Logic: "AND",
				Rules: []Condition{{Field: "customer.age", Operator: "greater_than", Value: 60}},
			},
			Actions: []Action{
				{Type: "set_value", Key: "tone", Value: "respectful and clear"},
				{Type: "add_tag", Tag: "senior"},
			},
		},
	})

	got := e.Evaluate(customerCtx(72, 100, false), []string{"personalization"})
	assert.Equal(t, []string{"senior-tone"}, got.MatchedRules)
	assert.Equal(t, "respectful and clear", got.Values["tone"])
	assert.Equal(t, []string{"senior"}, got.Tags)

	got = e.Evaluate(customerCtx(30, 100, false), []string{"personalization"})
	assert.Empty(t, got.MatchedRules)
}

func TestEvaluate_PriorityOrderLaterWins(t *testing.T) {
	e := New([]Rule{
		{
			ID:       "late",
			Priority: 200,
			Actions:  []Action{{Type: "set_value", Key: "tone", Value: "late"}},
		},
		{
			ID:       "early",
			Priority: 10,
			Actions:  []Action{{Type: "set_value", Key: "tone", Value: "early"}},
		},
	})

	got := e.Evaluate(map[string]any{}, nil)
	assert.Equal(t, []string{"early", "late"}, got.MatchedRules)
	assert.Equal(t, "late", got.Values["tone"])
}

func TestEvaluate_DisabledRuleSkipped(t *testing.T) {
	e := New([]Rule{
		{ID: "off", Enabled: boolPtr(false), Actions: []Action{{Type: "add_tag", Tag: "x"}}},
		{ID: "on", Actions: []Action{{Type: "add_tag", Tag: "y"}}},
	})

	got := e.Evaluate(map[string]any{}, nil)
	assert.Equal(t, []string{"on"}, got.MatchedRules)
	assert.Equal(t, []string{"y"}, got.Tags)
}

func TestEvaluate_TagFilter(t *testing.T) {
	e := New([]Rule{
		{ID: "a", Tags: []string{"personalization"}, Actions: []Action{{Type: "add_tag", Tag: "pa"}}},
		{ID: "b", Tags: []string{"analysis"}, Actions: []Action{{Type: "add_tag", Tag: "an"}}},
	})

	got := e.Evaluate(map[string]any{}, []string{"personalization"})
	assert.Equal(t, []string{"a"}, got.MatchedRules)
}

func TestMatches_ORLogic(t *testing.T) {
	e := New([]Rule{{
		ID: "or-rule",
		Conditions: ConditionGroup{
			Logic: "OR",
			Rules: []Condition{
				{Field: "customer.age", Operator: "less_than", Value: 25},
				{Field: "customer.requires_support", Operator: "is_true"},
			},
		},
		Actions: []Action{{Type: "add_tag", Tag: "extra-care"}},
	}})

	assert.NotEmpty(t, e.Evaluate(customerCtx(70, 0, true), nil).MatchedRules)
	assert.NotEmpty(t, e.Evaluate(customerCtx(20, 0, false), nil).MatchedRules)
	assert.Empty(t, e.Evaluate(customerCtx(40, 0, false), nil).MatchedRules)
}

func TestEvalCondition_Operators(t *testing.T) {
	ctx := customerCtx(35, 1500.0, false)

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"equals", Condition{Field: "customer.age", Operator: "equals", Value: 35}, true},
		{"not_equals", Condition{Field: "customer.age", Operator: "not_equals", Value: 36}, true},
		{"greater_than_or_equal", Condition{Field: "customer.age", Operator: "greater_than_or_equal", Value: 35}, true},
		{"less_than_or_equal", Condition{Field: "customer.account_balance", Operator: "less_than_or_equal", Value: 1500}, true},
		{"between", Condition{Field: "customer.age", Operator: "between", Value: []any{30, 40}}, true},
		{"between outside", Condition{Field: "customer.age", Operator: "between", Value: []any{40, 50}}, false},
		{"contains", Condition{Field: "customer.life_stage", Operator: "contains", Value: "career"}, true},
		{"not_contains", Condition{Field: "customer.life_stage", Operator: "not_contains", Value: "retire"}, true},
		{"in", Condition{Field: "customer.life_stage", Operator: "in", Value: []any{"early career", "mid-career"}}, true},
		{"not_in", Condition{Field: "customer.life_stage", Operator: "not_in", Value: []any{"retirement age"}}, true},
		{"is_false", Condition{Field: "customer.requires_support", Operator: "is_false"}, true},
		{"is_null missing field", Condition{Field: "customer.missing", Operator: "is_null"}, true},
		{"is_not_null", Condition{Field: "customer.age", Operator: "is_not_null"}, true},
		{"unknown operator", Condition{Field: "customer.age", Operator: "looks_like"}, false},
		{"string number compare", Condition{Field: "customer.account_balance", Operator: "greater_than", Value: "1000"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, evalCondition(tc.cond, ctx))
		})
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	doc := `
rules:
  - id: high-balance
    name: High balance customers
    priority: 5
    tags: [personalization]
    conditions:
      logic: AND
      rules:
        - field: customer.account_balance
          operator: greater_than
          value: 50000
    actions:
      - type: set_value
        key: tone
        value: premium
      - type: add_tag
        tag: wealth
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	e, err := Load(path)
	require.NoError(t, err)

	got := e.Evaluate(customerCtx(50, 100000, false), []string{"personalization"})
	assert.Equal(t, "premium", got.Values["tone"])
	assert.Equal(t, []string{"wealth"}, got.Tags)
}

func TestLoad_EmptyPath(t *testing.T) {
	e, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, e.Evaluate(map[string]any{}, nil).MatchedRules)
}

func TestCheckFeature(t *testing.T) {
	e := New([]Rule{{
		ID:   "sms-enabled",
		Tags: []string{"sms"},
		Conditions: ConditionGroup{
			Rules: []Condition{{Field: "customer.age", Operator: "less_than", Value: 60}},
		},
		Actions: []Action{},
	}})

	assert.True(t, e.CheckFeature("sms", customerCtx(30, 0, false)))
	assert.False(t, e.CheckFeature("sms", customerCtx(70, 0, false)))
	assert.False(t, e.CheckFeature("email", customerCtx(30, 0, false)))
}
