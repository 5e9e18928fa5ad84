package rules

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Condition compares one dot-path context field against a value.
type Condition struct {
	Field    string `yaml:"field"`
	Operator string `yaml:"operator"`
	Value    any    `yaml:"value"`
}

// ConditionGroup combines conditions with AND/OR logic.
type ConditionGroup struct {
	Logic string      `yaml:"logic"`
	Rules []Condition `yaml:"rules"`
}

// Action applies when a rule's conditions hold.
type Action struct {
	Type  string `yaml:"type"` // set_value | add_tag | log
	Key   string `yaml:"key"`
	Value any    `yaml:"value"`
	Tag   string `yaml:"tag"`
}

// Rule is one configurable business rule.
type Rule struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Enabled     *bool          `yaml:"enabled"`
	Priority    int            `yaml:"priority"`
	Conditions  ConditionGroup `yaml:"conditions"`
	Actions     []Action       `yaml:"actions"`
	Tags        []string       `yaml:"tags"`
}

func (r *Rule) enabled() bool { return r.Enabled == nil || *r.Enabled }

func (r *Rule) priority() int {
	if r.Priority == 0 {
		return 100
	}
	return r.Priority
}

// Evaluation is the outcome of one engine pass.
type Evaluation struct {
	MatchedRules []string       `json:"matched_rules"`
	Values       map[string]any `json:"values"`
	Tags         []string       `json:"tags"`
	Logs         []string       `json:"logs"`
}

// Engine evaluates yaml-configured business rules against a context map.
type Engine struct {
	rules []Rule
}

// Load reads a rules file. A missing path yields an empty engine rather than
// an error so rules stay optional.
func Load(path string) (*Engine, error) {
	if path == "" {
		return &Engine{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rules load: %w", err)
	}
	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rules parse: %w", err)
	}
	return New(doc.Rules), nil
}

// New builds an engine over an in-memory rule set.
func New(rs []Rule) *Engine {
	sorted := make([]Rule, len(rs))
	copy(sorted, rs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].priority() < sorted[j].priority() })
	return &Engine{rules: sorted}
}

// Evaluate runs all enabled rules, optionally filtered by tag, in priority
// order. Later rules can overwrite values set by earlier ones.
func (e *Engine) Evaluate(ctx map[string]any, tags []string) Evaluation {
	out := Evaluation{Values: map[string]any{}, MatchedRules: []string{}, Tags: []string{}, Logs: []string{}}
	for i := range e.rules {
		r := &e.rules[i]
		if !r.enabled() || !hasAnyTag(r.Tags, tags) {
			continue
		}
		if !e.matches(r, ctx) {
			continue
		}
		out.MatchedRules = append(out.MatchedRules, r.ID)
		for _, a := range r.Actions {
			switch a.Type {
			case "set_value":
				out.Values[a.Key] = a.Value
			case "add_tag":
				out.Tags = append(out.Tags, a.Tag)
			case "log":
				out.Logs = append(out.Logs, fmt.Sprintf("rule=%s %v", r.ID, a.Value))
			}
		}
	}
	return out
}

// CheckFeature reports whether any rule tagged with the feature name matches.
func (e *Engine) CheckFeature(feature string, ctx map[string]any) bool {
	for i := range e.rules {
		r := &e.rules[i]
		if !r.enabled() || !hasTag(r.Tags, feature) {
			continue
		}
		if e.matches(r, ctx) {
			return true
		}
	}
	return false
}

func (e *Engine) matches(r *Rule, ctx map[string]any) bool {
	if len(r.Conditions.Rules) == 0 {
		return true
	}
	logic := strings.ToUpper(r.Conditions.Logic)
	if logic == "" {
		logic = "AND"
	}
	switch logic {
	case "AND":
		for _, c := range r.Conditions.Rules {
			if !evalCondition(c, ctx) {
				return false
			}
		}
		return true
	case "OR":
		for _, c := range r.Conditions.Rules {
			if evalCondition(c, ctx) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func evalCondition(c Condition, ctx map[string]any) bool {
	actual := lookup(ctx, c.Field)
	switch c.Operator {
	case "equals":
		return fmt.Sprint(actual) == fmt.Sprint(c.Value)
	case "not_equals":
		return fmt.Sprint(actual) != fmt.Sprint(c.Value)
	case "greater_than":
		a, b, ok := floats(actual, c.Value)
		return ok && a > b
	case "greater_than_or_equal":
		a, b, ok := floats(actual, c.Value)
		return ok && a >= b
	case "less_than":
		a, b, ok := floats(actual, c.Value)
		return ok && a < b
	case "less_than_or_equal":
		a, b, ok := floats(actual, c.Value)
		return ok && a <= b
	case "contains":
		return actual != nil && strings.Contains(fmt.Sprint(actual), fmt.Sprint(c.Value))
	case "not_contains":
		return actual != nil && !strings.Contains(fmt.Sprint(actual), fmt.Sprint(c.Value))
	case "in":
		return inList(actual, c.Value, true)
	case "not_in":
		return inList(actual, c.Value, false)
	case "between":
		list, ok := c.Value.([]any)
		if !ok || len(list) != 2 {
			return false
		}
		a, lo, ok1 := floats(actual, list[0])
		_, hi, ok2 := floats(actual, list[1])
		return ok1 && ok2 && lo <= a && a <= hi
	case "is_true":
		b, ok := actual.(bool)
		return ok && b
	case "is_false":
		b, ok := actual.(bool)
		return ok && !b
	case "is_null":
		return actual == nil
	case "is_not_null":
		return actual != nil
	default:
		return false
	}
}

func inList(actual, value any, want bool) bool {
	list, ok := value.([]any)
	if !ok {
		return false
	}
	for _, v := range list {
		if fmt.Sprint(v) == fmt.Sprint(actual) {
			return want
		}
	}
	return !want
}

// lookup walks a dot-separated path through nested maps.
func lookup(ctx map[string]any, path string) any {
	if path == "" {
		return nil
	}
	var cur any = ctx
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	return cur
}

func floats(a, b any) (float64, float64, bool) {
	fa, ok1 := toFloat(a)
	fb, ok2 := toFloat(b)
	return fa, fb, ok1 && ok2
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// hasAnyTag is permissive: no filter means every rule qualifies.
func hasAnyTag(ruleTags, filter []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		if hasTag(ruleTags, f) {
			return true
		}
	}
	return false
}
