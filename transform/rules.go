package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/kbukum/gorunnable/runnable"
	"github.com/kbukum/gorunnable/validation"
)

// ResponseKey is the field under which model stand-ins return their text.
const ResponseKey = "response"

// Matcher tests the text form of a stage input.
type Matcher func(text string) bool

// Contains matches text containing substr.
func Contains(substr string) Matcher {
	return func(text string) bool { return strings.Contains(text, substr) }
}

// ContainsAny matches text containing at least one of substrs.
func ContainsAny(substrs ...string) Matcher {
	return func(text string) bool {
		for _, s := range substrs {
			if strings.Contains(text, s) {
				return true
			}
		}
		return false
	}
}

// MatchFunc adapts an arbitrary test into a Matcher.
func MatchFunc(fn func(text string) bool) Matcher { return fn }

// Rule maps matching input to a canned output.
type Rule struct {
	Match  Matcher
	Output runnable.Value
}

// Rules is a deterministic model stand-in: the first rule whose matcher
// accepts input.String() supplies the output, otherwise the fallback does.
type Rules struct {
	name     string
	rules    []Rule
	fallback runnable.Value
}

// NewRules builds a Rules stage. Rules are tried in order.
func NewRules(name string, fallback runnable.Value, rules ...Rule) *Rules {
	if name == "" {
		name = "rules"
	}
	kept := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Match != nil {
			kept = append(kept, r)
		}
	}
	return &Rules{name: name, rules: kept, fallback: fallback}
}

// Name returns the stage name.
func (r *Rules) Name() string { return r.name }

// Len returns the number of rules, excluding the fallback.
func (r *Rules) Len() int { return len(r.rules) }

// Invoke returns the output of the first matching rule, or the fallback.
func (r *Rules) Invoke(_ context.Context, input runnable.Value) (runnable.Value, error) {
	text := input.String()
	for _, rule := range r.rules {
		if rule.Match(text) {
			return rule.Output, nil
		}
	}
	return r.fallback, nil
}

// Response wraps text in the {"response": text} envelope returned by
// model stand-ins.
func Response(text string) runnable.Value {
	return runnable.Record(map[string]runnable.Value{ResponseKey: runnable.Text(text)})
}

// RuleConfig is one configured rule. It matches when the input contains any
// of the Contains substrings.
type RuleConfig struct {
	Contains []string `yaml:"contains" mapstructure:"contains" validate:"required,min=1,dive,required"`
	Response string   `yaml:"response" mapstructure:"response" validate:"required"`
}

// RulesConfig configures a Rules stage from a config file.
type RulesConfig struct {
	Rules    []RuleConfig `yaml:"rules" mapstructure:"rules" validate:"dive"`
	Fallback string       `yaml:"fallback" mapstructure:"fallback" validate:"required"`
}

// RulesFromConfig validates cfg and builds a Rules stage whose outputs are
// Response envelopes.
func RulesFromConfig(name string, cfg RulesConfig) (*Rules, error) {
	if err := validation.Validate(cfg); err != nil {
		return nil, fmt.Errorf("rules %q: %w", name, err)
	}
	rules := make([]Rule, len(cfg.Rules))
	for i, rc := range cfg.Rules {
		rules[i] = Rule{Match: ContainsAny(rc.Contains...), Output: Response(rc.Response)}
	}
	return NewRules(name, Response(cfg.Fallback), rules...), nil
}
