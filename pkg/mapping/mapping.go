// Package mapping projects arbitrary external records onto a flat property
// set using an ordered list of rules.
package mapping

import (
	"github.com/agentstation/apirunner/internal/codec"
	"github.com/agentstation/apirunner/pkg/dotpath"
	"github.com/agentstation/apirunner/pkg/errors"
)

// TransformFunc maps one value to another. It must be pure.
type TransformFunc func(any) any

// Rule copies the value at From (a dot path into the source record) to the
// To property, passing it through the named transform or Func when set.
type Rule struct {
	From      string        `json:"from" yaml:"from"`
	To        string        `json:"to" yaml:"to"`
	Transform string        `json:"transform,omitempty" yaml:"transform,omitempty"`
	Func      TransformFunc `json:"-" yaml:"-"`
}

// MapRecord applies rules in order to record. Values that do not resolve
// are omitted from the result rather than written as null. A later rule
// writing the same property wins.
func MapRecord(rules []Rule, record any) map[string]any {
	out := make(map[string]any, len(rules))
	for _, rule := range rules {
		value, ok := dotpath.Get(record, rule.From)
		if !ok {
			continue
		}
		if fn := rule.transform(); fn != nil {
			value = fn(value)
		}
		out[rule.To] = value
	}
	return out
}

func (r Rule) transform() TransformFunc {
	if r.Func != nil {
		return r.Func
	}
	if r.Transform == "" {
		return nil
	}
	return transforms[r.Transform]
}

// Validate checks that every rule has a target and a known transform.
func Validate(rules []Rule) error {
	for i, rule := range rules {
		if rule.To == "" {
			return errors.NewValidationError("rules.to", i, "target property is required")
		}
		if rule.Transform != "" && rule.Func == nil {
			if _, ok := transforms[rule.Transform]; !ok {
				return errors.NewValidationError("rules.transform", rule.Transform, "unknown transform")
			}
		}
	}
	return nil
}

// ParseRules decodes a rule list from YAML or JSON.
func ParseRules(data []byte, format string) ([]Rule, error) {
	var rules []Rule
	if err := codec.DecodeStrict(data, codec.Format(format), &rules); err != nil {
		return nil, err
	}
	if err := Validate(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// LoadRules reads a rule file by extension.
func LoadRules(path string) ([]Rule, error) {
	var rules []Rule
	if err := codec.DecodeFileStrict(path, &rules); err != nil {
		return nil, err
	}
	if err := Validate(rules); err != nil {
		return nil, err
	}
	return rules, nil
}
