// Package differ detects property changes between the state a remote
// system reports and freshly computed values.
//
// Equality is structural: two values are equal iff their canonical JSON
// encodings are identical. Object keys are sorted recursively, so property
// order never causes a change, while types still matter (1 and "1" differ).
package differ

import (
	"bytes"
	"encoding/json"
)

// Differ handles change detection between property sets.
type Differ interface {
	// Properties returns the fields of next whose value differs from
	// current. Fields present only in current are not reported.
	Properties(current, next map[string]any) Diff
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields map[string]bool
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields: make(map[string]bool),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

var defaultDiffer = New()

// Properties compares two property sets with the default Differ.
func Properties(current, next map[string]any) Diff {
	return defaultDiffer.Properties(current, next)
}

// Properties implements Differ.
func (diff *differ) Properties(current, next map[string]any) Diff {
	changes := Diff{}
	for field, to := range next {
		if diff.ignoreFields[field] {
			continue
		}
		from, exists := current[field]
		if exists && Equal(from, to) {
			continue
		}
		changes[field] = Change{From: from, To: to}
	}
	return changes
}

// Equal reports whether a and b have the same canonical JSON encoding.
// Values that cannot be encoded are never equal.
func Equal(a, b any) bool {
	ca, err := Canonical(a)
	if err != nil {
		return false
	}
	cb, err := Canonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

// Canonical returns the canonical JSON encoding of v: object keys sorted at
// every level, no insignificant whitespace.
//
// Values are first decoded into generic JSON values, so structs, typed maps
// and numbers of any Go type encode the same way their JSON would.
func Canonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	// encoding/json writes map keys in sorted order.
	return json.Marshal(generic)
}
