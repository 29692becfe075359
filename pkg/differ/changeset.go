package differ

import (
	"fmt"
	"sort"
	"strings"
)

// Change records one field's transition.
type Change struct {
	From any `json:"from" yaml:"from"`
	To   any `json:"to" yaml:"to"`
}

// Diff maps field names to their changes. An empty Diff means no change.
type Diff map[string]Change

// HasChanges returns true if any field changed.
func (d Diff) HasChanges() bool {
	return len(d) > 0
}

// Fields returns the changed field names in sorted order.
func (d Diff) Fields() []string {
	fields := make([]string, 0, len(d))
	for field := range d {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// String returns a human-readable summary of the diff.
func (d Diff) String() string {
	if !d.HasChanges() {
		return "No changes"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d changed field(s):\n", len(d))
	for _, field := range d.Fields() {
		c := d[field]
		fmt.Fprintf(&sb, "  ~ %s: %s -> %s\n", field, formatValue(c.From), formatValue(c.To))
	}
	return sb.String()
}

// formatValue renders a value for display, truncating long encodings.
func formatValue(v any) string {
	if v == nil {
		return "(none)"
	}
	b, err := Canonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return truncateString(string(b), 50)
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
