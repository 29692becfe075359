// Package dataset builds bounded, ordered datasets from a list call and
// optional per-item detail calls.
//
// A failed list call is fatal and reported as an error. A failed detail call
// only replaces its own row with an error marker; the remaining items are
// still fetched.
package dataset

import (
	"encoding/json"
	"time"

	"github.com/agentstation/apirunner/pkg/proxy"
)

// Row is one dataset record: a list item, a detail body, or an error marker.
type Row = any

// BuiltDataset is the result of one Build. It is not modified afterwards.
type BuiltDataset struct {
	SourceName string    `json:"sourceName,omitempty" yaml:"sourceName,omitempty"`
	Rows       []Row     `json:"rows" yaml:"rows"`
	BuiltAt    time.Time `json:"builtAt,omitzero" yaml:"builtAt,omitempty"`
	Count      int       `json:"count,omitempty" yaml:"count,omitempty"`
}

// Errors counts the error marker rows.
func (d *BuiltDataset) Errors() int {
	n := 0
	for _, row := range d.Rows {
		if IsErrorRow(row) {
			n++
		}
	}
	return n
}

// UnmarshalJSON restores a dataset, filling Count for blobs saved without it.
func (d *BuiltDataset) UnmarshalJSON(b []byte) error {
	type plain BuiltDataset
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	if p.Rows == nil {
		p.Rows = []Row{}
	}
	if p.Count == 0 {
		p.Count = len(p.Rows)
	}
	*d = BuiltDataset(p)
	return nil
}

// errorMarker is the key flagging a failed detail row.
const errorMarker = "__error"

// ErrorRow builds the in-band marker recorded for a failed detail call.
func ErrorRow(resp proxy.Response) map[string]any {
	return map[string]any{
		errorMarker:  true,
		"status":     resp.Status,
		"statusText": resp.StatusText,
	}
}

// IsErrorRow reports whether row is an error marker.
func IsErrorRow(row Row) bool {
	m, ok := row.(map[string]any)
	if !ok {
		return false
	}
	flag, _ := m[errorMarker].(bool)
	return flag
}
