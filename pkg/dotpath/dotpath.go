// Package dotpath resolves dot-delimited paths ("data.items.0.id") inside
// schema-free JSON values as produced by encoding/json: map[string]any,
// []any, string, float64, bool and nil.
//
// A missing segment yields found=false rather than an error. Paths that start
// with "$." or "$[" are tried as JSONPath expressions first; any other path,
// including keys such as "$id", is walked segment by segment.
package dotpath

import (
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// Get walks value along path. An empty path returns value itself.
//
// Each segment indexes the current value: object keys for maps, decimal
// indexes for arrays. Anything else, or a missing key, stops the walk with
// found=false. A JSON null that is present is returned with found=true.
func Get(value any, path string) (any, bool) {
	if isJSONPath(path) {
		if v, ok := getJSONPath(value, path); ok {
			return v, true
		}
	}
	if path == "" {
		return value, true
	}

	current := value
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// Array resolves path and returns the value as a slice. Anything that is not
// an array, including a missing path, is reported as an empty slice.
func Array(value any, path string) []any {
	v, ok := Get(value, path)
	if !ok {
		return []any{}
	}
	if items, ok := v.([]any); ok {
		return items
	}
	return []any{}
}

// String resolves path and renders a scalar the way it would appear in a URL.
// Objects, arrays, null and missing values report ok=false.
func String(value any, path string) (string, bool) {
	v, ok := Get(value, path)
	if !ok {
		return "", false
	}
	return Stringify(v)
}

// Stringify renders a JSON scalar as text. Whole numbers print without a
// decimal point so an id of 42 becomes "42".
func Stringify(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

func isJSONPath(path string) bool {
	return strings.HasPrefix(path, "$.") || strings.HasPrefix(path, "$[")
}

// getJSONPath evaluates a JSONPath expression. A single match is returned
// as-is; several matches are returned as an array.
func getJSONPath(value any, path string) (any, bool) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, false
	}
	results := expr.Get(value)
	switch len(results) {
	case 0:
		return nil, false
	case 1:
		return results[0], true
	default:
		return results, true
	}
}
