package mapping

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/apirunner/pkg/dotpath"
)

// transforms are the named transforms rule files may reference. Each one
// passes values it does not understand through unchanged.
var transforms = map[string]TransformFunc{
	"trim":   stringTransform(strings.TrimSpace),
	"lower":  stringTransform(strings.ToLower),
	"upper":  stringTransform(strings.ToUpper),
	"title":  stringTransform(title),
	"string": toString,
	"number": toNumber,
}

// Transforms returns the names of the built-in transforms.
func Transforms() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a named transform. It is not safe to call
// concurrently with MapRecord.
func Register(name string, fn TransformFunc) {
	transforms[name] = fn
}

func stringTransform(fn func(string) string) TransformFunc {
	return func(v any) any {
		if s, ok := v.(string); ok {
			return fn(s)
		}
		return v
	}
}

// title builds a fresh Caser per call since Casers keep state.
func title(s string) string {
	return cases.Title(language.Und).String(s)
}

func toString(v any) any {
	if s, ok := dotpath.Stringify(v); ok {
		return s
	}
	return v
}

func toNumber(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return v
	}
	return f
}
