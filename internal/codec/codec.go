// Package codec decodes YAML and JSON input files into generic JSON values
// or tagged structs. YAML is converted to JSON first so that both formats
// produce the same value types (map[string]any, []any, float64, ...).
package codec

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/apirunner/pkg/errors"
)

// Format names an input encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Anything that is
// not .json is read as YAML, which is a superset of JSON.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Decode unmarshals data into v. Unknown object keys are ignored.
func Decode(data []byte, format Format, v any) error {
	return decode(data, format, v, false)
}

// DecodeStrict is Decode but rejects object keys that v has no field for,
// so a misspelled setting is reported instead of silently dropped.
func DecodeStrict(data []byte, format Format, v any) error {
	return decode(data, format, v, true)
}

// DecodeFile reads path and decodes it by extension.
func DecodeFile(path string, v any) error {
	return decodeFile(path, v, false)
}

// DecodeFileStrict reads path and decodes it by extension, rejecting unknown keys.
func DecodeFileStrict(path string, v any) error {
	return decodeFile(path, v, true)
}

func decode(data []byte, format Format, v any, strict bool) error {
	if format != FormatJSON {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return errors.WrapParse(string(FormatYAML), "", err)
		}
		data = converted
	}
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return errors.NewParseError(string(format), "", "empty document", nil)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return errors.WrapParse(string(format), "", err)
	}
	return nil
}

func decodeFile(path string, v any, strict bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapIO("read", path, err)
	}
	if err := decode(data, FormatFromPath(path), v, strict); err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}
		return err
	}
	return nil
}

// Encode writes v as YAML or indented JSON.
func Encode(v any, format Format) ([]byte, error) {
	if format == FormatJSON {
		return json.MarshalIndent(v, "", "  ")
	}
	return yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(false), yaml.UseJSONMarshaler())
}
