// Package cmdutil provides helpers shared by apirunner commands.
package cmdutil

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/apirunner/cmd/application"
	"github.com/agentstation/apirunner/internal/cmd/output"
	"github.com/agentstation/apirunner/pkg/errors"
)

// Write renders v in the configured output format. Table formats use
// table when given and fall back to generic rendering of v.
func Write(cmd *cobra.Command, app application.Application, v any, table *output.Data) error {
	format, err := output.ParseFormat(string(output.DetectFormat(app.OutputFormat())))
	if err != nil {
		return err
	}
	formatter := output.NewFormatter(format)
	if table != nil && (format == output.FormatTable || format == output.FormatWide) {
		return formatter.Format(cmd.OutOrStdout(), *table)
	}
	return formatter.Format(cmd.OutOrStdout(), v)
}

// ReadJSON reads a JSON document from path, or from stdin when path is
// "-". The bytes are returned undecoded.
func ReadJSON(cmd *cobra.Command, path string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	if !json.Valid(data) {
		return nil, errors.NewParseError("json", path, "not a valid JSON document", nil)
	}
	return data, nil
}

// IsStructured reports whether the configured format is JSON or YAML, in
// which case commands print no decorative status lines.
func IsStructured(app application.Application) bool {
	switch output.DetectFormat(strings.ToLower(app.OutputFormat())) {
	case output.FormatJSON, output.FormatYAML:
		return true
	}
	return false
}
