package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/apirunner/pkg/dataset"
	"github.com/agentstation/apirunner/pkg/differ"
	"github.com/agentstation/apirunner/pkg/hubspot"
	"github.com/agentstation/apirunner/pkg/proxy"
)

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "JSON", "yaml", "wide", ""} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestJSONAndYAMLFormatters(t *testing.T) {
	data := map[string]any{"statusText": "OK", "count": 2}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, data))
	assert.JSONEq(t, `{"statusText":"OK","count":2}`, buf.String())

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, data))
	assert.Contains(t, buf.String(), "statusText: OK")
	assert.Contains(t, buf.String(), "count: 2")
}

func TestTableFormatterObjects(t *testing.T) {
	rows := []map[string]any{
		{"id": 1, "email": "a@b.com"},
		{"id": 2, "phone": "555"},
	}
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, rows))

	out := buf.String()
	for _, want := range []string{"EMAIL", "ID", "PHONE", "a@b.com", "555"} {
		assert.Contains(t, strings.ToUpper(out), strings.ToUpper(want))
	}
}

func TestTableFormatterFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, []int{1, 2}))
	assert.JSONEq(t, `[1,2]`, buf.String())
}

func TestTableFormatterTruncates(t *testing.T) {
	long := strings.Repeat("x", narrowCellWidth+10)
	f := &TableFormatter{}
	assert.Len(t, []rune(f.cell(long)), narrowCellWidth)
	assert.Equal(t, long, (&TableFormatter{Wide: true}).cell(long))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Status Text", Title("statusText"))
	assert.Equal(t, "Match Email", Title("match_email"))
	assert.Equal(t, "Id", Title("id"))
}

func TestCell(t *testing.T) {
	assert.Equal(t, "", Cell(nil))
	assert.Equal(t, "a", Cell("a"))
	assert.Equal(t, "1.5", Cell(1.5))
	assert.Equal(t, "true", Cell(true))
	assert.Equal(t, `{"a":[1,2]}`, Cell(map[string]any{"a": []any{1, 2}}))
}

func TestDatasetRows(t *testing.T) {
	ds := &dataset.BuiltDataset{Rows: []dataset.Row{
		map[string]any{"id": float64(1)},
		dataset.ErrorRow(proxy.Response{Status: 500, StatusText: "Internal Server Error"}),
	}}
	data := DatasetRows(ds)
	assert.Len(t, data.Rows, 2)
	assert.Contains(t, data.Headers, "Id")

	scalars := DatasetRows(&dataset.BuiltDataset{Rows: []dataset.Row{"a", float64(2)}})
	assert.Equal(t, []string{"Value"}, scalars.Headers)
	assert.Equal(t, [][]string{{"a"}, {"2"}}, scalars.Rows)
}

func TestResponse(t *testing.T) {
	raw := "not json"
	data := Response(proxy.Response{Status: 502, StatusText: "Bad Gateway", RawText: &raw, DurationMs: 12})
	require.Len(t, data.Rows, 1)
	assert.Equal(t, []string{"false", "502", "Bad Gateway", "12ms", "not json"}, data.Rows[0])
}

func TestPlan(t *testing.T) {
	create := Plan(hubspot.Plan{
		Action:     hubspot.ActionCreate,
		MatchEmail: "a@b.com",
		Properties: map[string]any{"firstname": "A", "email": "a@b.com"},
	})
	require.Len(t, create.Rows, 2)
	assert.Equal(t, "email", create.Rows[0][3])

	update := Plan(hubspot.Plan{
		Action:     hubspot.ActionUpdate,
		ID:         "42",
		Properties: map[string]any{"firstname": "New", "email": "a@b.com"},
		Diff:       differ.Diff{"firstname": {From: "Old", To: "New"}},
	})
	require.Len(t, update.Rows, 1)
	assert.Equal(t, []string{"update", "42", "", "firstname", "New"}, update.Rows[0])

	noop := Plan(hubspot.Plan{Action: hubspot.ActionNoop, ID: "42"})
	assert.Equal(t, [][]string{{"noop", "42", "", "", ""}}, noop.Rows)
}
