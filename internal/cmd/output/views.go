package output

import (
	"slices"
	"strconv"

	"github.com/agentstation/apirunner/pkg/dataset"
	"github.com/agentstation/apirunner/pkg/hubspot"
	"github.com/agentstation/apirunner/pkg/proxy"
)

// DatasetRows renders dataset rows, one table row per dataset row. Error
// rows show their "__error" column.
func DatasetRows(ds *dataset.BuiltDataset) Data {
	items := make([]any, 0, len(ds.Rows))
	items = append(items, ds.Rows...)
	if data := objectsToTableData(items); data != nil {
		return *data
	}

	// Scalar or mixed rows get a single column.
	rows := make([][]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		rows = append(rows, []string{Cell(row)})
	}
	return Data{Headers: []string{"Value"}, Rows: rows}
}

// DatasetNames renders the saved dataset names.
func DatasetNames(names []string) Data {
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name})
	}
	return Data{Headers: []string{"Dataset"}, Rows: rows}
}

// Response renders the status line of a proxied call. The body is left to
// structured formats.
func Response(resp proxy.Response) Data {
	body := ""
	switch {
	case resp.HasData:
		body = Cell(resp.Data)
	case resp.RawText != nil:
		body = *resp.RawText
	}
	return Data{
		Headers: []string{"OK", "Status", "Status Text", "Duration", "Body"},
		Rows: [][]string{{
			strconv.FormatBool(resp.OK),
			strconv.Itoa(resp.Status),
			resp.StatusText,
			strconv.FormatInt(resp.DurationMs, 10) + "ms",
			body,
		}},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignLeft, AlignRight, AlignLeft},
	}
}

// Plan renders an upsert plan with one row per changed field. Creates list
// every property.
func Plan(plan hubspot.Plan) Data {
	data := Data{
		Headers: []string{"Action", "ID", "Match Email", "Field", "Value"},
	}
	fields := plan.Diff.Fields()
	if plan.Action == hubspot.ActionCreate {
		fields = sortedKeys(plan.Properties)
	}
	if len(fields) == 0 {
		data.Rows = [][]string{{plan.Action.String(), plan.ID, plan.MatchEmail, "", ""}}
		return data
	}
	for _, field := range fields {
		data.Rows = append(data.Rows, []string{
			plan.Action.String(), plan.ID, plan.MatchEmail, field, Cell(plan.Properties[field]),
		})
	}
	return data
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
