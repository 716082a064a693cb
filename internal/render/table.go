package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"valpipe/internal/value"
)

// Table renders vals as a markdown table. A single list is expanded into its
// elements; records contribute their columns, other values fill a "value"
// column.
func Table(vals []value.Value) string {
	if len(vals) == 1 {
		if l, ok := vals[0].(value.List); ok {
			vals = l.Vals
		}
	}
	if len(vals) == 0 {
		return "_Empty list_"
	}

	var cols []string
	seen := map[string]bool{}
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	for _, v := range vals {
		if r, ok := v.(value.Record); ok {
			for _, c := range r.Cols {
				add(c)
			}
		} else {
			add("value")
		}
	}

	out := &strings.Builder{}
	alignment := make([]tw.Align, len(cols)+1)
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}
	table := tablewriter.NewTable(out,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(append([]string{"#"}, cols...))

	for i, v := range vals {
		row := make([]string, len(cols)+1)
		row[0] = strconv.Itoa(i)
		if r, ok := v.(value.Record); ok {
			for j, c := range r.Cols {
				row[indexOf(cols, c)+1] = cell(r.Vals[j])
			}
		} else {
			row[indexOf(cols, "value")+1] = cell(v)
		}
		table.Append(row)
	}
	table.Render()

	out.WriteString(fmt.Sprintf("\n_%d rows_\n", len(vals)))
	return out.String()
}

func cell(v value.Value) string {
	return strings.ReplaceAll(Text(v), "\n", " ")
}

func indexOf(cols []string, c string) int {
	for i, x := range cols {
		if x == c {
			return i
		}
	}
	return -1
}
