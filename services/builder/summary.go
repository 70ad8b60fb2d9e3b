package builder

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderSummary prints the per-page outcome table and the skip
// counters. Rendered on success too, so partial failures stay visible
// in the automation logs.
func RenderSummary(w io.Writer, result Result) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)

	t.AppendHeader(table.Row{"page", "events", "skipped", "status"})
	for _, page := range result.Pages {
		status := "ok"
		if page.Err != nil {
			status = page.Err.Error()
		}
		t.AppendRow(table.Row{page.URL, page.Events, page.Skipped, status})
	}
	t.Render()

	fmt.Fprintf(
		w,
		"events: %d, soft skips: %d, failed pages: %d, detail failures: %d\n",
		len(result.Events),
		result.SoftSkips,
		result.FailedPages,
		result.DetailFailures,
	)
}
