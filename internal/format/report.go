package format

import (
	"fmt"
	"strings"

	"github.com/nibzard/task-manager/internal/query"
	"github.com/nibzard/task-manager/internal/service"
)

func reportRange(r *service.TimeReport) string {
	switch {
	case r.Start != "" && r.End != "":
		return fmt.Sprintf("%s to %s", r.Start, r.End)
	case r.Start != "":
		return "since " + r.Start
	case r.End != "":
		return "until " + r.End
	}
	return "all time"
}

func groupTitle(by query.GroupField) string {
	if by == query.ByClient {
		return "By Client/Employer:"
	}
	return "By Project:"
}

// TimeReport renders logged hours per project or client.
func TimeReport(r *service.TimeReport, st Styles) string {
	if len(r.Rows) == 0 {
		return fmt.Sprintf("No time logged (%s).", reportRange(r))
	}
	var b strings.Builder
	b.WriteString(st.Render(st.Title, fmt.Sprintf("Time Report (%s)", reportRange(r))) + "\n\n")
	b.WriteString(groupTitle(r.GroupBy) + "\n")
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "  %-20s: %8.1f hours (%d tasks)\n", row.Key, row.Hours, row.Tasks)
	}
	fmt.Fprintf(&b, "\nTotal: %.1f hours", r.Total)
	return b.String()
}
