package format

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/nibzard/task-manager/internal/query"
	"github.com/nibzard/task-manager/internal/service"
)

var (
	pdfHeaders   = []string{"Date", "Task", "Description", "Hours"}
	pdfGridSizes = []uint{2, 5, 3, 2}
	pdfStripe    = color.Color{Red: 240, Green: 240, Blue: 240}
)

func pdfTable() props.TableList {
	return props.TableList{
		HeaderProp: props.TableListContent{
			Size:      10,
			GridSizes: pdfGridSizes,
		},
		ContentProp: props.TableListContent{
			Size:      9,
			GridSizes: pdfGridSizes,
		},
		Align:                consts.Left,
		AlternatedBackground: &pdfStripe,
		HeaderContentSpace:   1,
	}
}

// buildTimeReportPDF lays out one table per project or client with a
// subtotal, then the grand total.
func buildTimeReportPDF(r *service.TimeReport) pdf.Maroto {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("Time Report", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text(reportRange(r), props.Text{
					Top:   2,
					Align: consts.Center,
					Size:  11,
				})
			})
		})
	})

	if len(r.Rows) == 0 {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("No time logged.", props.Text{Top: 5, Size: 11})
			})
		})
	}

	for _, row := range r.Rows {
		entries := entriesFor(r.Entries, r.GroupBy, row.Key)
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{
				e.Log.Date,
				fmt.Sprintf("#%d %s", e.Task.ID, e.Task.Description),
				e.Log.Description,
				fmt.Sprintf("%.2f", e.Log.Hours),
			})
		}

		m.Row(10, func() {
			m.Col(12, func() {
				m.Text(row.Key, props.Text{
					Top:   5,
					Style: consts.Bold,
					Size:  12,
				})
			})
		})
		m.TableList(pdfHeaders, rows, pdfTable())
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("Subtotal: %.2f hours", row.Hours), props.Text{
					Style: consts.Bold,
					Align: consts.Right,
					Size:  10,
				})
			})
		})
		m.Row(4, func() {})
	}

	m.Row(16, func() {
		m.Col(12, func() {
			m.Text(fmt.Sprintf("Total: %.2f hours", r.Total), props.Text{
				Top:   6,
				Style: consts.Bold,
				Align: consts.Right,
				Size:  12,
			})
		})
	})
	return m
}

// entriesFor returns the entries grouped under key, oldest first.
func entriesFor(entries []query.LogEntry, by query.GroupField, key string) []query.LogEntry {
	var out []query.LogEntry
	for _, e := range entries {
		if e.Key(by) == key {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b query.LogEntry) int {
		return cmp.Compare(a.Log.Date, b.Log.Date)
	})
	return out
}

// TimeReportPDF renders the report to PDF bytes.
func TimeReportPDF(r *service.TimeReport) ([]byte, error) {
	buf, err := buildTimeReportPDF(r).Output()
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTimeReportPDF renders the report to a PDF file at path.
func WriteTimeReportPDF(path string, r *service.TimeReport) error {
	if err := buildTimeReportPDF(r).OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}
