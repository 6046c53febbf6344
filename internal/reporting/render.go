package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"mailtrace/internal/aggregation"
)

// Renderer writes a finished report. The projection decided every cell's
// text; renderers only lay it out.
type Renderer interface {
	Render(w io.Writer, sum Summary, rows []Row) error
}

// NewRenderer returns the renderer for a format name; format names are
// validated by config, so unknown ones fall back to the table.
func NewRenderer(format string, useColor bool) Renderer {
	switch format {
	case "json":
		return &JSONRenderer{}
	case "csv":
		return &CSVRenderer{}
	default:
		return &TableRenderer{Color: useColor}
	}
}

type TableRenderer struct {
	Color bool
}

var (
	alertColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
)

func (r *TableRenderer) Render(w io.Writer, sum Summary, rows []Row) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No matching delivery records found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tFROM\tTO\tSIZE\tSTATUS\tRELAY")
	for _, row := range rows {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s", row.Time, row.From, row.To, row.Size, row.Status, row.AlternateRelay)
		fmt.Fprintln(tw, r.colorize(line, row.Tag))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal matching emails: %d\n", sum.Total)
	for _, status := range []aggregation.Status{
		aggregation.StatusSent, aggregation.StatusDeferred, aggregation.StatusBounced,
		aggregation.StatusBlocked, aggregation.StatusPending,
	} {
		if n := sum.Count(status); n > 0 {
			fmt.Fprintf(w, "  - %s: %d\n", status, n)
		}
	}
	if sum.Earliest != nil && sum.Latest != nil {
		fmt.Fprintf(w, "Date range in results: %s to %s\n", sum.Earliest, sum.Latest)
	}
	return nil
}

func (r *TableRenderer) colorize(line string, tag Tag) string {
	if !r.Color {
		return line
	}
	switch tag {
	case TagAlert:
		return alertColor.Sprint(line)
	case TagSuccess:
		return successColor.Sprint(line)
	default:
		return line
	}
}

type JSONRenderer struct{}

type jsonReport struct {
	Summary jsonSummary `json:"summary"`
	Records []Row       `json:"records"`
}

type jsonSummary struct {
	Total    int                        `json:"total"`
	ByStatus map[aggregation.Status]int `json:"by_status"`
	Earliest string                     `json:"earliest,omitempty"`
	Latest   string                     `json:"latest,omitempty"`
}

func (r *JSONRenderer) Render(w io.Writer, sum Summary, rows []Row) error {
	report := jsonReport{
		Summary: jsonSummary{Total: sum.Total, ByStatus: sum.ByStatus},
		Records: rows,
	}
	if sum.Earliest != nil {
		report.Summary.Earliest = sum.Earliest.String()
	}
	if sum.Latest != nil {
		report.Summary.Latest = sum.Latest.String()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

type CSVRenderer struct{}

func (r *CSVRenderer) Render(w io.Writer, _ Summary, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "from", "to", "size", "status", "alternate_relay"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write([]string{row.Time, row.From, row.To, row.Size, row.Status, row.AlternateRelay}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
