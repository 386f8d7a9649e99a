package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/firmdesk/firmdesk/internal/domain"
)

// Format selects a report export encoding.
type Format string

const (
	// FormatTabular is a CSV document with one row per entry. Fields are
	// quoted per RFC 4180, so free text containing commas survives a
	// round trip through any standard CSV parser.
	FormatTabular Format = "tabular"
	// FormatNarrative is a plain-text summary: totals first, then one
	// line per entry in input order.
	FormatNarrative Format = "narrative"
)

const (
	dateLayout      = "2006-01-02"
	taskPlaceholder = "(no task)"
	billableYes     = "Yes"
	billableNo      = "No"
)

// Render encodes entries in the requested format. Row order is input
// order; callers pre-sort if they need something else. Output is
// byte-identical for identical input. An unknown format fails with
// domain.ErrUnsupportedFormat.
func Render(entries []*domain.TimeEntryDetail, format Format) ([]byte, error) {
	switch format {
	case FormatTabular:
		return renderTabular(entries)
	case FormatNarrative:
		return renderNarrative(entries), nil
	default:
		return nil, fmt.Errorf("report.Render: %q: %w", format, domain.ErrUnsupportedFormat)
	}
}

func renderTabular(entries []*domain.TimeEntryDetail) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Date", "Client", "Employee", "Task", "Notes", "Hours", "Billable"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("report.renderTabular: header: %w", err)
	}

	for _, e := range entries {
		task := e.TaskName
		if task == "" {
			task = taskPlaceholder
		}
		billable := billableNo
		if e.Billable {
			billable = billableYes
		}

		row := []string{
			e.WorkDate.Format(dateLayout),
			e.ClientName,
			e.UserName,
			task,
			e.Notes,
			e.Hours.String(),
			billable,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("report.renderTabular: row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("report.renderTabular: flush: %w", err)
	}

	return buf.Bytes(), nil
}

func renderNarrative(entries []*domain.TimeEntryDetail) []byte {
	var total, billable decimal.Decimal
	for _, e := range entries {
		total = total.Add(e.Hours)
		if e.Billable {
			billable = billable.Add(e.Hours)
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Total hours:        %s\n", total.String())
	fmt.Fprintf(&buf, "Billable hours:     %s\n", billable.String())
	fmt.Fprintf(&buf, "Non-billable hours: %s\n", total.Sub(billable).String())
	buf.WriteByte('\n')

	for _, e := range entries {
		fmt.Fprintf(&buf, "%s  %s  %s  %sh  %s\n",
			e.WorkDate.Format(dateLayout),
			e.ClientName,
			e.UserName,
			e.Hours.String(),
			e.Notes,
		)
	}

	return buf.Bytes()
}
