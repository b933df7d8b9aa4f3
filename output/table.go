package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/tabcat/table"
)

// TableFormatter renders rows as an aligned text table.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new text table formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the header and records. Missing values are blank.
func (f *TableFormatter) Format(t *table.Table) error {
	tw := tablewriter.NewWriter(f.writer)
	tw.SetHeader(t.Columns())
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)

	for _, rec := range t.Records() {
		values := rec.Values()
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = table.Stringify(v)
		}
		tw.Append(row)
	}

	tw.Render()
	return nil
}
