package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/vegasq/tabcat/format"
	"github.com/vegasq/tabcat/table"
)

// TemplateFormatter writes one line per record by filling a format
// template with the record's named fields, e.g. "{model}: {mpg:.1f}".
type TemplateFormatter struct {
	writer   io.Writer
	template string
}

// NewTemplateFormatter creates a new template formatter
func NewTemplateFormatter(w io.Writer, template string) *TemplateFormatter {
	return &TemplateFormatter{writer: w, template: template}
}

// SetOutput sets the output writer
func (f *TemplateFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders every record. Text columns are converted to their
// inferred kinds first so numeric placeholders accept CSV input. Missing
// values, and every field of a missing record, render empty.
func (f *TemplateFormatter) Format(t *table.Table) error {
	coerced, err := t.Coerce()
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f.writer)
	for _, rec := range coerced.Records() {
		line, err := format.Format(f.template, rec.Map())
		if err != nil {
			return fmt.Errorf("row %d: %w", rec.Index, err)
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
