package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/tabcat/table"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to write a table in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *table.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Formats lists the names accepted by New.
var Formats = []string{"jsonl", "csv", "table"}

// New returns the formatter registered under name. "json" is accepted as
// an alias of "jsonl".
func New(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case "jsonl", "json":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "table":
		return NewTableFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (supported: %s)", name, strings.Join(Formats, ", "))
	}
}
