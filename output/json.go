package output

import (
	"bufio"
	"encoding/json"
	"io"
	"math"

	"github.com/vegasq/tabcat/table"
)

// JSONFormatter outputs rows as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per line with keys in column order.
// A missing record is written as null. Missing values, NaN and infinities
// are null.
func (j *JSONFormatter) Format(t *table.Table) error {
	bw := bufio.NewWriter(j.writer)
	columns := t.Columns()

	for _, rec := range t.Records() {
		if rec.Missing() {
			if _, err := bw.WriteString("null\n"); err != nil {
				return err
			}
			continue
		}

		if err := bw.WriteByte('{'); err != nil {
			return err
		}
		for i, v := range rec.Values() {
			if i > 0 {
				_ = bw.WriteByte(',')
			}
			key, err := json.Marshal(columns[i])
			if err != nil {
				return err
			}
			val, err := json.Marshal(jsonValue(v))
			if err != nil {
				return err
			}
			_, _ = bw.Write(key)
			_ = bw.WriteByte(':')
			_, _ = bw.Write(val)
		}
		if _, err := bw.WriteString("}\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func jsonValue(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return nil
		}
	}
	return v
}
