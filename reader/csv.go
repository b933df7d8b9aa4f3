package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/vegasq/tabcat/table"
)

// ErrEmptyInput is returned for a delimited file without a header row.
var ErrEmptyInput = errors.New("empty input: missing header row")

type options struct {
	delimiter rune
	comment   rune
	trimSpace bool
	keepEmpty bool
	logger    *zap.Logger
}

func defaultOptions() options {
	return options{delimiter: ',', logger: zap.NewNop()}
}

// Option configures how files are read.
type Option func(*options)

// WithDelimiter sets the field delimiter for delimited text. The default
// is ',' (and '\t' for .tsv files opened with ReadFile).
func WithDelimiter(r rune) Option {
	return func(o *options) { o.delimiter = r }
}

// WithComment skips lines starting with r.
func WithComment(r rune) Option {
	return func(o *options) { o.comment = r }
}

// WithTrimSpace trims leading and trailing space from every field.
func WithTrimSpace(trim bool) Option {
	return func(o *options) { o.trimSpace = trim }
}

// WithKeepEmpty keeps empty fields as "" instead of the missing marker.
func WithKeepEmpty() Option {
	return func(o *options) { o.keepEmpty = true }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// ReadCSV reads delimited text with a header row.
//
// Every following row maps positionally onto the header. Values are kept
// as text; empty fields become missing values unless WithKeepEmpty is set.
// A row with fewer (or more) fields than the header is malformed and
// returns a *table.ShapeError naming the line.
func ReadCSV(r io.Reader, opts ...Option) (*table.Table, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	cr := csv.NewReader(r)
	cr.Comma = o.delimiter
	cr.Comment = o.comment
	cr.TrimLeadingSpace = o.trimSpace
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if o.trimSpace {
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	var rows [][]interface{}
	for {
		record, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if len(record) != len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, &table.ShapeError{What: "record", Want: len(header), Got: len(record)})
		}

		row := make([]interface{}, len(record))
		for i, field := range record {
			if o.trimSpace {
				field = strings.TrimSpace(field)
			}
			if field == "" && !o.keepEmpty {
				continue
			}
			row[i] = field
		}
		rows = append(rows, row)
	}

	t, err := table.New(header, rows)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("read delimited text",
		zap.Int("columns", len(header)),
		zap.Int("rows", t.Len()),
	)

	return t, nil
}
