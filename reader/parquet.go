package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/vegasq/tabcat/seq"
	"github.com/vegasq/tabcat/table"
)

// Reader reads parquet files into tables.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
	logger *zap.Logger
}

// NewReader creates a new parquet reader for the specified file path.
//
// The file is opened and validated as a parquet file. Returns an error if
// the file doesn't exist or is not a valid parquet file.
//
// Example:
//
//	reader, err := NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer reader.Close()
func NewReader(path string, opts ...Option) (*Reader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:   file,
		pqFile: pqFile,
		logger: o.logger,
	}, nil
}

// ReadAll reads all rows from the parquet file into a table.
//
// Columns follow the order of the top level schema fields. Values are
// normalized to the table value types: int32 widens to int64, float32 to
// float64, byte arrays become strings and timestamps become time.Time.
// The entire file is loaded into memory.
func (r *Reader) ReadAll() (*table.Table, error) {
	fields := r.pqFile.Schema().Fields()
	columns := make([]string, len(fields))
	timeUnits := make(map[string]time.Duration)
	for i, f := range fields {
		columns[i] = f.Name()
		if unit, ok := timestampUnit(f); ok {
			timeUnits[f.Name()] = unit
		}
	}

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	var rows []map[string]interface{}
	for {
		row := make(map[string]interface{})
		err := reader.Read(&row)
		if err != nil {
			// Use errors.Is for proper EOF detection
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		for col, v := range row {
			row[col] = normalize(v, timeUnits[col])
		}
		rows = append(rows, row)
	}

	t, err := table.FromMaps(columns, rows)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("read parquet file",
		zap.String("file", r.file.Name()),
		zap.Int("columns", len(columns)),
		zap.Int("rows", t.Len()),
	)

	return t, nil
}

// timestampUnit reports the unit of a timestamp column.
func timestampUnit(f parquet.Field) (time.Duration, bool) {
	if f.Type() == nil {
		return 0, false
	}
	lt := f.Type().LogicalType()
	if lt == nil || lt.Timestamp == nil {
		return 0, false
	}
	switch {
	case lt.Timestamp.Unit.Millis != nil:
		return time.Millisecond, true
	case lt.Timestamp.Unit.Micros != nil:
		return time.Microsecond, true
	default:
		return time.Nanosecond, true
	}
}

func normalize(v interface{}, timeUnit time.Duration) interface{} {
	switch val := v.(type) {
	case int32:
		return int64(val)
	case int64:
		if timeUnit > 0 {
			return time.Unix(0, val*int64(timeUnit)).UTC()
		}
		return val
	case float32:
		return float64(val)
	case []byte:
		return string(val)
	default:
		return val
	}
}

// Schema returns the parquet file schema.
//
// The schema contains metadata about the columns, types, and structure
// of the parquet file.
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// Close closes the parquet reader and releases associated resources.
//
// Should be called when done reading to avoid resource leaks. It is safe
// to call Close multiple times.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// IsParquet reports whether path names a parquet file by extension.
func IsParquet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".parquet")
}

// ReadFile reads a single file, choosing the format from its extension.
// ".parquet" files are read with Reader; anything else is delimited text,
// with ".tsv" defaulting to tab separated.
func ReadFile(path string, opts ...Option) (*table.Table, error) {
	if IsParquet(path) {
		r, err := NewReader(path, opts...)
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return r.ReadAll()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		opts = append([]Option{WithDelimiter('\t')}, opts...)
	}
	t, err := ReadCSV(file, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// FileColumn is added to every row by ReadMultipleFiles for glob patterns.
const FileColumn = "_file"

// maxFiles limits the number of files a glob pattern may expand to.
const maxFiles = 1000

// ReadMultipleFiles reads all files matching a glob pattern into one table.
//
// The pattern can include wildcards:
//   - * matches any sequence of non-separator characters
//   - ? matches any single non-separator character
//   - [range] matches any character in range
//
// A pattern without wildcards reads that one file unchanged. For glob
// patterns every row is tagged with a "_file" column holding its source
// path, and all matched files must share the same header. Files are read
// in lexical order and record indexes run across all of them.
func ReadMultipleFiles(pattern string, opts ...Option) (*table.Table, error) {
	// Check if pattern contains glob wildcards
	if !strings.ContainsAny(pattern, "*?[]") {
		return ReadFile(pattern, opts...)
	}

	// Expand glob pattern
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}

	// Limit number of files to prevent resource exhaustion
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}
	sort.Strings(matches)

	var all *table.Table
	for _, filePath := range matches {
		t, err := ReadFile(filePath, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
		}

		t, err = t.AddColumn(FileColumn, seq.Repeat[interface{}](filePath, t.Len()))
		if err != nil {
			return nil, err
		}

		if all == nil {
			all = t
			continue
		}
		all, err = all.Concat(t)
		if err != nil {
			return nil, fmt.Errorf("failed to combine %s: %w", filePath, err)
		}
	}

	return all.Reindex(), nil
}
