// Package table holds in-memory tabular data: an ordered header and a
// sequence of records.
//
// A Record is an ordered mapping from column name to value. Values are nil
// (the missing marker), string, int64, float64, bool or time.Time. Records
// loaded from CSV hold text only; callers parse explicitly with Float, Int
// or Time, or convert whole columns with Coerce.
//
// Every record remembers the position it had when the table was loaded
// (Record.Index). Filtering and masking keep that position so results can
// be traced back to their source rows.
package table

import (
	"fmt"
	"time"
)

// header maps column names to positions. It is shared by all records of a
// table and never mutated after construction.
type header struct {
	names []string
	pos   map[string]int
}

func newHeader(names []string) (*header, error) {
	h := &header{
		names: append([]string(nil), names...),
		pos:   make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, dup := h.pos[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		h.pos[name] = i
	}
	return h, nil
}

// Record is a single row.
type Record struct {
	// Index is the position of the row in the table it was loaded from.
	Index int

	h       *header
	values  []interface{}
	missing bool
}

// Get returns the value of col. ok is false when the column does not exist.
func (r Record) Get(col string) (value interface{}, ok bool) {
	if r.h == nil {
		return nil, false
	}
	i, ok := r.h.pos[col]
	if !ok {
		return nil, false
	}
	if r.missing {
		return nil, true
	}
	return r.values[i], true
}

// Missing reports whether the record was replaced by the missing marker.
func (r Record) Missing() bool {
	return r.missing
}

// Blank returns a missing record with the same Index and header.
func (r Record) Blank() Record {
	return Record{Index: r.Index, h: r.h, missing: true}
}

// Columns returns the column names in header order.
func (r Record) Columns() []string {
	if r.h == nil {
		return nil
	}
	return append([]string(nil), r.h.names...)
}

// Values returns a copy of the values in header order.
func (r Record) Values() []interface{} {
	if r.h == nil {
		return nil
	}
	out := make([]interface{}, len(r.h.names))
	if !r.missing {
		copy(out, r.values)
	}
	return out
}

// Map returns the record as a column name to value map.
func (r Record) Map() map[string]interface{} {
	if r.h == nil {
		return map[string]interface{}{}
	}
	m := make(map[string]interface{}, len(r.h.names))
	for i, name := range r.h.names {
		if r.missing {
			m[name] = nil
		} else {
			m[name] = r.values[i]
		}
	}
	return m
}

func (r Record) lookup(col string) (interface{}, error) {
	v, ok := r.Get(col)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
	}
	return v, nil
}

// annotate fills in the column and row of a *ParseError returned by the
// package level converters.
func (r Record) annotate(col string, err error) error {
	if pe, ok := err.(*ParseError); ok {
		pe.Column = col
		pe.Row = r.Index
		return pe
	}
	return err
}

// String returns the text form of col.
func (r Record) String(col string) (string, error) {
	v, err := r.lookup(col)
	if err != nil {
		return "", err
	}
	return Stringify(v), nil
}

// Float parses col as a float64.
func (r Record) Float(col string) (float64, error) {
	v, err := r.lookup(col)
	if err != nil {
		return 0, err
	}
	f, err := ToFloat(v)
	if err != nil {
		return 0, r.annotate(col, err)
	}
	return f, nil
}

// Int parses col as an int64.
func (r Record) Int(col string) (int64, error) {
	v, err := r.lookup(col)
	if err != nil {
		return 0, err
	}
	i, err := ToInt(v)
	if err != nil {
		return 0, r.annotate(col, err)
	}
	return i, nil
}

// Time parses col as a time.Time.
func (r Record) Time(col string) (time.Time, error) {
	v, err := r.lookup(col)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := ToTime(v)
	if err != nil {
		return time.Time{}, r.annotate(col, err)
	}
	return ts, nil
}

// Table is an ordered header plus records.
type Table struct {
	h    *header
	recs []Record
}

// New builds a table from a header and rows of values.
//
// Every row must have exactly len(columns) values; a shorter or longer row
// is a *ShapeError.
func New(columns []string, rows [][]interface{}) (*Table, error) {
	h, err := newHeader(columns)
	if err != nil {
		return nil, err
	}
	t := &Table{h: h, recs: make([]Record, 0, len(rows))}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d: %w", i, &ShapeError{What: "row", Want: len(columns), Got: len(row)})
		}
		t.recs = append(t.recs, Record{
			Index:  i,
			h:      h,
			values: append([]interface{}(nil), row...),
		})
	}
	return t, nil
}

// FromMaps builds a table from column maps. Columns absent from a map are
// missing values.
func FromMaps(columns []string, rows []map[string]interface{}) (*Table, error) {
	values := make([][]interface{}, len(rows))
	for i, m := range rows {
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			row[j] = m[col]
		}
		values[i] = row
	}
	return New(columns, values)
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.recs)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.h.names...)
}

// HasColumn reports whether col is part of the header.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.h.pos[col]
	return ok
}

// Records returns the records. The slice must not be modified.
func (t *Table) Records() []Record {
	return t.recs
}

// WithRecords returns a table over the same header holding recs.
// The records must come from t or a table derived from the same header.
func (t *Table) WithRecords(recs []Record) *Table {
	return &Table{h: t.h, recs: recs}
}

// Row returns the record at position i. Negative positions count from the
// end, so Row(-1) is the last record.
func (t *Table) Row(i int) (Record, error) {
	n := len(t.recs)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return Record{}, fmt.Errorf("%w: %d (len %d)", ErrRowOutOfRange, i, n)
	}
	return t.recs[i], nil
}

// Slice returns records [i, j). Negative bounds count from the end and
// out-of-range bounds are clamped.
func (t *Table) Slice(i, j int) *Table {
	n := len(t.recs)
	clamp := func(k int) int {
		if k < 0 {
			k += n
		}
		if k < 0 {
			return 0
		}
		if k > n {
			return n
		}
		return k
	}
	i, j = clamp(i), clamp(j)
	if j < i {
		j = i
	}
	return t.WithRecords(t.recs[i:j:j])
}

// Head returns the first n records.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	return t.Slice(0, n)
}

// Reindex returns a copy of t whose record indexes are their current
// positions. Loaders call it after Concat so that Index identifies a row of
// the combined input.
func (t *Table) Reindex() *Table {
	recs := make([]Record, len(t.recs))
	for k, r := range t.recs {
		r.Index = k
		recs[k] = r
	}
	return t.WithRecords(recs)
}

// Concat appends the records of other. Both tables must have identical
// headers. Record indexes are kept as they are, so they may repeat; use
// Reindex to renumber the result.
func (t *Table) Concat(other *Table) (*Table, error) {
	if len(t.h.names) != len(other.h.names) {
		return nil, &ShapeError{What: "concat columns", Want: len(t.h.names), Got: len(other.h.names)}
	}
	for i, name := range t.h.names {
		if other.h.names[i] != name {
			return nil, fmt.Errorf("concat: column %d is %q, want %q", i, other.h.names[i], name)
		}
	}
	recs := make([]Record, 0, len(t.recs)+len(other.recs))
	recs = append(recs, t.recs...)
	for _, r := range other.recs {
		r.h = t.h
		recs = append(recs, r)
	}
	return t.WithRecords(recs), nil
}

// Column returns the values of col in record order.
func (t *Table) Column(col string) ([]interface{}, error) {
	i, ok := t.h.pos[col]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
	}
	out := make([]interface{}, len(t.recs))
	for k, r := range t.recs {
		if !r.missing {
			out[k] = r.values[i]
		}
	}
	return out, nil
}

// Floats parses col as float64 values. The first unparseable value aborts
// with a *ParseError.
func (t *Table) Floats(col string) ([]float64, error) {
	if !t.HasColumn(col) {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
	}
	out := make([]float64, len(t.recs))
	for k, r := range t.recs {
		f, err := r.Float(col)
		if err != nil {
			return nil, err
		}
		out[k] = f
	}
	return out, nil
}

// Contains reports whether any record holds value in col. Values are
// compared by their text form.
func (t *Table) Contains(col string, value interface{}) (bool, error) {
	values, err := t.Column(col)
	if err != nil {
		return false, err
	}
	want := Stringify(value)
	for _, v := range values {
		if v != nil && Stringify(v) == want {
			return true, nil
		}
	}
	return false, nil
}

// Select projects the table onto cols, in the given order.
func (t *Table) Select(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for k, col := range cols {
		i, ok := t.h.pos[col]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
		}
		idx[k] = i
	}
	h, err := newHeader(cols)
	if err != nil {
		return nil, err
	}
	recs := make([]Record, len(t.recs))
	for k, r := range t.recs {
		nr := Record{Index: r.Index, h: h, missing: r.missing}
		if !r.missing {
			nr.values = make([]interface{}, len(idx))
			for j, i := range idx {
				nr.values[j] = r.values[i]
			}
		}
		recs[k] = nr
	}
	return &Table{h: h, recs: recs}, nil
}

// AddColumn returns a copy of t with col set to values. An existing column
// of the same name is replaced in place; otherwise the column is appended.
// Missing records stay missing.
func (t *Table) AddColumn(col string, values []interface{}) (*Table, error) {
	if len(values) != len(t.recs) {
		return nil, &ShapeError{What: fmt.Sprintf("column %q", col), Want: len(t.recs), Got: len(values)}
	}
	pos, exists := t.h.pos[col]
	h := t.h
	if !exists {
		var err error
		h, err = newHeader(append(t.Columns(), col))
		if err != nil {
			return nil, err
		}
		pos = len(t.h.names)
	}
	recs := make([]Record, len(t.recs))
	for k, r := range t.recs {
		nr := Record{Index: r.Index, h: h, missing: r.missing}
		if !r.missing {
			nr.values = make([]interface{}, len(h.names))
			copy(nr.values, r.values)
			nr.values[pos] = values[k]
		}
		recs[k] = nr
	}
	return &Table{h: h, recs: recs}, nil
}

// Kinds returns the inferred kind of every column.
func (t *Table) Kinds() map[string]Kind {
	kinds := make(map[string]Kind, len(t.h.names))
	for _, name := range t.h.names {
		values, _ := t.Column(name)
		kinds[name] = InferKind(values)
	}
	return kinds
}

// Coerce returns a copy of t with every text column converted to its
// inferred kind. Empty text becomes a missing value.
func (t *Table) Coerce() (*Table, error) {
	kinds := t.Kinds()
	out := t
	for _, name := range t.h.names {
		kind := kinds[name]
		if kind == KindString || kind == KindMissing {
			continue
		}
		values, _ := out.Column(name)
		for k, v := range values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			parsed, err := ParseValue(s, kind)
			if err != nil {
				if pe, ok := err.(*ParseError); ok {
					pe.Column = name
					pe.Row = out.recs[k].Index
				}
				return nil, err
			}
			values[k] = parsed
		}
		var err error
		out, err = out.AddColumn(name, values)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
