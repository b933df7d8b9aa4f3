package mask

import (
	"github.com/vegasq/tabcat/table"
)

func checkLen(t *table.Table, b Bools) error {
	if b.Len() != t.Len() {
		return &table.ShapeError{What: "indicator length", Want: t.Len(), Got: b.Len()}
	}
	return nil
}

// Filter returns the records of t whose indicator position is true.
//
// The result is never longer than t and is the same length only when every
// position is true. Record.Index is preserved.
func Filter(t *table.Table, b Bools) (*table.Table, error) {
	if err := checkLen(t, b); err != nil {
		return nil, err
	}
	recs := t.Records()
	kept := make([]table.Record, 0, b.Count())
	for i, keep := range b.v {
		if keep {
			kept = append(kept, recs[i])
		}
	}
	return t.WithRecords(kept), nil
}

// Mask returns a table of the same length as t in which the records whose
// indicator position is false are replaced by missing records. Missing
// records keep their Index.
func Mask(t *table.Table, b Bools) (*table.Table, error) {
	if err := checkLen(t, b); err != nil {
		return nil, err
	}
	recs := t.Records()
	out := make([]table.Record, len(recs))
	for i, r := range recs {
		if b.v[i] {
			out[i] = r
		} else {
			out[i] = r.Blank()
		}
	}
	return t.WithRecords(out), nil
}

// MaskField returns the values of column with nil at every position whose
// indicator is false. The result has the same length as t.
func MaskField(t *table.Table, column string, b Bools) ([]interface{}, error) {
	if err := checkLen(t, b); err != nil {
		return nil, err
	}
	values, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	for i, keep := range b.v {
		if !keep {
			values[i] = nil
		}
	}
	return values, nil
}

// DropMissing removes missing records, turning a masked table into the
// equivalent filtered one.
func DropMissing(t *table.Table) *table.Table {
	recs := t.Records()
	kept := make([]table.Record, 0, len(recs))
	for _, r := range recs {
		if !r.Missing() {
			kept = append(kept, r)
		}
	}
	return t.WithRecords(kept)
}
