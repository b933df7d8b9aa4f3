package query

import (
	"github.com/vegasq/tabcat/mask"
	"github.com/vegasq/tabcat/table"
)

// ApplyFilter keeps the records of t for which filter is true.
// A nil filter keeps every record.
func ApplyFilter(t *table.Table, filter Expression) (*table.Table, error) {
	if filter == nil {
		return t, nil
	}

	b, err := filter.Evaluate(t)
	if err != nil {
		return nil, err
	}
	return mask.Filter(t, b)
}

// ApplyMask replaces the records of t for which filter is false with
// missing records. A nil filter keeps every record.
func ApplyMask(t *table.Table, filter Expression) (*table.Table, error) {
	if filter == nil {
		return t, nil
	}

	b, err := filter.Evaluate(t)
	if err != nil {
		return nil, err
	}
	return mask.Mask(t, b)
}
