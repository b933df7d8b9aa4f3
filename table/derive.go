package table

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vegasq/tabcat/seq"
)

// DeriveFunc adds (or replaces) dst with fn applied to every record.
// Missing records get a missing value without calling fn.
func (t *Table) DeriveFunc(dst string, fn func(Record) (interface{}, error)) (*Table, error) {
	values := make([]interface{}, len(t.recs))
	for k, r := range t.recs {
		if r.missing {
			continue
		}
		v, err := fn(r)
		if err != nil {
			return nil, fmt.Errorf("derive %q: %w", dst, err)
		}
		values[k] = v
	}
	return t.AddColumn(dst, values)
}

// DeriveSplit sets dst to part number part of src split on sep.
//
// Negative parts count from the end, so -1 selects the last piece. A record
// whose value has too few pieces gets a missing value.
//
//	t.DeriveSplit("name", "last", " ", -1)
func (t *Table) DeriveSplit(src, dst, sep string, part int) (*Table, error) {
	if !t.HasColumn(src) {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, src)
	}
	if sep == "" {
		return nil, fmt.Errorf("derive %q: empty separator", dst)
	}
	return t.DeriveFunc(dst, func(r Record) (interface{}, error) {
		v, _ := r.Get(src)
		if v == nil {
			return nil, nil
		}
		pieces := strings.Split(Stringify(v), sep)
		i := part
		if i < 0 {
			i += len(pieces)
		}
		if i < 0 || i >= len(pieces) {
			return nil, nil
		}
		return pieces[i], nil
	})
}

// DeriveExtract sets dst to capture group group of re matched against src.
// Group 0 is the whole match. Records that do not match get a missing value.
func (t *Table) DeriveExtract(src, dst string, re *regexp.Regexp, group int) (*Table, error) {
	if !t.HasColumn(src) {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, src)
	}
	if group < 0 || group > re.NumSubexp() {
		return nil, fmt.Errorf("derive %q: pattern %q has no group %d", dst, re.String(), group)
	}
	return t.DeriveFunc(dst, func(r Record) (interface{}, error) {
		v, _ := r.Get(src)
		if v == nil {
			return nil, nil
		}
		m := re.FindStringSubmatch(Stringify(v))
		if m == nil {
			return nil, nil
		}
		return m[group], nil
	})
}

// ExtractNamed adds one column per named capture group of re, filled from
// src. The pattern must have at least one named group.
func (t *Table) ExtractNamed(src string, re *regexp.Regexp) (*Table, error) {
	out := t
	found := false
	for i, name := range re.SubexpNames() {
		if name == "" {
			continue
		}
		found = true
		var err error
		out, err = out.DeriveExtract(src, name, re, i)
		if err != nil {
			return nil, err
		}
	}
	if !found {
		return nil, fmt.Errorf("extract %q: pattern %q has no named groups", src, re.String())
	}
	return out, nil
}

// DeriveMin sets dst to the elementwise minimum of the numeric columns a
// and b. Missing records stay missing; any other unparseable value aborts
// with a *ParseError.
func (t *Table) DeriveMin(dst, a, b string) (*Table, error) {
	for _, col := range []string{a, b} {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
		}
	}
	return t.DeriveFunc(dst, func(r Record) (interface{}, error) {
		left, err := r.Float(a)
		if err != nil {
			return nil, err
		}
		right, err := r.Float(b)
		if err != nil {
			return nil, err
		}
		return seq.Min(left, right), nil
	})
}
