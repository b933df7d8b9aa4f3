package mask

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vegasq/tabcat/table"
)

// Op is a comparison operator.
type Op int

const (
	Eq Op = iota // ==
	Ne           // !=
	Lt           // <
	Gt           // >
	Le           // <=
	Ge           // >=
)

func (op Op) String() string {
	switch op {
	case Eq:
		return "=="
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Le:
		return "<="
	case Ge:
		return ">="
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// ParseOp parses an operator symbol. "=" is accepted as "==".
func ParseOp(s string) (Op, error) {
	switch s {
	case "==", "=":
		return Eq, nil
	case "!=":
		return Ne, nil
	case "<":
		return Lt, nil
	case ">":
		return Gt, nil
	case "<=":
		return Le, nil
	case ">=":
		return Ge, nil
	default:
		return 0, fmt.Errorf("unknown comparison operator %q", s)
	}
}

// Compare broadcasts `column op threshold` across every record of t.
//
// The comparison is numeric when threshold is a number (column text is
// parsed, and unparseable text is a *table.ParseError), chronological when
// threshold is a time.Time, boolean when threshold is a bool, and textual
// otherwise. Missing values compare false for every operator except Ne.
func Compare(t *table.Table, column string, op Op, threshold interface{}) (Bools, error) {
	values, err := t.Column(column)
	if err != nil {
		return Bools{}, err
	}
	out := make([]bool, len(values))
	for i, v := range values {
		ok, err := compareValue(v, op, threshold)
		if err != nil {
			if pe, isParse := err.(*table.ParseError); isParse {
				pe.Column = column
				pe.Row = t.Records()[i].Index
			}
			return Bools{}, err
		}
		out[i] = ok
	}
	return Bools{v: out}, nil
}

// CompareFloats broadcasts `value op threshold` across a plain slice.
func CompareFloats(values []float64, op Op, threshold float64) Bools {
	out := make([]bool, len(values))
	for i, v := range values {
		out[i] = compareOrdered(v, op, threshold)
	}
	return Bools{v: out}
}

func isMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func compareValue(v interface{}, op Op, threshold interface{}) (bool, error) {
	if isMissing(v) || threshold == nil {
		return op == Ne, nil
	}

	switch th := threshold.(type) {
	case time.Time:
		ts, err := table.ToTime(v)
		if err != nil {
			return false, err
		}
		return compareOrdered(ts.UnixNano(), op, th.UnixNano()), nil
	case bool:
		b, ok := v.(bool)
		if !ok {
			parsed, err := strconv.ParseBool(strings.TrimSpace(table.Stringify(v)))
			if err != nil {
				return false, &table.ParseError{Row: -1, Value: table.Stringify(v), Kind: table.KindBool, Err: err}
			}
			b = parsed
		}
		switch op {
		case Eq:
			return b == th, nil
		case Ne:
			return b != th, nil
		default:
			return false, fmt.Errorf("operator %s is not defined for bool", op)
		}
	case string:
		if ts, ok := v.(time.Time); ok {
			thTime, err := table.ToTime(th)
			if err != nil {
				return false, err
			}
			return compareOrdered(ts.UnixNano(), op, thTime.UnixNano()), nil
		}
		return compareOrdered(table.Stringify(v), op, th), nil
	}

	if table.KindOf(threshold) == table.KindInt || table.KindOf(threshold) == table.KindFloat {
		thf, _ := table.ToFloat(threshold)
		f, err := table.ToFloat(v)
		if err != nil {
			return false, err
		}
		return compareOrdered(f, op, thf), nil
	}

	return false, fmt.Errorf("cannot compare %T with %T", v, threshold)
}

type ordered interface {
	~int64 | ~float64 | ~string
}

func compareOrdered[T ordered](left T, op Op, right T) bool {
	switch op {
	case Eq:
		return left == right
	case Ne:
		return left != right
	case Lt:
		return left < right
	case Gt:
		return left > right
	case Le:
		return left <= right
	case Ge:
		return left >= right
	default:
		return false
	}
}

// Where builds an indicator by evaluating pred on every record. Missing
// records are false without calling pred.
func Where(t *table.Table, pred func(table.Record) (bool, error)) (Bools, error) {
	recs := t.Records()
	out := make([]bool, len(recs))
	for i, r := range recs {
		if r.Missing() {
			continue
		}
		ok, err := pred(r)
		if err != nil {
			return Bools{}, fmt.Errorf("row %d: %w", r.Index, err)
		}
		out[i] = ok
	}
	return Bools{v: out}, nil
}
