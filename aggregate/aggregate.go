// Package aggregate computes grouped aggregates over tables.
//
// Records are partitioned by the exact text of a key column and a numeric
// value column is folded per partition:
//
//	groups, err := aggregate.GroupBy(t, "cyl", "cty", aggregate.Mean, aggregate.SortBy(aggregate.ByKey))
//	// [{Key:4 Value:21.0 Count:81} {Key:5 ...} {Key:6 ...} {Key:8 ...}]
//
// Values are parsed explicitly. A value that is missing or not a number
// aborts the whole aggregation with a *table.ParseError; nothing is
// coerced to zero.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vegasq/tabcat/table"
)

// Func names an aggregate function.
type Func string

const (
	Mean  Func = "mean"
	Sum   Func = "sum"
	Min   Func = "min"
	Max   Func = "max"
	Count Func = "count"
	Std   Func = "std"
)

// ParseFunc parses an aggregate name case-insensitively. "avg" is
// accepted for Mean.
func ParseFunc(s string) (Func, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mean", "avg":
		return Mean, nil
	case "sum":
		return Sum, nil
	case "min":
		return Min, nil
	case "max":
		return Max, nil
	case "count":
		return Count, nil
	case "std":
		return Std, nil
	default:
		return "", fmt.Errorf("unknown aggregate function %q", s)
	}
}

// Order selects how groups are sorted.
type Order int

const (
	// ByKey sorts by group key. Keys compare as numbers when every key
	// parses as one, and as text otherwise.
	ByKey Order = iota
	// ByValue sorts by aggregate value. Equal values keep the order in
	// which their keys first appeared.
	ByValue
	// Unsorted keeps first appearance order.
	Unsorted
)

// ParseOrder parses "key", "value" or "none".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "key", "":
		return ByKey, nil
	case "value":
		return ByValue, nil
	case "none":
		return Unsorted, nil
	default:
		return 0, fmt.Errorf("unknown sort order %q", s)
	}
}

// Group is the aggregate of one partition.
type Group struct {
	Key   string
	Value float64
	Count int
}

type options struct {
	order      Order
	descending bool
	logger     *zap.Logger
}

// Option configures GroupBy.
type Option func(*options)

// SortBy sets the result order. The default is ByKey.
func SortBy(order Order) Option {
	return func(o *options) { o.order = order }
}

// Descending reverses the sort direction. Ties keep first appearance
// order in both directions.
func Descending() Option {
	return func(o *options) { o.descending = true }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// accumulator folds values with Welford's method so that Mean and Std
// are computed in a single pass.
type accumulator struct {
	key   string
	count int
	sum   float64
	min   float64
	max   float64
	mean  float64
	m2    float64
}

func (a *accumulator) update(v float64) {
	a.count++
	a.sum += v
	if a.count == 1 || v < a.min {
		a.min = v
	}
	if a.count == 1 || v > a.max {
		a.max = v
	}
	delta := v - a.mean
	a.mean += delta / float64(a.count)
	a.m2 += delta * (v - a.mean)
}

func (a *accumulator) result(fn Func) float64 {
	switch fn {
	case Mean:
		return a.sum / float64(a.count)
	case Sum:
		return a.sum
	case Min:
		return a.min
	case Max:
		return a.max
	case Count:
		return float64(a.count)
	case Std:
		if a.count < 2 {
			return math.NaN()
		}
		return math.Sqrt(a.m2 / float64(a.count-1))
	default:
		return math.NaN()
	}
}

// GroupBy partitions t by the text of key and aggregates value with fn.
//
// Missing records and records with a missing key are skipped, so there is
// no group for an empty key. Count does not parse the value column, so
// value may be empty for Count. Every group has at least one member, as
// keys only come from observed records.
func GroupBy(t *table.Table, key, value string, fn Func, opts ...Option) ([]Group, error) {
	o := options{order: ByKey}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	if _, err := ParseFunc(string(fn)); err != nil {
		return nil, err
	}
	if !t.HasColumn(key) {
		return nil, fmt.Errorf("group by: %w: %q", table.ErrColumnNotFound, key)
	}
	if fn != Count && !t.HasColumn(value) {
		return nil, fmt.Errorf("aggregate: %w: %q", table.ErrColumnNotFound, value)
	}

	groups := make(map[string]*accumulator)
	var order []*accumulator

	for _, r := range t.Records() {
		if r.Missing() {
			continue
		}
		if v, _ := r.Get(key); v == nil {
			continue
		}
		k, err := r.String(key)
		if err != nil {
			return nil, err
		}

		acc, exists := groups[k]
		if !exists {
			acc = &accumulator{key: k}
			groups[k] = acc
			order = append(order, acc)
		}

		if fn == Count {
			acc.count++
			continue
		}
		v, err := r.Float(value)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s(%s): %w", fn, value, err)
		}
		acc.update(v)
	}

	result := make([]Group, len(order))
	for i, acc := range order {
		result[i] = Group{Key: acc.key, Value: acc.result(fn), Count: acc.count}
	}

	sortGroups(result, o.order, o.descending)

	o.logger.Debug("grouped records",
		zap.String("key", key),
		zap.String("value", value),
		zap.String("func", string(fn)),
		zap.Int("records", t.Len()),
		zap.Int("groups", len(result)),
	)

	return result, nil
}

// GroupMean averages value per key. Grouping by a category with an
// inherent order (e.g. cylinder count) reads best sorted ByKey; ranking
// categories (e.g. vehicle classes by mileage) uses ByValue.
func GroupMean(t *table.Table, key, value string, order Order) ([]Group, error) {
	return GroupBy(t, key, value, Mean, SortBy(order))
}

func sortGroups(groups []Group, order Order, descending bool) {
	var less func(a, b Group) bool
	switch order {
	case ByKey:
		less = keyLess(groups)
	case ByValue:
		less = func(a, b Group) bool { return a.Value < b.Value }
	default:
		return
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		// NaN values (e.g. Std of a single member) sort last either way.
		if order == ByValue {
			an, bn := math.IsNaN(a.Value), math.IsNaN(b.Value)
			if an || bn {
				return !an && bn
			}
		}
		if descending {
			return less(b, a)
		}
		return less(a, b)
	})
}

// keyLess compares keys numerically when all of them are numbers.
func keyLess(groups []Group) func(a, b Group) bool {
	nums := make(map[string]float64, len(groups))
	for _, g := range groups {
		f, err := strconv.ParseFloat(strings.TrimSpace(g.Key), 64)
		if err != nil {
			return func(a, b Group) bool { return a.Key < b.Key }
		}
		nums[g.Key] = f
	}
	return func(a, b Group) bool { return nums[a.Key] < nums[b.Key] }
}

// Table converts groups to a table with the columns keyCol, valueCol and
// count.
func Table(groups []Group, keyCol, valueCol string) (*table.Table, error) {
	rows := make([][]interface{}, len(groups))
	for i, g := range groups {
		rows[i] = []interface{}{g.Key, g.Value, int64(g.Count)}
	}
	return table.New([]string{keyCol, valueCol, "count"}, rows)
}
