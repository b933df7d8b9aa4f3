package table

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func carsTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New([]string{"model", "cyl", "cty", "hwy", "class"}, [][]interface{}{
		{"a4", "4", "18", "29", "compact"},
		{"a4 quattro", "4", "16", "26", "compact"},
		{"c1500 suburban", "8", "14", "17", "suv"},
		{"camry", "6", "19", "27", "midsize"},
	})
	require.NoError(t, err)
	return tbl
}

func TestNew_ShapeError(t *testing.T) {
	_, err := New([]string{"a", "b"}, [][]interface{}{{"1", "2"}, {"1"}})
	var shape *ShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, 2, shape.Want)
	assert.Equal(t, 1, shape.Got)
}

func TestNew_DuplicateColumn(t *testing.T) {
	_, err := New([]string{"a", "a"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestRecord_Accessors(t *testing.T) {
	tbl := carsTable(t)
	r, err := tbl.Row(0)
	require.NoError(t, err)

	v, ok := r.Get("model")
	assert.True(t, ok)
	assert.Equal(t, "a4", v)

	_, ok = r.Get("nope")
	assert.False(t, ok)

	cty, err := r.Float("cty")
	require.NoError(t, err)
	assert.Equal(t, 18.0, cty)

	cyl, err := r.Int("cyl")
	require.NoError(t, err)
	assert.Equal(t, int64(4), cyl)

	_, err = r.Float("missing")
	assert.ErrorIs(t, err, ErrColumnNotFound)

	assert.Equal(t, []string{"model", "cyl", "cty", "hwy", "class"}, r.Columns())
	assert.Equal(t, "compact", r.Map()["class"])
}

func TestRecord_FloatParseError(t *testing.T) {
	tbl, err := New([]string{"cty"}, [][]interface{}{{"20"}, {"n/a"}})
	require.NoError(t, err)

	r, err := tbl.Row(1)
	require.NoError(t, err)

	_, err = r.Float("cty")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "cty", pe.Column)
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, "n/a", pe.Value)
	assert.Equal(t, KindFloat, pe.Kind)
}

func TestRecord_Time(t *testing.T) {
	tbl, err := New([]string{"when"}, [][]interface{}{{"2016-03-15"}, {"not a date"}})
	require.NoError(t, err)

	r0, _ := tbl.Row(0)
	ts, err := r0.Time("when")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, 3, 15, 0, 0, 0, 0, time.UTC), ts)
	assert.Equal(t, 100*24*time.Hour, ts.AddDate(0, 0, 100).Sub(ts))

	r1, _ := tbl.Row(1)
	_, err = r1.Time("when")
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestTable_RowNegativeIndex(t *testing.T) {
	tbl := carsTable(t)

	last, err := tbl.Row(-1)
	require.NoError(t, err)
	assert.Equal(t, 3, last.Index)

	_, err = tbl.Row(4)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
	_, err = tbl.Row(-5)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestTable_Slice(t *testing.T) {
	tbl := carsTable(t)

	tests := []struct {
		name string
		i, j int
		want []int
	}{
		{"head", 0, 1, []int{0}},
		{"middle", 1, 3, []int{1, 2}},
		{"negative start", -2, 4, []int{2, 3}},
		{"clamped end", 2, 100, []int{2, 3}},
		{"empty", 3, 1, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tbl.Slice(tt.i, tt.j)
			idx := make([]int, 0, got.Len())
			for _, r := range got.Records() {
				idx = append(idx, r.Index)
			}
			assert.Equal(t, tt.want, idx)
		})
	}

	assert.Equal(t, 2, tbl.Head(2).Len())
	assert.Equal(t, 0, tbl.Head(-1).Len())
}

func TestTable_Concat(t *testing.T) {
	tbl := carsTable(t)
	both, err := tbl.Concat(tbl.Head(1))
	require.NoError(t, err)
	assert.Equal(t, 5, both.Len())

	last, _ := both.Row(-1)
	assert.Equal(t, 0, last.Index, "Concat keeps indexes")
	last, _ = both.Reindex().Row(-1)
	assert.Equal(t, 4, last.Index)

	other, err := New([]string{"x"}, nil)
	require.NoError(t, err)
	_, err = tbl.Concat(other)
	var shape *ShapeError
	assert.ErrorAs(t, err, &shape)
}

func TestTable_ContainsAndSelect(t *testing.T) {
	tbl := carsTable(t)

	ok, err := tbl.Contains("class", "suv")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tbl.Contains("cyl", 5)
	require.NoError(t, err)
	assert.False(t, ok)

	sel, err := tbl.Select("class", "cty")
	require.NoError(t, err)
	assert.Equal(t, []string{"class", "cty"}, sel.Columns())
	r, _ := sel.Row(2)
	assert.Equal(t, []interface{}{"suv", "14"}, r.Values())

	_, err = tbl.Select("nope")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestTable_Coerce(t *testing.T) {
	tbl, err := New([]string{"name", "n", "x", "ok", "when"}, [][]interface{}{
		{"a", "1", "1.5", "true", "2020-01-01"},
		{"b", "2", "2", "false", ""},
	})
	require.NoError(t, err)

	kinds := tbl.Kinds()
	assert.Equal(t, KindString, kinds["name"])
	assert.Equal(t, KindInt, kinds["n"])
	assert.Equal(t, KindFloat, kinds["x"])
	assert.Equal(t, KindBool, kinds["ok"])
	assert.Equal(t, KindTime, kinds["when"])

	coerced, err := tbl.Coerce()
	require.NoError(t, err)
	r, _ := coerced.Row(1)
	assert.Equal(t, []interface{}{"b", int64(2), 2.0, false, nil}, r.Values())
}

func TestUnpack(t *testing.T) {
	var name, email, phone string

	err := Unpack([]string{"Christopher", "Brooks", "brooksch@umich.edu", "Ann Arbor"}, &name, &email, &phone)
	var shape *ShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, 3, shape.Want)
	assert.Equal(t, 4, shape.Got)
	assert.Contains(t, err.Error(), "too many values")
	assert.Empty(t, name)

	require.NoError(t, Unpack([]string{"Christopher Brooks", "brooksch@umich.edu", "555"}, &name, &email, &phone))
	assert.Equal(t, "brooksch@umich.edu", email)
}

func TestConcatValues(t *testing.T) {
	s, err := ConcatValues("Chris", "topher")
	require.NoError(t, err)
	assert.Equal(t, "Christopher", s)

	_, err = ConcatValues("Chris", 2)
	var te *TypeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, KindString, te.Left)
	assert.Equal(t, KindInt, te.Right)

	s, err = ConcatValues("Chris", Stringify(2))
	require.NoError(t, err)
	assert.Equal(t, "Chris2", s)
}

func TestDerive(t *testing.T) {
	tbl, err := New([]string{"name", "store1", "store2"}, [][]interface{}{
		{"Dr. Christopher Brooks", "10.00", "9.00"},
		{"Dr. Kevyn Collins-Thompson", "11.00", "11.10"},
		{"Prof. VG", "12.34", "12.34"},
	})
	require.NoError(t, err)

	split, err := tbl.DeriveSplit("name", "last", " ", -1)
	require.NoError(t, err)
	last, _ := split.Column("last")
	assert.Equal(t, []interface{}{"Brooks", "Collins-Thompson", "VG"}, last)

	third, err := tbl.DeriveSplit("name", "third", " ", 2)
	require.NoError(t, err)
	col, _ := third.Column("third")
	assert.Equal(t, []interface{}{"Brooks", "Collins-Thompson", nil}, col)

	re := regexp.MustCompile(`^(?P<title>\w+)\.`)
	titled, err := tbl.ExtractNamed("name", re)
	require.NoError(t, err)
	titles, _ := titled.Column("title")
	assert.Equal(t, []interface{}{"Dr", "Dr", "Prof"}, titles)

	_, err = tbl.DeriveExtract("name", "x", re, 2)
	assert.Error(t, err)

	mins, err := tbl.DeriveMin("cheapest", "store1", "store2")
	require.NoError(t, err)
	cheapest, _ := mins.Column("cheapest")
	assert.Equal(t, []interface{}{9.0, 11.0, 12.34}, cheapest)
}

func TestDeriveMin_MissingRecords(t *testing.T) {
	tbl, err := New([]string{"store1", "store2"}, [][]interface{}{
		{"10.00", "9.00"},
		{"11.00", "11.10"},
		{"2.34", "2.01"},
	})
	require.NoError(t, err)

	recs := append([]Record(nil), tbl.Records()...)
	recs[1] = recs[1].Blank()
	masked := tbl.WithRecords(recs)

	mins, err := masked.DeriveMin("cheapest", "store1", "store2")
	require.NoError(t, err)
	cheapest, _ := mins.Column("cheapest")
	assert.Equal(t, []interface{}{9.0, nil, 2.01}, cheapest)

	r, _ := mins.Row(1)
	assert.True(t, r.Missing())

	_, err = tbl.DeriveMin("cheapest", "store1", "nope")
	assert.ErrorIs(t, err, ErrColumnNotFound)

	bad, err := New([]string{"a", "b"}, [][]interface{}{{"1", "x"}})
	require.NoError(t, err)
	_, err = bad.DeriveMin("m", "a", "b")
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestDecode(t *testing.T) {
	type car struct {
		Model string  `table:"model"`
		Cyl   int     `table:"cyl"`
		Cty   float64 `table:"cty"`
		Hwy   *int64  `table:"hwy"`
		Skip  string  `table:"-"`
	}

	tbl, err := New([]string{"model", "cyl", "cty", "hwy"}, [][]interface{}{
		{"a4", "4", "18", "29"},
		{"camry", "6", "19", ""},
	})
	require.NoError(t, err)

	var cars []car
	require.NoError(t, tbl.Decode(&cars))
	require.Len(t, cars, 2)
	assert.Equal(t, "a4", cars[0].Model)
	assert.Equal(t, 4, cars[0].Cyl)
	require.NotNil(t, cars[0].Hwy)
	assert.Equal(t, int64(29), *cars[0].Hwy)
	assert.Nil(t, cars[1].Hwy)

	bad, err := New([]string{"model", "cyl", "cty", "hwy"}, [][]interface{}{{"a4", "four", "18", "29"}})
	require.NoError(t, err)
	err = bad.Decode(&cars)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "cyl", pe.Column)

	assert.Error(t, tbl.Decode(cars))

	type other struct {
		Missing string `table:"nope"`
	}
	var o []other
	assert.True(t, errors.Is(tbl.Decode(&o), ErrColumnNotFound))
}
