package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/tabcat/table"
)

func TestSale(t *testing.T) {
	sale := Sale{Person: "Chris", Price: 3.24, NumItems: 4}

	assert.Equal(t, 12.96, sale.Total())

	got, err := sale.Describe()
	require.NoError(t, err)
	assert.Equal(t, "Chris bought 4 item(s) at a price of 3.24 each for a total of 12.96", got)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		args []interface{}
		want string
	}{
		{"positional", "{} and {}", []interface{}{"a", 1}, "a and 1"},
		{"indexed", "{1} before {0}", []interface{}{"a", "b"}, "b before a"},
		{"precision", "{:.2f}", []interface{}{12.9600000001}, "12.96"},
		{"int precision", "{:.1f}", []interface{}{3}, "3.0"},
		{"escaped braces", "{{}} {}", []interface{}{"x"}, "{} x"},
		{"named", "{name} is {age}", []interface{}{map[string]interface{}{"name": "bob", "age": int64(25)}}, "bob is 25"},
		{"missing value", "[{}]", []interface{}{nil}, "[]"},
		{"no placeholders", "plain", nil, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.tmpl, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Errors(t *testing.T) {
	_, err := Format("{} {}", "only one")
	var shape *table.ShapeError
	assert.ErrorAs(t, err, &shape)

	_, err = Format("{3}", "a")
	assert.ErrorAs(t, err, &shape)

	_, err = Format("{:.2f}", "text")
	var te *table.TypeError
	assert.ErrorAs(t, err, &te)

	_, err = Format("{name}", "not a map")
	assert.ErrorIs(t, err, ErrBadTemplate)

	_, err = Format("{other}", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, table.ErrColumnNotFound)

	_, err = Format("{", "x")
	assert.ErrorIs(t, err, ErrBadTemplate)

	_, err = Format("}", "x")
	assert.ErrorIs(t, err, ErrBadTemplate)

	_, err = Format("{:x}", 1)
	assert.ErrorIs(t, err, ErrBadTemplate)
}
