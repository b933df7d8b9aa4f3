package reader

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/tabcat/table"
)

// parquetNode returns the optional leaf node used to store a column of
// the given kind.
func parquetNode(kind table.Kind) parquet.Node {
	switch kind {
	case table.KindInt:
		return parquet.Optional(parquet.Int(64))
	case table.KindFloat:
		return parquet.Optional(parquet.Leaf(parquet.DoubleType))
	case table.KindBool:
		return parquet.Optional(parquet.Leaf(parquet.BooleanType))
	case table.KindTime:
		return parquet.Optional(parquet.Timestamp(parquet.Nanosecond))
	default:
		return parquet.Optional(parquet.String())
	}
}

// WriteParquet writes t as a parquet file.
//
// Text columns are converted to their inferred kinds first, so a CSV column
// holding only numbers is stored as a number. Every column is optional and
// missing values (including missing records) are stored as nulls.
func WriteParquet(w io.Writer, t *table.Table) error {
	coerced, err := t.Coerce()
	if err != nil {
		return fmt.Errorf("failed to convert columns: %w", err)
	}
	kinds := coerced.Kinds()

	group := make(parquet.Group, len(kinds))
	for col, kind := range kinds {
		group[col] = parquetNode(kind)
	}
	schema := parquet.NewSchema("tabcat", group)

	// Group fields are ordered by name; leaf column indexes follow that order.
	names := coerced.Columns()
	sort.Strings(names)

	rows := make([]parquet.Row, 0, coerced.Len())
	for _, rec := range coerced.Records() {
		row := make(parquet.Row, len(names))
		for i, col := range names {
			v, _ := rec.Get(col)
			row[i] = parquetValue(v, kinds[col]).Level(0, definitionLevel(v), i)
		}
		rows = append(rows, row)
	}

	writer := parquet.NewWriter(w, schema)
	if _, err := writer.WriteRows(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func definitionLevel(v interface{}) int {
	if v == nil {
		return 0
	}
	return 1
}

func parquetValue(v interface{}, kind table.Kind) parquet.Value {
	if v == nil {
		return parquet.NullValue()
	}
	switch kind {
	case table.KindInt:
		i, _ := table.ToInt(v)
		return parquet.Int64Value(i)
	case table.KindFloat:
		f, _ := table.ToFloat(v)
		return parquet.DoubleValue(f)
	case table.KindBool:
		b, _ := v.(bool)
		return parquet.BooleanValue(b)
	case table.KindTime:
		ts, _ := v.(time.Time)
		return parquet.Int64Value(ts.UnixNano())
	default:
		return parquet.ByteArrayValue([]byte(table.Stringify(v)))
	}
}
