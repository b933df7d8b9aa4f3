package table

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Decode copies the records of t into dst, which must be a pointer to a
// slice of structs.
//
// Struct fields are matched to columns by their `table:"name"` tag, or by
// the field name when there is no tag. A tag of "-" skips the field.
// Supported field types are string, signed and unsigned integers, floats,
// bool and time.Time, plus pointers to them. Pointer fields stay nil for
// missing values; a missing value in a non-pointer field is a *ParseError.
//
//	type Car struct {
//	    Class string  `table:"class"`
//	    Cyl   int     `table:"cyl"`
//	    Cty   float64 `table:"cty"`
//	}
//	var cars []Car
//	err := t.Decode(&cars)
func (t *Table) Decode(dst interface{}) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Slice {
		return errors.New("decode: destination must be a non-nil pointer to a slice")
	}
	slice := rv.Elem()
	elem := slice.Type().Elem()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("decode: slice element must be a struct, got %s", elem)
	}

	type binding struct {
		field int
		col   string
	}
	var bindings []binding
	for i := 0; i < elem.NumField(); i++ {
		f := elem.Field(i)
		if !f.IsExported() {
			continue
		}
		col := f.Name
		if tag, ok := f.Tag.Lookup("table"); ok {
			if tag == "-" {
				continue
			}
			col = strings.Split(tag, ",")[0]
		}
		if !t.HasColumn(col) {
			return fmt.Errorf("decode field %s: %w: %q", f.Name, ErrColumnNotFound, col)
		}
		bindings = append(bindings, binding{field: i, col: col})
	}

	out := reflect.MakeSlice(slice.Type(), 0, len(t.recs))
	for _, r := range t.recs {
		item := reflect.New(elem).Elem()
		for _, b := range bindings {
			v, _ := r.Get(b.col)
			if err := setField(item.Field(b.field), v); err != nil {
				return r.annotate(b.col, err)
			}
		}
		out = reflect.Append(out, item)
	}
	slice.Set(out)
	return nil
}

func setField(field reflect.Value, v interface{}) error {
	if field.Kind() == reflect.Pointer {
		if v == nil {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" && field.Type().Elem().Kind() != reflect.String {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		ptr := reflect.New(field.Type().Elem())
		if err := setField(ptr.Elem(), v); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}

	if field.Type() == timeType {
		ts, err := ToTime(v)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(ts))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		if v == nil {
			return &ParseError{Row: -1, Kind: KindString, Err: ErrMissingValue}
		}
		field.SetString(Stringify(v))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := ToInt(v)
		if err != nil {
			return err
		}
		if field.OverflowInt(i) {
			return &ParseError{Row: -1, Value: Stringify(v), Kind: KindInt, Err: strconv.ErrRange}
		}
		field.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, err := ToInt(v)
		if err != nil {
			return err
		}
		if i < 0 || field.OverflowUint(uint64(i)) {
			return &ParseError{Row: -1, Value: Stringify(v), Kind: KindInt, Err: strconv.ErrRange}
		}
		field.SetUint(uint64(i))
	case reflect.Float32, reflect.Float64:
		f, err := ToFloat(v)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		switch b := v.(type) {
		case bool:
			field.SetBool(b)
		default:
			parsed, err := ParseValue(Stringify(v), KindBool)
			if err != nil {
				return err
			}
			if parsed == nil {
				return &ParseError{Row: -1, Kind: KindBool, Err: ErrMissingValue}
			}
			field.SetBool(parsed.(bool))
		}
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
