// Package format renders brace templates such as
// "{} bought {} item(s) at a price of {:.2f} each".
//
// Placeholders:
//
//	{}          next positional argument
//	{0}         positional argument by index
//	{name}      field of a map[string]interface{} passed as the only argument
//	{name:.2f}  any of the above with a fixed precision for numbers
//	{{ and }}   literal braces
//
// Arguments are rendered with table.Stringify. A precision applied to a
// value that is not a number is a *table.TypeError, and a placeholder
// without a matching argument is a *table.ShapeError.
package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vegasq/tabcat/table"
)

// ErrBadTemplate is wrapped by errors about malformed templates
var ErrBadTemplate = errors.New("bad template")

// Format renders tmpl with args.
func Format(tmpl string, args ...interface{}) (string, error) {
	var named map[string]interface{}
	if len(args) == 1 {
		if m, ok := args[0].(map[string]interface{}); ok {
			named = m
		}
	}

	var out strings.Builder
	next := 0
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				out.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' at offset %d", ErrBadTemplate, i)
			}
			field := tmpl[i+1 : i+end]
			i += end

			name, spec, _ := strings.Cut(field, ":")
			var value interface{}
			switch {
			case name == "":
				if next >= len(args) {
					return "", &table.ShapeError{What: "template arguments", Want: next + 1, Got: len(args)}
				}
				value = args[next]
				next++
			case isIndex(name):
				idx, _ := strconv.Atoi(name)
				if idx >= len(args) {
					return "", &table.ShapeError{What: "template arguments", Want: idx + 1, Got: len(args)}
				}
				value = args[idx]
			default:
				if named == nil {
					return "", fmt.Errorf("%w: named field {%s} needs a map argument", ErrBadTemplate, name)
				}
				v, ok := named[name]
				if !ok {
					return "", fmt.Errorf("%w: %w: %q", ErrBadTemplate, table.ErrColumnNotFound, name)
				}
				value = v
			}

			rendered, err := render(value, spec)
			if err != nil {
				return "", err
			}
			out.WriteString(rendered)
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				out.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: single '}' at offset %d", ErrBadTemplate, i)
		default:
			out.WriteByte(c)
		}
	}
	return out.String(), nil
}

func isIndex(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// render applies an optional ".Nf" precision spec.
func render(v interface{}, spec string) (string, error) {
	if spec == "" || v == nil {
		return table.Stringify(v), nil
	}
	if !strings.HasPrefix(spec, ".") || !strings.HasSuffix(spec, "f") {
		return "", fmt.Errorf("%w: unsupported format spec %q", ErrBadTemplate, spec)
	}
	prec, err := strconv.Atoi(spec[1 : len(spec)-1])
	if err != nil || prec < 0 {
		return "", fmt.Errorf("%w: unsupported format spec %q", ErrBadTemplate, spec)
	}
	kind := table.KindOf(v)
	if kind != table.KindInt && kind != table.KindFloat {
		return "", &table.TypeError{Op: "format " + spec, Left: kind, Right: table.KindFloat}
	}
	f, _ := table.ToFloat(v)
	return strconv.FormatFloat(f, 'f', prec, 64), nil
}
