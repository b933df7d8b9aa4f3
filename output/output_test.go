package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/vegasq/tabcat/mask"
	"github.com/vegasq/tabcat/reader"
	"github.com/vegasq/tabcat/table"
)

func testTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New([]string{"name", "id", "score"}, [][]interface{}{
		{"alice", int64(1), 95.5},
		{"bob", int64(2), nil},
	})
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	return tbl
}

func TestCSVFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(testTable(t)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("Format() produced invalid CSV: %v", err)
	}

	want := [][]string{
		{"name", "id", "score"},
		{"alice", "1", "95.5"},
		{"bob", "2", ""},
	}
	if len(records) != len(want) {
		t.Fatalf("Format() produced %d lines, want %d", len(records), len(want))
	}
	for i := range want {
		if strings.Join(records[i], "|") != strings.Join(want[i], "|") {
			t.Errorf("line %d = %v, want %v", i, records[i], want[i])
		}
	}
}

func TestCSVFormatter_EmptyTable(t *testing.T) {
	tbl, _ := table.New([]string{"a", "b"}, nil)

	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(tbl); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.String() != "a,b\n" {
		t.Errorf("Format() = %q, want header only", buf.String())
	}
}

func TestFormatValue_Injection(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+A1", "'+A1"},
		{"+1", "+1"},
		{"-3.5", "-3.5"},
		{"-1e3", "-1e3"},
		{"@cmd", "'@cmd"},
		{"-it's", "'-it''s"},
		{"plain", "plain"},
		{int64(-3), "-3"},
		{nil, ""},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCSVFormatter_NegativeNumbersRoundTrip(t *testing.T) {
	input := "city,temp,note\noslo,-3.5,=cmd\nrome,+12,-warm\n"
	tbl, err := reader.ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewCSVFormatter(&buf).Format(tbl); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "city,temp,note\noslo,-3.5,'=cmd\nrome,+12,'-warm\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf).Format(testTable(t)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Format() produced %d lines, want 2", len(lines))
	}

	// Keys follow column order.
	if lines[0] != `{"name":"alice","id":1,"score":95.5}` {
		t.Errorf("line 0 = %s", lines[0])
	}
	if lines[1] != `{"name":"bob","id":2,"score":null}` {
		t.Errorf("line 1 = %s", lines[1])
	}

	for i, line := range lines {
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestJSONFormatter_MissingRecordAndNaN(t *testing.T) {
	tbl, err := table.New([]string{"v"}, [][]interface{}{{1.5}, {math.NaN()}, {2.5}})
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}
	masked, err := mask.Mask(tbl, mask.Of(true, true, false))
	if err != nil {
		t.Fatalf("mask.Mask() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewJSONFormatter(&buf).Format(masked); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "{\"v\":1.5}\n{\"v\":null}\nnull\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestTableFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTableFormatter(&buf).Format(testTable(t)); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"name", "score", "alice", "95.5", "bob"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() output missing %q:\n%s", want, out)
		}
	}
}

func TestTemplateFormatter_Format(t *testing.T) {
	tbl, err := table.New([]string{"model", "mpg"}, [][]interface{}{
		{"civic", "33.46"},
		{"camry", nil},
	})
	if err != nil {
		t.Fatalf("table.New() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewTemplateFormatter(&buf, "{model}: {mpg:.1f}").Format(tbl); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "civic: 33.5\ncamry: \n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestTemplateFormatter_UnknownField(t *testing.T) {
	var buf bytes.Buffer
	err := NewTemplateFormatter(&buf, "{nope}").Format(testTable(t))
	if err == nil {
		t.Fatal("Format() expected error for unknown field")
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"jsonl", "json", "CSV", "table"} {
		if _, err := New(name, &bytes.Buffer{}); err != nil {
			t.Errorf("New(%q) error = %v", name, err)
		}
	}
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New(\"xml\") expected error")
	}
}
