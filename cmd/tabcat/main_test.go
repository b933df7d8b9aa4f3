package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/tabcat/reader"
)

const mpgCSV = `model,manufacturer,cyl,cty,hwy,class
a4 quattro,audi,4,18,26,compact
civic,honda,4,28,33,subcompact
camry,toyota,4,21,31,midsize
mustang,ford,6,15,23,subcompact
4runner 4wd,toyota,6,15,19,suv
`

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mpg.csv")
	require.NoError(t, os.WriteFile(path, []byte(mpgCSV), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_Default(t *testing.T) {
	out, err := runCLI(t, "-limit", "2", writeCSV(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `{"model":"a4 quattro","manufacturer":"audi","cyl":"4","cty":"18","hwy":"26","class":"compact"}`, lines[0])
}

func TestRun_WhereSelect(t *testing.T) {
	out, err := runCLI(t, "-where", "cyl == 4 & hwy > 30", "-select", "model,hwy", "-f", "csv", writeCSV(t))
	require.NoError(t, err)
	assert.Equal(t, "model,hwy\ncivic,33\ncamry,31\n", out)
}

func TestRun_Mask(t *testing.T) {
	out, err := runCLI(t, "-where", "cyl == 6", "-mask", "-select", "model", writeCSV(t))
	require.NoError(t, err)

	want := "null\nnull\nnull\n{\"model\":\"mustang\"}\n{\"model\":\"4runner 4wd\"}\n"
	assert.Equal(t, want, out)
}

func TestRun_Group(t *testing.T) {
	out, err := runCLI(t, "-group", "cyl", "-agg", "mean", "-value", "cty", "-f", "csv", writeCSV(t))
	require.NoError(t, err)
	assert.Equal(t, "cyl,mean_cty,count\n4,22.333333333333332,3\n6,15,2\n", out)
}

func TestRun_GroupByValueDesc(t *testing.T) {
	out, err := runCLI(t, "-group", "class", "-value", "hwy", "-sort", "value", "-desc", "-select", "class", "-f", "csv", writeCSV(t))
	require.NoError(t, err)
	assert.Equal(t, "class\nmidsize\nsubcompact\ncompact\nsuv\n", out)
}

func TestRun_Count(t *testing.T) {
	out, err := runCLI(t, "-group", "manufacturer", "-agg", "count", "-f", "csv", writeCSV(t))
	require.NoError(t, err)
	assert.Equal(t, "manufacturer,count_manufacturer,count\naudi,1,1\nford,1,1\nhonda,1,1\ntoyota,2,2\n", out)
}

func TestRun_Derive(t *testing.T) {
	out, err := runCLI(t,
		"-split", "model:first: :0",
		"-extract", `model:digits:(\d+):1`,
		"-select", "first,digits",
		"-limit", "1",
		"-f", "template", "-template", "{first}/{digits}",
		writeCSV(t))
	require.NoError(t, err)
	assert.Equal(t, "a4/4\n", out)
}

func TestRun_Parquet(t *testing.T) {
	out, err := runCLI(t, "-f", "parquet", "-select", "model,cty", writeCSV(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	tbl, err := reader.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.Len())

	cty, err := tbl.Floats("cty")
	require.NoError(t, err)
	assert.Equal(t, []float64{18, 28, 21, 15, 15}, cty)
}

func TestRun_Schema(t *testing.T) {
	out, err := runCLI(t, "-schema", writeCSV(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "model", first["name"])
	assert.Equal(t, "STRING", first["type"])

	var cyl map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &cyl))
	assert.Equal(t, "INT", cyl["type"])
}

func TestRun_MixedGlobAndPlainFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv", "c.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("cyl,cty\n4,20\n"), 0o644))
	}
	plain := filepath.Join(dir, "c.csv")

	out, err := runCLI(t, "-select", "_file", "-f", "csv", filepath.Join(dir, "[ab].csv"), plain)
	require.NoError(t, err)

	want := "_file\n" + filepath.Join(dir, "a.csv") + "\n" + filepath.Join(dir, "b.csv") + "\n" + plain + "\n"
	assert.Equal(t, want, out)
}

func TestReadInputs_Reindexed(t *testing.T) {
	path := writeCSV(t)

	tbl, err := readInputs([]string{path, path}, nil)
	require.NoError(t, err)
	require.Equal(t, 10, tbl.Len())
	for i, rec := range tbl.Records() {
		assert.Equal(t, i, rec.Index)
	}
}

func TestRun_Errors(t *testing.T) {
	path := writeCSV(t)

	tests := []struct {
		name string
		args []string
	}{
		{"no file", nil},
		{"missing file", []string{filepath.Join(t.TempDir(), "nope.csv")}},
		{"native logical", []string{"-where", "cyl == 4 and hwy > 30", path}},
		{"unknown column", []string{"-where", "weight > 3", path}},
		{"bad format", []string{"-f", "xml", path}},
		{"bad agg", []string{"-group", "cyl", "-agg", "median", "-value", "cty", path}},
		{"agg without value", []string{"-group", "cyl", path}},
		{"bad split", []string{"-split", "model:x", path}},
		{"negative offset", []string{"-offset", "-1", path}},
		{"template without text", []string{"-f", "template", path}},
		{"unknown flag", []string{"-nope", path}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParseDeriveSpec(t *testing.T) {
	src, dst, mid, n, err := parseDeriveSpec("time:hour:::0")
	require.NoError(t, err)
	assert.Equal(t, "time", src)
	assert.Equal(t, "hour", dst)
	assert.Equal(t, ":", mid)
	assert.Equal(t, 0, n)

	_, _, _, _, err = parseDeriveSpec("a:b:c:x")
	assert.Error(t, err)
}
