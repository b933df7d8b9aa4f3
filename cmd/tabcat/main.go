package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vegasq/tabcat/aggregate"
	"github.com/vegasq/tabcat/internal/config"
	"github.com/vegasq/tabcat/internal/logging"
	"github.com/vegasq/tabcat/output"
	"github.com/vegasq/tabcat/query"
	"github.com/vegasq/tabcat/reader"
	"github.com/vegasq/tabcat/seq"
	"github.com/vegasq/tabcat/table"
)

// listFlag collects every occurrence of a repeatable flag.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(s string) error {
	*l = append(*l, s)
	return nil
}

type options struct {
	where      string
	mask       bool
	selectCols string
	group      string
	agg        string
	value      string
	sortOrder  string
	desc       bool
	splits     listFlag
	extracts   listFlag
	format     string
	template   string
	delimiter  string
	offset     int
	limit      int
	schema     bool
	configFile string
	envFile    string
	verbose    bool
}

func newFlagSet(o *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("tabcat", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.where, "where", "", "Row selection expression (e.g., \"cyl == 4 & hwy > 30\")")
	fs.BoolVar(&o.mask, "mask", false, "Replace unselected rows with null instead of dropping them")
	fs.StringVar(&o.selectCols, "select", "", "Comma separated columns to output")
	fs.StringVar(&o.group, "group", "", "Group rows by this column")
	fs.StringVar(&o.agg, "agg", "mean", "Aggregate for -group: mean, sum, min, max, count, std")
	fs.StringVar(&o.value, "value", "", "Column aggregated by -agg")
	fs.StringVar(&o.sortOrder, "sort", "key", "Group order: key, value, none")
	fs.BoolVar(&o.desc, "desc", false, "Sort groups in descending order")
	fs.Var(&o.splits, "split", "Derive a column from a split: src:dst:sep:part (repeatable)")
	fs.Var(&o.extracts, "extract", "Derive a column from a regex group: src:dst:regex:group (repeatable)")
	fs.StringVar(&o.format, "f", "", "Output format: jsonl, csv, table, template, parquet (default from config, jsonl)")
	fs.StringVar(&o.template, "template", "", "Line template for -f template (e.g., \"{model}: {hwy}\")")
	fs.StringVar(&o.delimiter, "d", "", "Field delimiter for delimited text (default from config, \",\")")
	fs.IntVar(&o.offset, "offset", 0, "Skip this many rows")
	fs.IntVar(&o.limit, "limit", -1, "Limit number of rows (0 = unlimited, default from config)")
	fs.BoolVar(&o.schema, "schema", false, "Show schema information instead of data")
	fs.StringVar(&o.configFile, "config", "", "YAML config file")
	fs.StringVar(&o.envFile, "env", "", "Environment file (default .env when present)")
	fs.BoolVar(&o.verbose, "v", false, "Debug logging to stderr")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tabcat [options] <file> [file...]\n\n")
		fmt.Fprintf(stderr, "Read CSV, TSV and Parquet files, select rows and aggregate groups.\n\n")
		fmt.Fprintf(stderr, "IMPORTANT: All flags must come BEFORE file arguments.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  tabcat -f table mpg.csv\n")
		fmt.Fprintf(stderr, "  tabcat -where \"cyl == 4 & hwy > 30\" -select model,hwy mpg.csv\n")
		fmt.Fprintf(stderr, "  tabcat -group cyl -agg mean -value cty mpg.csv\n")
		fmt.Fprintf(stderr, "  tabcat -group class -value hwy -sort value -desc mpg.csv\n")
		fmt.Fprintf(stderr, "  tabcat -split \"model:make:-:0\" -f csv mpg.csv\n")
		fmt.Fprintf(stderr, "  tabcat -schema \"data/*.parquet\"\n")
	}
	return fs
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one tabcat invocation. Data goes to stdout, logs and usage
// to stderr.
func run(args []string, stdout, stderr io.Writer) error {
	var o options
	fs := newFlagSet(&o, stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(&o, fs)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if o.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("missing file argument")
	}
	if o.offset < 0 {
		return fmt.Errorf("-offset must be non-negative, got %d", o.offset)
	}

	readOpts := []reader.Option{
		reader.WithDelimiter(cfg.Delim()),
		reader.WithTrimSpace(cfg.TrimSpace),
		reader.WithLogger(logger),
	}

	if o.schema {
		return handleSchemaMode(fs.Arg(0), cfg.Format, stdout, stderr, readOpts)
	}

	t, err := readInputs(fs.Args(), readOpts)
	if err != nil {
		return err
	}
	logger.Debug("loaded input", zap.Strings("files", fs.Args()), zap.Int("rows", t.Len()))

	t, err = transform(t, &o, logger)
	if err != nil {
		return err
	}

	t = window(t, o.offset, cfg.Limit)
	logger.Debug("writing output", zap.String("format", cfg.Format), zap.Int("rows", t.Len()))

	return write(t, cfg.Format, o.template, stdout)
}

// loadConfig reads the config file and environment, then applies the
// flags given on the command line on top.
func loadConfig(o *options, fs *flag.FlagSet) (*config.Config, error) {
	var loaderOpts []config.LoaderOption
	if o.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(o.configFile))
	}
	if o.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(o.envFile))
	}
	cfg, err := config.Load(loaderOpts...)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "f":
			cfg.Format = o.format
		case "d":
			cfg.Delimiter = o.delimiter
		case "limit":
			cfg.Limit = o.limit
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readInputs reads every argument (each may be a glob pattern) and
// concatenates the results. With more than one argument plain files are
// tagged with the _file column too, so they combine with glob results.
func readInputs(paths []string, opts []reader.Option) (*table.Table, error) {
	var all *table.Table
	for _, path := range paths {
		t, err := reader.ReadMultipleFiles(path, opts...)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("file '%s' not found", path)
			}
			return nil, err
		}
		if len(paths) > 1 && !t.HasColumn(reader.FileColumn) {
			t, err = t.AddColumn(reader.FileColumn, seq.Repeat[interface{}](path, t.Len()))
			if err != nil {
				return nil, err
			}
		}
		if all == nil {
			all = t
			continue
		}
		if all, err = all.Concat(t); err != nil {
			return nil, fmt.Errorf("failed to combine %s: %w", path, err)
		}
	}
	return all.Reindex(), nil
}

// transform applies derivations, row selection, grouping and projection
// in that order.
func transform(t *table.Table, o *options, logger *zap.Logger) (*table.Table, error) {
	var err error
	for _, spec := range o.splits {
		src, dst, sep, part, perr := parseDeriveSpec(spec)
		if perr != nil {
			return nil, fmt.Errorf("invalid -split %q: %w", spec, perr)
		}
		if t, err = t.DeriveSplit(src, dst, sep, part); err != nil {
			return nil, fmt.Errorf("split %s: %w", src, err)
		}
	}
	for _, spec := range o.extracts {
		src, dst, pattern, group, perr := parseDeriveSpec(spec)
		if perr != nil {
			return nil, fmt.Errorf("invalid -extract %q: %w", spec, perr)
		}
		re, rerr := regexp.Compile(pattern)
		if rerr != nil {
			return nil, fmt.Errorf("invalid -extract pattern: %w", rerr)
		}
		if t, err = t.DeriveExtract(src, dst, re, group); err != nil {
			return nil, fmt.Errorf("extract %s: %w", src, err)
		}
	}

	if o.where != "" {
		expr, perr := query.Parse(o.where)
		if perr != nil {
			return nil, fmt.Errorf("parsing -where: %w", perr)
		}
		logger.Debug("selecting rows", zap.Stringer("expr", expr), zap.Bool("mask", o.mask))
		if o.mask {
			t, err = query.ApplyMask(t, expr)
		} else {
			t, err = query.ApplyFilter(t, expr)
		}
		if err != nil {
			return nil, fmt.Errorf("applying -where: %w", err)
		}
	}

	if o.group != "" {
		if t, err = groupTable(t, o, logger); err != nil {
			return nil, err
		}
	}

	if o.selectCols != "" {
		cols := strings.Split(o.selectCols, ",")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		if t, err = t.Select(cols...); err != nil {
			return nil, fmt.Errorf("applying -select: %w", err)
		}
	}
	return t, nil
}

// parseDeriveSpec splits "src:dst:middle:n". The middle part may itself
// contain colons.
func parseDeriveSpec(spec string) (src, dst, middle string, n int, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 4 {
		return "", "", "", 0, errors.New("expected src:dst:arg:n")
	}
	n, err = strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return "", "", "", 0, fmt.Errorf("bad index: %w", err)
	}
	middle = strings.Join(parts[2:len(parts)-1], ":")
	return parts[0], parts[1], middle, n, nil
}

func groupTable(t *table.Table, o *options, logger *zap.Logger) (*table.Table, error) {
	fn, err := aggregate.ParseFunc(o.agg)
	if err != nil {
		return nil, err
	}
	order, err := aggregate.ParseOrder(o.sortOrder)
	if err != nil {
		return nil, err
	}
	if fn != aggregate.Count && o.value == "" {
		return nil, fmt.Errorf("-agg %s requires -value", fn)
	}

	opts := []aggregate.Option{aggregate.SortBy(order), aggregate.WithLogger(logger)}
	if o.desc {
		opts = append(opts, aggregate.Descending())
	}
	groups, err := aggregate.GroupBy(t, o.group, o.value, fn, opts...)
	if err != nil {
		return nil, err
	}

	valueCol := string(fn) + "_" + o.value
	if o.value == "" {
		valueCol = string(fn) + "_" + o.group
	}
	return aggregate.Table(groups, o.group, valueCol)
}

// window applies offset and limit. A limit of 0 keeps every row.
func window(t *table.Table, offset, limit int) *table.Table {
	if limit <= 0 {
		return t.Slice(offset, t.Len())
	}
	return t.Slice(offset, offset+limit)
}

func write(t *table.Table, format, template string, w io.Writer) error {
	var formatter output.Formatter
	switch format {
	case "parquet":
		return reader.WriteParquet(w, t)
	case "template":
		if template == "" {
			return errors.New("-f template requires -template")
		}
		formatter = output.NewTemplateFormatter(w, template)
	default:
		var err error
		if formatter, err = output.New(format, w); err != nil {
			return err
		}
	}

	if err := formatter.Format(t); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	return nil
}

// handleSchemaMode prints column metadata. For glob patterns the first
// match is described.
func handleSchemaMode(filename, format string, stdout, stderr io.Writer, opts []reader.Option) error {
	filePath := filename

	// Check if pattern contains glob wildcards
	if strings.ContainsAny(filename, "*?[]") {
		matches, err := filepath.Glob(filename)
		if err != nil {
			return fmt.Errorf("invalid glob pattern: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files match pattern: %s", filename)
		}

		filePath = matches[0]
		if len(matches) > 1 {
			fmt.Fprintf(stderr, "# Showing schema from: %s (%d files matched)\n", filePath, len(matches))
		}
	}

	schemaInfos, err := reader.ExtractSchemaInfo(filePath, opts...)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("file '%s' not found", filePath)
		}
		return err
	}

	rows := make([][]interface{}, len(schemaInfos))
	for i, field := range schemaInfos {
		rows[i] = []interface{}{
			field.Name,
			field.Type,
			field.PhysicalType,
			field.LogicalType,
			field.Required,
			field.Optional,
			field.Repeated,
		}
	}
	t, err := table.New([]string{"name", "type", "physical_type", "logical_type", "required", "optional", "repeated"}, rows)
	if err != nil {
		return err
	}

	if format == "parquet" || format == "template" {
		format = "jsonl"
	}
	return write(t, format, "", stdout)
}
