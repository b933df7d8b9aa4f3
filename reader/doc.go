// Package reader loads delimited text and Apache Parquet files into tables.
//
// Files are dispatched on extension: ".parquet" is read with the parquet
// reader, ".tsv" as tab separated text, and anything else as comma
// separated text with a header row.
//
// # Basic Usage
//
// Reading a single file:
//
//	t, err := reader.ReadFile("mpg.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, rec := range t.Records() {
//	    fmt.Println(rec.Map())
//	}
//
// Delimited text values stay as text until they are used; empty fields are
// missing values. Parquet values are converted to int64, float64, bool,
// string or time.Time.
//
// # Multi-file Operations
//
// Reading multiple files using glob patterns:
//
//	t, err := reader.ReadMultipleFiles("data/*.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every row read through a glob carries a "_file" column with its source
// path. All matched files must share the same header.
//
// # Writing
//
// WriteParquet stores a table as a parquet file, converting text columns
// to their inferred types.
//
// # Schema Introspection
//
// ExtractSchemaInfo describes the columns of either file format:
//
//	infos, err := reader.ExtractSchemaInfo("mpg.csv")
//	for _, info := range infos {
//	    fmt.Printf("%s: %s\n", info.Name, info.Type)
//	}
package reader
