// Package output writes tables in various text formats.
//
// # Supported Formats
//
//   - JSON Lines: One JSON object per line, keys in column order
//   - CSV: Comma-separated values with header row
//   - Table: Aligned text table for terminals
//   - Template: One line per record from a format template
//
// Every formatter preserves column order and record order. Missing values
// are empty (CSV, table, template) or null (JSON); a missing record is a
// null JSON line.
//
// # Basic Usage
//
//	formatter, err := output.New("csv", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := formatter.Format(t); err != nil {
//	    log.Fatal(err)
//	}
//
// # Writing to Different Destinations
//
// Write to a bytes buffer to get string output:
//
//	var buf bytes.Buffer
//	formatter := output.NewCSVFormatter(&buf)
//	if err := formatter.Format(t); err != nil {
//	    log.Fatal(err)
//	}
//	csvString := buf.String()
package output
