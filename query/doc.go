// Package query parses indicator expressions and evaluates them over
// tables.
//
// An expression compares columns with literals and combines the resulting
// indicators elementwise:
//
//	cyl == 4 & (cty > 20 | class == "subcompact")
//	~(class == "suv") ^ hwy >= 30
//	`engine size` < 2.5
//
// # Operators
//
// From tightest to loosest binding:
//
//	( )              grouping
//	~                elementwise not
//	== != < > <= >=  comparison of a column with a literal ("=" means "==")
//	&                elementwise and
//	^                elementwise xor
//	|                elementwise or
//
// Every comparison has exactly one column and one literal, so it always
// binds tighter than the logical operators. Chained comparisons such as
// `0.7 < score < 0.9` are rejected; write `score > 0.7 & score < 0.9`.
//
// The words and, or and not are rejected with ErrNativeLogical. They read
// as whole-value tests, while every operator here works position by
// position.
//
// # Literals
//
// Strings use single or double quotes, numbers may be integers or floats
// (with an optional exponent), and true/false are booleans. Column names
// that are not plain identifiers go in backquotes.
//
// # Usage
//
//	expr, err := query.Parse(`score > 0.7 & score < 0.9`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	filtered, err := query.ApplyFilter(t, expr)
//	if err != nil {
//	    log.Fatal(err)
//	}
package query
