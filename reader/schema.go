package reader

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/tabcat/table"
)

// SchemaInfo represents metadata about a single column.
//
// For parquet files the physical and logical types come from the file
// schema. For delimited text PhysicalType is "TEXT" and Type is the kind
// inferred from the column's values.
type SchemaInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	Required     bool   `json:"required"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
}

// ExtractSchemaInfo extracts column metadata from a parquet or delimited
// text file.
//
// For nested parquet types, field names use dot notation (e.g.,
// "address.street").
func ExtractSchemaInfo(path string, opts ...Option) ([]SchemaInfo, error) {
	if !IsParquet(path) {
		t, err := ReadFile(path, opts...)
		if err != nil {
			return nil, err
		}
		return TableSchema(t), nil
	}

	reader, err := NewReader(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = reader.Close() }()

	var schemaInfos []SchemaInfo
	for _, field := range reader.Schema().Fields() {
		schemaInfos = append(schemaInfos, extractFieldInfo(field, "", false)...)
	}

	return schemaInfos, nil
}

// TableSchema describes the columns of an in-memory table.
func TableSchema(t *table.Table) []SchemaInfo {
	kinds := t.Kinds()
	infos := make([]SchemaInfo, 0, len(kinds))
	for _, col := range t.Columns() {
		values, _ := t.Column(col)
		required := true
		for _, v := range values {
			if v == nil {
				required = false
				break
			}
		}
		infos = append(infos, SchemaInfo{
			Name:         col,
			Type:         strings.ToUpper(kinds[col].String()),
			PhysicalType: "TEXT",
			Required:     required,
			Optional:     !required,
		})
	}
	return infos
}

// extractFieldInfo recursively extracts schema information from a field,
// tracking whether any parent field is repeated.
func extractFieldInfo(field parquet.Field, prefix string, parentRepeated bool) []SchemaInfo {
	fieldName := field.Name()
	if prefix != "" {
		fieldName = prefix + "." + fieldName
	}

	isRepeated := parentRepeated || field.Repeated()

	// Groups only contribute their leaves.
	if children := field.Fields(); len(children) > 0 {
		var infos []SchemaInfo
		for _, child := range children {
			infos = append(infos, extractFieldInfo(child, fieldName, isRepeated)...)
		}
		return infos
	}

	return []SchemaInfo{{
		Name:         fieldName,
		Type:         userType(field),
		PhysicalType: physicalType(field),
		LogicalType:  logicalType(field),
		Required:     field.Required(),
		Optional:     field.Optional(),
		Repeated:     isRepeated,
	}}
}

// physicalType returns the physical type name of a Parquet field.
func physicalType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// logicalType returns the logical type name of a Parquet field.
func logicalType(field parquet.Field) string {
	if field.Type() == nil {
		return ""
	}
	lt := field.Type().LogicalType()
	if lt == nil {
		return ""
	}
	return lt.String()
}

// userType maps physical and logical types onto the same names
// TableSchema uses for delimited text, where one exists.
func userType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	lt := field.Type().LogicalType()
	switch {
	case lt == nil:
	case lt.UTF8 != nil, lt.Enum != nil, lt.UUID != nil, lt.Json != nil:
		return "STRING"
	case lt.Date != nil, lt.Timestamp != nil:
		return "TIME"
	case lt.Decimal != nil:
		return "FLOAT"
	case lt.Integer != nil:
		return "INT"
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOL"
	case parquet.Int32, parquet.Int64:
		return "INT"
	case parquet.Float, parquet.Double:
		return "FLOAT"
	case parquet.Int96:
		return "TIME"
	default:
		return "STRING"
	}
}
