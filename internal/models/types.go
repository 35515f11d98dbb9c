package models

import "fmt"

// Format is the closed set of supported output formats.
type Format int

const (
	FormatMySQL Format = iota
	FormatPostgres
	FormatCSV
	FormatJSON
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "mysql":
		return FormatMySQL, nil
	case "postgres":
		return FormatPostgres, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("unsupported output format: %q", s)
}

func (f Format) String() string {
	switch f {
	case FormatMySQL:
		return "mysql"
	case FormatPostgres:
		return "postgres"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Extension returns the file extension used for converted output.
func (f Format) Extension() string {
	switch f {
	case FormatMySQL, FormatPostgres:
		return ".sql"
	case FormatCSV:
		return ".csv"
	case FormatJSON:
		return ".json"
	}
	return ".out"
}

// Resolved column storage types.
const (
	TypeJSON     = "JSON"
	TypeDateTime = "DATETIME"
	TypeDecimal  = "DECIMAL(10,2)"
	TypeTinyInt  = "TINYINT"
	TypeSmallInt = "SMALLINT"
	TypeInt      = "INT"
	TypeBigInt   = "BIGINT"
	TypeText     = "TEXT"
)

// TypeVarchar builds a bounded string type for the observed width.
func TypeVarchar(n int) string {
	return fmt.Sprintf("VARCHAR(%d)", n)
}
