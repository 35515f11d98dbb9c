package models

// Record is one row of a record-oriented source, column name to
// string-rendered value. Missing columns are simply absent.
type Record map[string]string

// ColumnDef is one column of a table definition statement.
type ColumnDef struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Charset   string `json:"charset,omitempty"`
	Collation string `json:"collation,omitempty"`
	Extra     string `json:"extra,omitempty"` // NOT NULL, DEFAULT ..., AUTO_INCREMENT
}

// TableDef is the structural form of one CREATE TABLE statement.
type TableDef struct {
	Name        string      `json:"name"`
	Columns     []ColumnDef `json:"columns"`
	Constraints []string    `json:"constraints,omitempty"` // key/constraint lines, kept verbatim
	ForeignKeys []string    `json:"foreign_keys,omitempty"`
	Options     string      `json:"options,omitempty"` // text after the closing paren
}

// Statement is one split statement of a dump. Table is set only when the
// statement parsed as a table definition.
type Statement struct {
	Text  string
	Table string
}

// IsDefinition reports whether the statement carries a parsed table definition.
func (s Statement) IsDefinition() bool {
	return s.Table != ""
}
