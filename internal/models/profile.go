package models

// ColumnProfile accumulates type evidence for one column across all records
// of a source. Null and empty values never touch the profile.
type ColumnProfile struct {
	Name               string `json:"name"`
	MaxLength          int    `json:"max_length"`
	ContainsDecimal    bool   `json:"contains_decimal"`
	ContainsNonNumeric bool   `json:"contains_non_numeric"`
	IsDate             bool   `json:"is_date"`       // starts true, monotonically falsified
	IsStructured       bool   `json:"is_structured"` // any value was a nested JSON fragment
}

func NewColumnProfile(name string) *ColumnProfile {
	return &ColumnProfile{Name: name, IsDate: true}
}
