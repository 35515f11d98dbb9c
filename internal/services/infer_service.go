package services

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"dump-normalizer/internal/models"
)

// dateLayouts are tried in order while a column is still a date candidate.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

// TypeInferencer derives a best-fit storage type per column from a sequence
// of untyped records. One instance covers one source; profiles accumulate
// across every record observed.
type TypeInferencer struct {
	profiles map[string]*models.ColumnProfile
	order    []string
}

func NewTypeInferencer() *TypeInferencer {
	return &TypeInferencer{profiles: make(map[string]*models.ColumnProfile)}
}

// Observe folds one record into the per-column profiles. Null and empty
// values are skipped entirely: they neither confirm nor deny a candidate type.
func (t *TypeInferencer) Observe(rec models.Record) {
	for col, val := range rec {
		if val == "" {
			continue
		}
		p, ok := t.profiles[col]
		if !ok {
			p = models.NewColumnProfile(col)
			t.profiles[col] = p
			t.order = append(t.order, col)
		}
		t.observeValue(p, val)
	}
}

func (t *TypeInferencer) observeValue(p *models.ColumnProfile, val string) {
	if len(val) > p.MaxLength {
		p.MaxLength = len(val)
	}

	// A nested JSON fragment short-circuits the numeric and date checks.
	trimmed := strings.TrimSpace(val)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid([]byte(trimmed)) {
		p.IsStructured = true
		return
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(f) {
		p.ContainsNonNumeric = true
	} else if strings.Contains(val, ".") {
		p.ContainsDecimal = true
	}

	if p.IsDate && !parsesAsDate(val) {
		p.IsDate = false
	}
}

func parsesAsDate(val string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, val); err == nil {
			return true
		}
	}
	return false
}

// Columns returns the profiled column names in first-seen order.
func (t *TypeInferencer) Columns() []string {
	return t.order
}

// Resolve derives the final type per column. Precedence is fixed: structured,
// then date, then non-numeric text, then decimal, then integer width by the
// longest value observed.
func (t *TypeInferencer) Resolve() map[string]string {
	resolved := make(map[string]string, len(t.profiles))
	for col, p := range t.profiles {
		resolved[col] = resolveProfile(p)
	}
	return resolved
}

func resolveProfile(p *models.ColumnProfile) string {
	switch {
	case p.IsStructured:
		return models.TypeJSON
	case p.IsDate:
		return models.TypeDateTime
	case p.ContainsNonNumeric:
		if p.MaxLength <= 255 {
			return models.TypeVarchar(p.MaxLength)
		}
		return models.TypeText
	case p.ContainsDecimal:
		return models.TypeDecimal
	case p.MaxLength <= 3:
		return models.TypeTinyInt
	case p.MaxLength <= 5:
		return models.TypeSmallInt
	case p.MaxLength <= 10:
		return models.TypeInt
	default:
		return models.TypeBigInt
	}
}

// Infer runs a full pass over records and returns the resolved mapping.
// An empty record set yields an empty mapping.
func Infer(records []models.Record) map[string]string {
	t := NewTypeInferencer()
	for _, rec := range records {
		t.Observe(rec)
	}
	return t.Resolve()
}
