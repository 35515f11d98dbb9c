package handlers

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dump-normalizer/internal/services"
)

// Result is the outcome of converting one file.
type Result struct {
	Document   []byte
	Statements int
	Tables     int
}

// Handler converts one file's decoded (UTF-8) content into the output
// document. Implementations are stateless across files; any per-run state
// is created inside Handle and discarded with it.
type Handler interface {
	Handle(name string, data []byte) (*Result, error)
}

// Dispatcher routes a file to its format handler by extension.
type Dispatcher struct {
	log  zerolog.Logger
	sql  Handler
	csv  Handler
	tsv  Handler
	json Handler
}

func NewDispatcher(log zerolog.Logger, opts services.Options) *Dispatcher {
	return &Dispatcher{
		log:  log,
		sql:  &SQLHandler{log: log, opts: opts},
		csv:  &CSVHandler{log: log, opts: opts, comma: ','},
		tsv:  &CSVHandler{log: log, opts: opts, comma: '\t'},
		json: &JSONHandler{log: log, opts: opts},
	}
}

// ForPath returns the handler responsible for the file, or false when the
// extension is not recognized.
func (d *Dispatcher) ForPath(path string) (Handler, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sql", ".dump":
		return d.sql, true
	case ".csv":
		return d.csv, true
	case ".tsv":
		return d.tsv, true
	case ".json", ".ndjson":
		return d.json, true
	}
	return nil, false
}

// tableNameFor derives a table name from a record file's base name.
func tableNameFor(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "data"
	}
	return sb.String()
}

// now is swapped out in tests for deterministic banners.
var now = time.Now
