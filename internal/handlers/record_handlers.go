package handlers

import (
	"fmt"

	"github.com/rs/zerolog"

	"dump-normalizer/internal/services"
)

// CSVHandler converts delimited text sources. The field separator comes from
// the dispatcher, so the same handler covers comma- and tab-delimited files.
type CSVHandler struct {
	log   zerolog.Logger
	opts  services.Options
	comma rune
}

func (h *CSVHandler) Handle(name string, data []byte) (*Result, error) {
	records := services.NewRecordService(h.log, h.opts)
	columns, recs, err := records.ReadCSV(data, h.comma)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	doc, err := records.Render(tableNameFor(name), columns, recs, now())
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return &Result{Document: doc, Statements: len(recs), Tables: 1}, nil
}

// JSONHandler converts structured document sources.
type JSONHandler struct {
	log  zerolog.Logger
	opts services.Options
}

func (h *JSONHandler) Handle(name string, data []byte) (*Result, error) {
	records := services.NewRecordService(h.log, h.opts)
	columns, recs, err := records.ReadJSON(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	doc, err := records.Render(tableNameFor(name), columns, recs, now())
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return &Result{Document: doc, Statements: len(recs), Tables: 1}, nil
}
