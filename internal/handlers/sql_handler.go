package handlers

import (
	"fmt"

	"github.com/rs/zerolog"

	"dump-normalizer/internal/models"
	"dump-normalizer/internal/services"
)

// SQLHandler runs the schema-definition pipeline: split, parse/rewrite,
// optionally merge into dependency order, assemble.
type SQLHandler struct {
	log  zerolog.Logger
	opts services.Options
}

func (h *SQLHandler) Handle(name string, data []byte) (*Result, error) {
	if h.opts.Format == models.FormatCSV || h.opts.Format == models.FormatJSON {
		return nil, fmt.Errorf("output format %s is not supported for schema dumps", h.opts.Format)
	}

	// Fresh schema service per file: table registry and dependency graph
	// must not leak across runs.
	schema := services.NewSchemaService(h.log, h.opts)
	statements, err := schema.Process(string(data))
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", name, err)
	}

	if h.opts.Merge {
		merger := services.NewMergeService(h.log, h.opts.StrictMerge)
		statements, err = merger.Order(statements, schema.Graph())
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", name, err)
		}
	}

	assembler := services.NewAssembler(h.opts.Format, h.opts.Charset)
	doc := assembler.Assemble(statements, now())

	return &Result{
		Document:   []byte(doc),
		Statements: len(statements),
		Tables:     len(schema.Graph().Tables()),
	}, nil
}
