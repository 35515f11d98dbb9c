package services

import (
	"fmt"
	"strings"
	"time"

	"dump-normalizer/internal/models"
)

// Assembler wraps ordered statements with the generation banner, encoding
// pragma and integrity-check toggles of the target dialect.
type Assembler struct {
	format   models.Format
	encoding string
}

func NewAssembler(format models.Format, targetEncoding string) *Assembler {
	return &Assembler{format: format, encoding: targetEncoding}
}

func (a *Assembler) Assemble(statements []models.Statement, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("-- ----------------------------------------------------------\n")
	sb.WriteString("-- Generated by dump-normalizer\n")
	fmt.Fprintf(&sb, "-- Date: %s\n", generatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "-- Target encoding: %s\n", a.encoding)
	sb.WriteString("-- ----------------------------------------------------------\n\n")

	switch a.format {
	case models.FormatPostgres:
		sb.WriteString("SET client_encoding = 'UTF8';\n")
		sb.WriteString("SET session_replication_role = replica;\n\n")
	default:
		fmt.Fprintf(&sb, "SET NAMES %s;\n", a.encoding)
		sb.WriteString("SET FOREIGN_KEY_CHECKS = 0;\n\n")
	}

	for _, stmt := range statements {
		// Passthrough statements may have kept their terminator; normalize
		// so none is doubled.
		text := strings.TrimRight(strings.TrimSpace(stmt.Text), ";")
		sb.WriteString(text)
		sb.WriteString(";\n\n")
	}

	switch a.format {
	case models.FormatPostgres:
		sb.WriteString("SET session_replication_role = DEFAULT;\n")
	default:
		sb.WriteString("SET FOREIGN_KEY_CHECKS = 1;\n")
	}

	return sb.String()
}
