package services

import (
	"fmt"
	"strings"
)

const statementTerminator = ";"

// StatementSplitter segments raw dump text into discrete top-level
// statements. It works line by line: comment and blank lines are dropped,
// and a statement ends on a line whose trimmed form ends with the
// terminator.
type StatementSplitter struct {
	strict bool
}

func NewStatementSplitter(strict bool) *StatementSplitter {
	return &StatementSplitter{strict: strict}
}

func (s *StatementSplitter) Split(text string) ([]string, error) {
	var statements []string
	var buf strings.Builder

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(line)

		if strings.HasSuffix(trimmed, statementTerminator) {
			statements = append(statements, strings.TrimSpace(buf.String()))
			buf.Reset()
		}
	}

	if buf.Len() > 0 {
		if s.strict {
			return nil, fmt.Errorf("unterminated trailing statement: %s", firstLine(buf.String()))
		}
		// Lenient mode drops the trailing buffer silently.
	}

	return statements, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
