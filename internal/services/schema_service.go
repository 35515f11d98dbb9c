package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"dump-normalizer/internal/models"
)

var (
	reCreateTable = regexp.MustCompile(`(?i)^\s*CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?` + "[`\"]?" + `(\w+)` + "[`\"]?" + `\s*\(`)
	reColumnDef   = regexp.MustCompile("^[`\"]?(\\w+)[`\"]?\\s+(\\w+(?:\\([^)]*\\))?)\\s*(.*)$")
	reReferences  = regexp.MustCompile(`(?i)(REFERENCES\s+)` + "[`\"]?" + `(\w+)` + "[`\"]?")
	reCharsetAttr = regexp.MustCompile(`(?i)\s*CHARACTER\s+SET\s+\w+`)
	reCollateAttr = regexp.MustCompile(`(?i)\s*COLLATE[\s=]+\w+`)
	reCharsetOpt  = regexp.MustCompile(`(?i)(?:DEFAULT\s+)?(?:CHARSET|CHARACTER\s+SET)[\s=]+\w+`)
)

// constraintPrefixes mark body lines that are keys or constraints rather
// than column definitions.
var constraintPrefixes = []string{
	"PRIMARY KEY", "UNIQUE", "FOREIGN KEY", "CONSTRAINT",
	"KEY", "INDEX", "FULLTEXT", "SPATIAL", "CHECK",
}

// SchemaService parses, rewrites and re-serializes table definition
// statements for one conversion run. It owns the run's table registry and
// dependency graph; create a fresh instance per file so no state leaks
// between runs.
type SchemaService struct {
	log      zerolog.Logger
	opts     Options
	splitter *StatementSplitter
	tables   map[string]*models.TableDef
	graph    *models.DependencyGraph
}

func NewSchemaService(log zerolog.Logger, opts Options) *SchemaService {
	return &SchemaService{
		log:      log.With().Str("component", "schema").Logger(),
		opts:     opts,
		splitter: NewStatementSplitter(opts.StrictSplit),
		tables:   make(map[string]*models.TableDef),
		graph:    models.NewDependencyGraph(),
	}
}

// Graph exposes the dependency graph built up during Process.
func (s *SchemaService) Graph() *models.DependencyGraph {
	return s.graph
}

// Table returns the registered definition for a table name, or nil.
func (s *SchemaService) Table(name string) *models.TableDef {
	return s.tables[name]
}

// Process splits raw dump text and parses, rewrites and re-serializes every
// table definition statement. A statement that fails to parse is passed
// through unmodified with a warning; the run continues.
func (s *SchemaService) Process(raw string) ([]models.Statement, error) {
	split, err := s.splitter.Split(raw)
	if err != nil {
		return nil, err
	}

	statements := make([]models.Statement, 0, len(split))
	for _, stmt := range split {
		if !reCreateTable.MatchString(stmt) {
			statements = append(statements, models.Statement{Text: stmt})
			continue
		}

		def, err := s.parseCreateTable(stmt)
		if err != nil {
			s.log.Warn().Err(err).Str("statement", firstLine(stmt)).Msg("parse failed, passing statement through")
			statements = append(statements, models.Statement{Text: stmt})
			continue
		}

		s.rewrite(def)
		s.register(def)
		statements = append(statements, models.Statement{Text: s.serialize(def), Table: def.Name})
	}

	return statements, nil
}

func (s *SchemaService) parseCreateTable(stmt string) (*models.TableDef, error) {
	m := reCreateTable.FindStringSubmatch(stmt)
	if m == nil {
		return nil, fmt.Errorf("not a table definition")
	}

	open := strings.Index(stmt, "(")
	closing := strings.LastIndex(stmt, ")")
	if open < 0 || closing <= open {
		return nil, fmt.Errorf("unbalanced definition body")
	}

	def := &models.TableDef{
		Name:    m[1],
		Options: strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(stmt[closing+1:]), ";")),
	}

	for _, part := range splitTopLevel(stmt[open+1 : closing]) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if isConstraint(part) {
			def.Constraints = append(def.Constraints, part)
			if ref, ok := referencedTable(part); ok {
				def.ForeignKeys = append(def.ForeignKeys, ref)
			}
			continue
		}

		cm := reColumnDef.FindStringSubmatch(part)
		if cm == nil {
			return nil, fmt.Errorf("unparseable column definition: %s", part)
		}
		extra := reCollateAttr.ReplaceAllString(reCharsetAttr.ReplaceAllString(cm[3], ""), "")
		def.Columns = append(def.Columns, models.ColumnDef{
			Name:  cm[1],
			Type:  cm[2],
			Extra: strings.TrimSpace(extra),
		})
	}

	if len(def.Columns) == 0 {
		return nil, fmt.Errorf("table %s has no columns", def.Name)
	}
	return def, nil
}

// splitTopLevel splits a definition body on commas outside parentheses and
// quoted strings, so enum('a,b') and DECIMAL(10,2) stay intact.
func splitTopLevel(body string) []string {
	var parts []string
	var depth int
	var inSingle, inDouble bool
	last := 0

	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '(':
			if !inSingle && !inDouble {
				depth++
			}
		case ')':
			if !inSingle && !inDouble {
				depth--
			}
		case ',':
			if depth == 0 && !inSingle && !inDouble {
				parts = append(parts, body[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, body[last:])
	return parts
}

func isConstraint(part string) bool {
	// A quoted leading identifier is always a column, even when the name
	// collides with a keyword like `key` or `index`.
	if len(part) > 0 && (part[0] == '`' || part[0] == '"') {
		return false
	}
	upper := strings.ToUpper(part)
	for _, prefix := range constraintPrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// referencedTable extracts the target table of a foreign key constraint.
// Column-level detail is discarded; only the table edge matters downstream.
func referencedTable(constraint string) (string, bool) {
	if !strings.Contains(strings.ToUpper(constraint), "FOREIGN KEY") {
		return "", false
	}
	m := reReferences.FindStringSubmatch(constraint)
	if m == nil {
		return "", false
	}
	return m[2], true
}

// rewrite applies the modernization rules: prefix stripping, deprecated type
// migration and charset annotation for variable-length text columns.
func (s *SchemaService) rewrite(def *models.TableDef) {
	if s.opts.StripPrefix != "" && strings.HasPrefix(def.Name, s.opts.StripPrefix) {
		def.Name = strings.TrimPrefix(def.Name, s.opts.StripPrefix)
	}

	for i := range def.Columns {
		col := &def.Columns[i]
		if strings.EqualFold(col.Type, "TINYTEXT") {
			col.Type = "VARCHAR(255)"
		}
		if isTextType(col.Type) {
			col.Charset = s.opts.Charset
			col.Collation = s.opts.Collation()
		}
	}

	// Referenced table names follow the same prefix strip so the emitted
	// constraints stay consistent with the renamed tables.
	if s.opts.StripPrefix != "" {
		for i, c := range def.Constraints {
			def.Constraints[i] = reReferences.ReplaceAllStringFunc(c, func(match string) string {
				sub := reReferences.FindStringSubmatch(match)
				return sub[1] + "`" + strings.TrimPrefix(sub[2], s.opts.StripPrefix) + "`"
			})
		}
		for i, fk := range def.ForeignKeys {
			def.ForeignKeys[i] = strings.TrimPrefix(fk, s.opts.StripPrefix)
		}
	}

	def.Options = reCollateAttr.ReplaceAllString(def.Options, "")
	if reCharsetOpt.MatchString(def.Options) {
		def.Options = reCharsetOpt.ReplaceAllString(def.Options, "DEFAULT CHARSET="+s.opts.Charset)
	} else if s.opts.Format == models.FormatMySQL {
		def.Options = strings.TrimSpace(def.Options + " DEFAULT CHARSET=" + s.opts.Charset)
	}
}

func isTextType(typ string) bool {
	upper := strings.ToUpper(typ)
	return strings.HasPrefix(upper, "VARCHAR") ||
		upper == "TEXT" || upper == "MEDIUMTEXT" || upper == "LONGTEXT"
}

func (s *SchemaService) register(def *models.TableDef) {
	// Last write wins for duplicate table names, no error raised.
	s.tables[def.Name] = def
	s.graph.Register(def.Name)
	for _, ref := range def.ForeignKeys {
		s.graph.AddDependency(def.Name, ref)
	}
}

// serialize renders the structural form back to dialect text.
func (s *SchemaService) serialize(def *models.TableDef) string {
	switch s.opts.Format {
	case models.FormatPostgres:
		return serializePostgres(def)
	default:
		return serializeMySQL(def)
	}
}

func serializeMySQL(def *models.TableDef) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE `%s` (\n", def.Name)

	lines := make([]string, 0, len(def.Columns)+len(def.Constraints))
	for _, col := range def.Columns {
		line := fmt.Sprintf("  `%s` %s", col.Name, col.Type)
		if col.Charset != "" {
			line += fmt.Sprintf(" CHARACTER SET %s COLLATE %s", col.Charset, col.Collation)
		}
		if col.Extra != "" {
			line += " " + col.Extra
		}
		lines = append(lines, line)
	}
	for _, c := range def.Constraints {
		lines = append(lines, "  "+c)
	}
	sb.WriteString(strings.Join(lines, ",\n"))

	sb.WriteString("\n)")
	if def.Options != "" {
		sb.WriteString(" " + def.Options)
	}
	sb.WriteString(";")
	return sb.String()
}

func serializePostgres(def *models.TableDef) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE \"%s\" (\n", def.Name)

	lines := make([]string, 0, len(def.Columns)+len(def.Constraints))
	for _, col := range def.Columns {
		line := fmt.Sprintf("  \"%s\" %s", col.Name, postgresType(col.Type))
		if extra := postgresExtra(col.Extra); extra != "" {
			line += " " + extra
		}
		lines = append(lines, line)
	}
	for _, c := range def.Constraints {
		lines = append(lines, "  "+strings.ReplaceAll(c, "`", "\""))
	}
	sb.WriteString(strings.Join(lines, ",\n"))

	sb.WriteString("\n);")
	return sb.String()
}

func postgresType(typ string) string {
	upper := strings.ToUpper(typ)
	switch {
	case upper == "DATETIME":
		return "TIMESTAMP"
	case upper == "TINYINT" || strings.HasPrefix(upper, "TINYINT("):
		return "SMALLINT"
	case upper == "MEDIUMTEXT" || upper == "LONGTEXT":
		return "TEXT"
	case upper == "DOUBLE":
		return "DOUBLE PRECISION"
	default:
		return typ
	}
}

func postgresExtra(extra string) string {
	extra = strings.ReplaceAll(extra, "`", "\"")
	fields := strings.Fields(extra)
	kept := fields[:0]
	for _, f := range fields {
		switch strings.ToUpper(f) {
		case "AUTO_INCREMENT", "UNSIGNED":
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
