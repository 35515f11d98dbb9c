package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"dump-normalizer/internal/models"
)

// RecordService handles record-oriented sources: delimited text and
// structured documents. Records run through the type inferencer for the
// schema-definition output branch, or are re-serialized directly.
type RecordService struct {
	log  zerolog.Logger
	opts Options
}

func NewRecordService(log zerolog.Logger, opts Options) *RecordService {
	return &RecordService{log: log.With().Str("component", "records").Logger(), opts: opts}
}

// ReadCSV reads delimited text with the given field separator, treating the
// first row as column names.
func (r *RecordService) ReadCSV(data []byte, comma rune) ([]string, []models.Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	columns := rows[0]
	records := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(models.Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return columns, records, nil
}

// ReadJSON reads a structured document: either a single object or an array
// of objects. Anything else is an invalid input shape and fatal for the
// file. Column order is the sorted union of keys.
func (r *RecordService) ReadJSON(data []byte) ([]string, []models.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, nil, fmt.Errorf("decode json: %w", err)
	}

	var objects []map[string]interface{}
	switch v := root.(type) {
	case map[string]interface{}:
		objects = []map[string]interface{}{v}
	case []interface{}:
		for i, item := range v {
			obj, ok := item.(map[string]interface{})
			if !ok {
				return nil, nil, fmt.Errorf("element %d is not an object", i)
			}
			objects = append(objects, obj)
		}
	default:
		return nil, nil, fmt.Errorf("input is neither a single object nor a collection of objects")
	}

	seen := make(map[string]bool)
	var columns []string
	records := make([]models.Record, 0, len(objects))
	for _, obj := range objects {
		rec := make(models.Record, len(obj))
		for key, val := range obj {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
			rec[key] = renderValue(val)
		}
		records = append(records, rec)
	}
	sort.Strings(columns)

	return columns, records, nil
}

// literalEscaper covers MySQL's default backslash-escaping mode as well as
// the standard doubled single quote.
var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `''`)

// renderValue gives the string form the inferencer profiles. Nested
// structures stay JSON-encoded so they resolve to the JSON column type.
func renderValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

// Render produces the output document for the configured format.
func (r *RecordService) Render(table string, columns []string, records []models.Record, generatedAt time.Time) ([]byte, error) {
	switch r.opts.Format {
	case models.FormatCSV:
		return r.renderCSV(columns, records)
	case models.FormatJSON:
		return r.renderJSON(records)
	case models.FormatMySQL, models.FormatPostgres:
		return r.renderSchema(table, columns, records, generatedAt)
	}
	return nil, fmt.Errorf("unsupported output format: %s", r.opts.Format)
}

func (r *RecordService) renderCSV(columns []string, records []models.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, col := range columns {
			row[i] = rec[col]
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func (r *RecordService) renderJSON(records []models.Record) ([]byte, error) {
	return json.MarshalIndent(records, "", "  ")
}

// renderSchema infers a column type per field and emits a table definition
// plus one insert per record, framed by the assembler.
func (r *RecordService) renderSchema(table string, columns []string, records []models.Record, generatedAt time.Time) ([]byte, error) {
	if r.opts.StripPrefix != "" {
		table = strings.TrimPrefix(table, r.opts.StripPrefix)
	}

	inferencer := NewTypeInferencer()
	for _, rec := range records {
		inferencer.Observe(rec)
	}
	resolved := inferencer.Resolve()

	def := &models.TableDef{Name: table}
	for _, col := range columns {
		typ, ok := resolved[col]
		if !ok {
			// Column never held a non-null value.
			typ = models.TypeText
		}
		cd := models.ColumnDef{Name: col, Type: typ}
		if isTextType(typ) {
			cd.Charset = r.opts.Charset
			cd.Collation = r.opts.Collation()
		}
		def.Columns = append(def.Columns, cd)
	}
	if r.opts.Format == models.FormatMySQL {
		def.Options = "DEFAULT CHARSET=" + r.opts.Charset
	}

	statements := []models.Statement{{Table: def.Name}}
	if r.opts.Format == models.FormatPostgres {
		statements[0].Text = serializePostgres(def)
	} else {
		statements[0].Text = serializeMySQL(def)
	}

	for _, rec := range records {
		statements = append(statements, models.Statement{Text: r.insertStatement(def.Name, columns, rec)})
	}

	assembler := NewAssembler(r.opts.Format, r.opts.Charset)
	return []byte(assembler.Assemble(statements, generatedAt)), nil
}

func (r *RecordService) insertStatement(table string, columns []string, rec models.Record) string {
	quote := "`"
	if r.opts.Format == models.FormatPostgres {
		quote = "\""
	}

	names := make([]string, len(columns))
	values := make([]string, len(columns))
	for i, col := range columns {
		names[i] = quote + col + quote
		val, ok := rec[col]
		if !ok || val == "" {
			values[i] = "NULL"
			continue
		}
		values[i] = "'" + literalEscaper.Replace(val) + "'"
	}

	return fmt.Sprintf("INSERT INTO %s%s%s (%s) VALUES (%s)",
		quote, table, quote, strings.Join(names, ", "), strings.Join(values, ", "))
}
