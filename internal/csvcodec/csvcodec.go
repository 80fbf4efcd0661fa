// Package csvcodec implements the CSV dialect used by the report artifacts.
//
// Every emitted field is wrapped in double quotes with embedded quotes
// doubled. Parsing is a character-level state machine: a comma is a field
// separator only outside quotes, a doubled quote inside quotes is a literal
// quote, and newlines inside quotes belong to the field. Blank lines are
// skipped. Malformed input (unbalanced quotes) degrades to best-effort field
// boundaries rather than returning an error.
package csvcodec

import "strings"

// Document holds a parsed CSV file: the first non-blank row as headers,
// remaining non-blank rows as data.
type Document struct {
	Headers []string
	Rows    [][]string
}

// HeaderIndex returns the index of the named column using case-insensitive
// comparison, or -1 if the column is not present.
func (d *Document) HeaderIndex(name string) int {
	lower := strings.ToLower(name)
	for i, h := range d.Headers {
		if strings.ToLower(strings.TrimSpace(h)) == lower {
			return i
		}
	}
	return -1
}

// Field returns row[idx] or "" when idx is out of range or negative.
// Callers pass the result of HeaderIndex directly, so -1 means "column
// missing" and yields the empty string for every row.
func Field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Parse decodes CSV text into a Document. The first non-blank record becomes
// the header row. It never fails: unbalanced quotes produce best-effort
// fields.
func Parse(text string) *Document {
	records := parseRecords(text)

	doc := &Document{}
	for _, rec := range records {
		if isBlankRecord(rec) {
			continue
		}
		if doc.Headers == nil {
			doc.Headers = rec
			continue
		}
		doc.Rows = append(doc.Rows, rec)
	}
	if doc.Headers == nil {
		doc.Headers = []string{}
	}
	return doc
}

// ParseRow decodes a single CSV line into its fields.
func ParseRow(line string) []string {
	records := parseRecords(line)
	for _, rec := range records {
		if !isBlankRecord(rec) {
			return rec
		}
	}
	return nil
}

// parseRecords runs the quote-aware state machine over the full text.
func parseRecords(text string) [][]string {
	var records [][]string
	var fields []string
	var field strings.Builder
	inQuotes := false

	flushField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}
	flushRecord := func() {
		flushField()
		records = append(records, fields)
		fields = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			if inQuotes {
				// A doubled quote inside a quoted field is a literal quote.
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				inQuotes = true
			}
		case c == ',' && !inQuotes:
			flushField()
		case (c == '\n' || c == '\r') && !inQuotes:
			if c == '\r' && i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			flushRecord()
		default:
			field.WriteRune(c)
		}
	}
	if field.Len() > 0 || len(fields) > 0 {
		flushRecord()
	}

	return records
}

// isBlankRecord reports whether a record carries no data, either because the
// raw line was empty or because it parsed to a single empty field.
func isBlankRecord(rec []string) bool {
	if len(rec) == 0 {
		return true
	}
	if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
		return true
	}
	return false
}

// Escape wraps a value in double quotes, doubling any embedded quotes.
func Escape(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// SerializeRow encodes one record with every field quoted.
func SerializeRow(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = Escape(f)
	}
	return strings.Join(escaped, ",")
}

// Serialize encodes a header row plus data rows as CSV text with a trailing
// newline.
func Serialize(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteString(SerializeRow(headers))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(SerializeRow(row))
		b.WriteString("\n")
	}
	return b.String()
}
