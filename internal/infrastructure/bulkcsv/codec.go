// Package bulkcsv implements the tabular plain-text format shared by the
// brand and car catalogs for bulk import/export. The codec is pure and
// stateless: it maps text to row-maps of raw strings over a fixed ordered
// field list. Numeric fields are parsed lazily by the calling catalog, so a
// non-numeric value in a numeric column is that catalog's import error, not
// a codec error.
package bulkcsv

import (
	"strings"

	"github.com/xmartin/vehicle-registry/internal/domain/shared"
)

// Row is one decoded record, keyed by the canonical field names
type Row map[string]string

// Get returns the value for a field
func (r Row) Get(field string) string {
	return r[field]
}

// Decode parses text into rows. The first non-blank line is a header matched
// case-insensitively against the expected field set; each subsequent non-blank
// line becomes one row. Values are taken verbatim between delimiters, modulo
// whitespace trimming; quote characters carry no special meaning, mirroring
// Encode. Header mismatch and row field-count mismatch fail with an
// IMPORT_FORMAT error.
func Decode(text string, fields []string) ([]Row, error) {
	var columns []string
	rows := make([]Row, 0)
	line := 0
	for _, raw := range strings.Split(stripBOM(text), "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		line++
		record := strings.Split(raw, ",")

		if columns == nil {
			matched, err := matchHeader(record, fields)
			if err != nil {
				return nil, err
			}
			columns = matched
			continue
		}

		if len(record) != len(fields) {
			return nil, shared.NewDomainErrorf(shared.CodeImportFormat,
				"Row %d has %d fields, expected %d", line, len(record), len(fields))
		}

		row := make(Row, len(fields))
		for i, value := range record {
			row[columns[i]] = strings.TrimSpace(value)
		}
		rows = append(rows, row)
	}

	if columns == nil {
		return nil, shared.NewDomainError(shared.CodeImportFormat, "Bulk data is missing a header line")
	}
	return rows, nil
}

// Encode writes the header line followed by one comma-joined line per row in
// the fixed field order. Embedded delimiters are not escaped; the format is
// the plain one both catalogs agreed on.
func Encode(rows []Row, fields []string) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(fields, ","))
	sb.WriteString("\n")

	values := make([]string, len(fields))
	for _, row := range rows {
		for i, field := range fields {
			values[i] = row[field]
		}
		sb.WriteString(strings.Join(values, ","))
		sb.WriteString("\n")
	}
	return sb.String()
}

// matchHeader maps header positions to canonical field names. Every expected
// field must appear exactly once; column order may differ from the canonical
// order.
func matchHeader(header, fields []string) ([]string, error) {
	canonical := make(map[string]string, len(fields))
	for _, f := range fields {
		canonical[strings.ToLower(f)] = f
	}

	if len(header) != len(fields) {
		return nil, shared.NewDomainErrorf(shared.CodeImportFormat,
			"Header has %d fields, expected %d (%s)", len(header), len(fields), strings.Join(fields, ","))
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name, ok := canonical[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			return nil, shared.NewDomainErrorf(shared.CodeImportFormat,
				"Unexpected header field %q, expected one of %s", strings.TrimSpace(h), strings.Join(fields, ","))
		}
		if seen[name] {
			return nil, shared.NewDomainErrorf(shared.CodeImportFormat, "Duplicate header field %q", name)
		}
		seen[name] = true
		columns[i] = name
	}
	return columns, nil
}

// stripBOM removes a UTF-8 byte order mark, which spreadsheet exports often
// prepend
func stripBOM(text string) string {
	return strings.TrimPrefix(text, "\xef\xbb\xbf")
}

// ParseError builds the catalog-side error for a malformed value in a
// numeric column
func ParseError(line int, field, value, expected string) error {
	return shared.NewDomainErrorf(shared.CodeImportFailed,
		"Row %d: field %q value %q is not a valid %s", line, field, value, expected)
}
