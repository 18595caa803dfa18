package sheets

import (
	"strconv"
	"strings"
)

// Record is one spreadsheet row keyed by column header. Header aliases
// (Departemen/Department/DEPT, Personal/Personil/Nama, Bulan/Month) are
// collapsed to canonical names when the table is parsed, so downstream
// code never repeats defensive multi-key lookups.
type Record map[string]string

// Canonical header names produced by normalization.
const (
	HeaderDepartment = "Department"
	HeaderPersonal   = "Personal"
	HeaderMonth      = "Month"
)

var headerAliases = map[string]string{
	"departemen": HeaderDepartment,
	"department": HeaderDepartment,
	"dept":       HeaderDepartment,
	"dept_name":  HeaderDepartment,
	"divisi":     HeaderDepartment,
	"personal":   HeaderPersonal,
	"personil":   HeaderPersonal,
	"nama":       HeaderPersonal,
	"bulan":      HeaderMonth,
	"month":      HeaderMonth,
}

// CanonicalHeader maps a raw column header to its canonical name.
// Unknown headers pass through trimmed.
func CanonicalHeader(raw string) string {
	h := strings.TrimSpace(raw)
	if canon, ok := headerAliases[strings.ToLower(h)]; ok {
		return canon
	}
	return h
}

// ParseTable converts a values response (header row + data rows) into
// records. Short rows are padded with empty strings, matching the
// upstream API which omits trailing empty cells.
func ParseTable(values [][]string) []Record {
	if len(values) == 0 {
		return nil
	}

	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = CanonicalHeader(h)
	}

	records := make([]Record, 0, len(values)-1)
	for _, row := range values[1:] {
		rec := make(Record, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(row) {
				rec[header] = row[i]
			} else {
				rec[header] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

func (r Record) Field(key string) string {
	return r[key]
}

func (r Record) Department() string {
	return r[HeaderDepartment]
}

func (r Record) Personal() string {
	return r[HeaderPersonal]
}

func (r Record) Month() string {
	return r[HeaderMonth]
}

// Num parses a numeric cell. Upstream cells use a comma as decimal
// separator and may carry a percent sign; both are stripped before
// parsing. Empty or non-numeric cells yield 0.
func (r Record) Num(key string) float64 {
	n, _ := r.NumOK(key)
	return n
}

// NumOK reports whether the cell held a parseable number, so callers can
// choose between the legacy count-blanks-as-zero mean and the
// exclude-missing policy.
func (r Record) NumOK(key string) (float64, bool) {
	raw := strings.TrimSpace(r[key])
	if raw == "" {
		return 0, false
	}
	cleaned := strings.ReplaceAll(raw, "%", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MatchField compares a cell against a wanted value the way the legacy
// dashboard did everywhere: case-insensitive, whitespace-trimmed.
func (r Record) MatchField(key, want string) bool {
	return EqualFold(r[key], want)
}

// EqualFold is the record comparison primitive: trim then case-fold.
func EqualFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
