package provider

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Record is one raw row of a holdings document. Keyed sources (CSV, XLSX with
// a header row) fill Fields; array-shaped sources (JSON arrays) fill Cells.
type Record struct {
	// Row is the 1-based position of the record in its batch, for errors.
	Row int

	Fields map[string]string
	Cells  []any
}

// Batch is a fully materialized set of records sharing one layout.
type Batch struct {
	// Fields lists the declared column names, in document order.
	// It is empty for array-shaped sources.
	Fields []string

	Records []Record
}

// HasField reports whether the batch declares the named column.
func (b *Batch) HasField(name string) bool {
	return slices.Contains(b.Fields, name)
}

// Width returns the number of cells in the first record, or -1 for an empty
// batch.
func (b *Batch) Width() int {
	if len(b.Records) == 0 {
		return -1
	}
	return len(b.Records[0].Cells)
}

// Field returns a named column value. A missing column is a malformed record.
func (r Record) Field(name string) (string, error) {
	v, ok := r.Fields[name]
	if !ok {
		return "", &MalformedRecordError{Row: r.Row, Field: name}
	}
	return v, nil
}

// Require returns the named column values. The first missing column fails
// the record.
func (r Record) Require(names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		v, err := r.Field(name)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// Cell returns a positional value. An index past the record width is a
// malformed record.
func (r Record) Cell(i int) (any, error) {
	if i < 0 || i >= len(r.Cells) {
		return nil, &MalformedRecordError{Row: r.Row, Field: "#" + strconv.Itoa(i)}
	}
	return r.Cells[i], nil
}

// CellString returns the display text of a positional value. Objects of the
// form {"display": ..., "raw": ...} yield their display text.
func (r Record) CellString(i int) (string, error) {
	v, err := r.Cell(i)
	if err != nil {
		return "", err
	}
	return cellText(v), nil
}

// CellNumber returns the numeric value of a positional cell. For display/raw
// objects the raw value is used. ok is false when the cell holds no number.
func (r Record) CellNumber(i int) (f float64, ok bool, err error) {
	v, err := r.Cell(i)
	if err != nil {
		return 0, false, err
	}
	f, ok = cellNumber(v)
	return f, ok, nil
}

func cellText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case map[string]any:
		if d, ok := t["display"]; ok {
			return cellText(d)
		}
		return cellText(t["raw"])
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func cellNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case map[string]any:
		if raw, ok := t["raw"]; ok {
			return cellNumber(raw)
		}
		return 0, false
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", ""))
		if s == "" || s == "-" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
