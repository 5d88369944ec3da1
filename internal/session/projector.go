package session

import (
	"encoding/json"
	"errors"
	"html"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// ErrEmptySelection is returned by exports when nothing is selected.
var ErrEmptySelection = errors.New("nothing selected to export")

// Table is the attribute-table projection of the current selection. The
// header is the key union snapshot taken at load time, so columns stay
// stable while selection changes.
type Table struct {
	Header []string
	Rows   []Row
}

// Row is one selected feature. Cells are HTML-escaped and aligned with the
// header; missing properties render as empty strings.
type Row struct {
	ID    int
	Cells []string
}

func (r Row) text() string {
	return strings.ToLower(strings.Join(r.Cells, " "))
}

// Filter returns a copy of the table containing only rows whose rendered
// text contains query, case-insensitively. It controls visibility only; the
// selection itself is untouched.
func (t Table) Filter(query string) Table {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return t
	}
	out := Table{Header: t.Header}
	for _, r := range t.Rows {
		if strings.Contains(r.text(), query) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Table renders the current selection against the load-time key union, one
// row per entry in insertion order.
func (s *Session) Table() Table {
	header := append([]string(nil), s.collection.KeyUnion...)
	t := Table{Header: header}
	for _, e := range s.selection.Entries() {
		cells := make([]string, len(header))
		for i, key := range header {
			cells[i] = html.EscapeString(stringifyProperty(e.Feature.Feature.Properties, key))
		}
		t.Rows = append(t.Rows, Row{ID: e.ID, Cells: cells})
	}
	return t
}

// ExportGeoJSON returns the selected features' original geometry and
// properties as a FeatureCollection, in insertion order.
func (s *Session) ExportGeoJSON() ([]byte, error) {
	entries := s.selection.Entries()
	if len(entries) == 0 {
		return nil, ErrEmptySelection
	}
	fc := geojson.NewFeatureCollection()
	for _, e := range entries {
		fc.Append(e.Feature.Feature)
	}
	b, err := json.Marshal(fc)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ExportCSV returns header plus one row per selected feature. Every field
// is double-quote-quoted with embedded quotes doubled, so column count is
// len(keyUnion) for every row regardless of cell content.
func (s *Session) ExportCSV() ([]byte, error) {
	entries := s.selection.Entries()
	if len(entries) == 0 {
		return nil, ErrEmptySelection
	}
	keys := s.collection.KeyUnion

	var b strings.Builder
	writeRow := func(fields []string) {
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
		}
	}

	writeRow(keys)
	for _, e := range entries {
		b.WriteByte('\n')
		fields := make([]string, len(keys))
		for i, key := range keys {
			fields[i] = stringifyProperty(e.Feature.Feature.Properties, key)
		}
		writeRow(fields)
	}
	return []byte(b.String()), nil
}

func stringifyProperty(props geojson.Properties, key string) string {
	if props == nil {
		return ""
	}
	v, ok := props[key]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	default:
		raw, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
