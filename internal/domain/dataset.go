// Package domain contains the pure data model for comparing tips between
// smoker and non-smoker groups: input shapes, field mapping, normalization
// rules and the result summary.
package domain

import (
	"fmt"
	"slices"
)

// Canonical field names resolved through a FieldMapping.
const (
	FieldTip    = "tip"
	FieldSmoker = "smoker"
)

// requiredFields is the resolution order used for schema checks and errors.
var requiredFields = []string{FieldTip, FieldSmoker}

// FieldMapping maps each canonical field to the ordered list of keys (or
// column names) that may carry it. The first alias present wins.
type FieldMapping map[string][]string

// DefaultFieldMapping returns the mapping that accepts lower-case names
// with a capitalized fallback.
func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		FieldTip:    {"tip", "Tip"},
		FieldSmoker: {"smoker", "Smoker"},
	}
}

// Validate checks that every required field has at least one non-empty alias.
func (m FieldMapping) Validate() error {
	verr := NewValidationError("FieldMapping")
	for _, field := range requiredFields {
		aliases := m[field]
		if len(aliases) == 0 {
			verr.AddError(fmt.Sprintf("no aliases for %s", field))
			continue
		}
		if slices.Contains(aliases, "") {
			verr.AddError(fmt.Sprintf("empty alias for %s", field))
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// Lookup returns the value of field in rec using ordered alias lookup.
// A key that is present with a nil value still counts as found.
func (m FieldMapping) Lookup(rec Record, field string) (any, bool) {
	for _, alias := range m[field] {
		if v, ok := rec[alias]; ok {
			return v, true
		}
	}
	return nil, false
}

// Column returns the index of the first header column matching an alias
// of field.
func (m FieldMapping) Column(columns []string, field string) (int, bool) {
	for _, alias := range m[field] {
		if idx := slices.Index(columns, alias); idx >= 0 {
			return idx, true
		}
	}
	return -1, false
}

// Row is one input record reduced to its raw tip and smoker values.
// Either value may be nil when the record does not carry it.
type Row struct {
	Tip    any
	Smoker any
}

// Dataset is the input accepted by the comparator. Records and Table both
// implement it.
type Dataset interface {
	// Rows resolves every record to a Row under the given mapping.
	// Only structural problems (a table without a required column) are
	// reported as errors.
	Rows(mapping FieldMapping) ([]Row, error)

	// Len reports the number of input records.
	Len() int
}

// Record is a single loosely typed input record.
type Record map[string]any

// Records is a list of individual records.
type Records []Record

var _ Dataset = Records(nil)

// Rows implements Dataset. Missing fields resolve to nil and never fail.
func (rs Records) Rows(mapping FieldMapping) ([]Row, error) {
	rows := make([]Row, 0, len(rs))
	for _, rec := range rs {
		tip, _ := mapping.Lookup(rec, FieldTip)
		smoker, _ := mapping.Lookup(rec, FieldSmoker)
		rows = append(rows, Row{Tip: tip, Smoker: smoker})
	}
	return rows, nil
}

// Len implements Dataset.
func (rs Records) Len() int { return len(rs) }

// Table is a column-oriented input with a header and rows of cells.
// Rows shorter than the header are allowed; missing cells read as nil.
type Table struct {
	Columns []string
	Data    [][]any
}

// NewTable creates a Table from a header and its rows.
func NewTable(columns []string, rows [][]any) *Table {
	return &Table{Columns: columns, Data: rows}
}

var _ Dataset = (*Table)(nil)

// Rows implements Dataset. It fails with a *SchemaError naming every
// required field that has no matching column, and with ErrNilDataset on a
// nil table.
func (t *Table) Rows(mapping FieldMapping) ([]Row, error) {
	if t == nil {
		return nil, ErrNilDataset
	}
	idx := make(map[string]int, len(requiredFields))
	var missing []string
	for _, field := range requiredFields {
		i, ok := mapping.Column(t.Columns, field)
		if !ok {
			missing = append(missing, field)
			continue
		}
		idx[field] = i
	}
	if len(missing) > 0 {
		return nil, NewSchemaError(missing, slices.Clone(t.Columns))
	}

	rows := make([]Row, 0, len(t.Data))
	for _, cells := range t.Data {
		rows = append(rows, Row{
			Tip:    cell(cells, idx[FieldTip]),
			Smoker: cell(cells, idx[FieldSmoker]),
		})
	}
	return rows, nil
}

// Len implements Dataset.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Data)
}

func cell(cells []any, i int) any {
	if i < len(cells) {
		return cells[i]
	}
	return nil
}
