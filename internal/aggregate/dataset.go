// Package aggregate discovers report files under a workspace, parses them
// into records, and builds the two tabular datasets (performance, power) with
// their exports and descriptive statistics. The two datasets are never joined
// here; they share the architecture identity column and any cross-referencing
// is left to downstream consumers.
package aggregate

import (
	"sniper-sweep/internal/report"
)

// Dataset is the union-columned table of all records of one report family.
// Rows keep parse order (lexicographic file order); metric columns are the
// union of metric names across rows in first-seen order. A row missing a
// column holds no value for it, which exports render as unknown, never zero.
type Dataset struct {
	Name string
	Rows []*report.Record

	columns []string
	seen    map[string]bool
}

func NewDataset(name string) *Dataset {
	return &Dataset{
		Name: name,
		seen: make(map[string]bool),
	}
}

// Append adds one record, merging its metric names into the column union.
func (d *Dataset) Append(record *report.Record) {
	d.Rows = append(d.Rows, record)
	for _, column := range record.Columns() {
		if !d.seen[column] {
			d.seen[column] = true
			d.columns = append(d.columns, column)
		}
	}
}

// MetricColumns returns the metric column union in first-seen order. The
// identity columns (architecture, file path) are not part of it.
func (d *Dataset) MetricColumns() []string {
	return d.columns
}

// HasColumn reports whether any row carries the given metric.
func (d *Dataset) HasColumn(column string) bool {
	return d.seen[column]
}

func (d *Dataset) Empty() bool {
	return len(d.Rows) == 0
}

// Column returns the values present for one metric column, in row order,
// skipping rows where the metric is absent.
func (d *Dataset) Column(column string) []float64 {
	var values []float64
	for _, row := range d.Rows {
		if v, ok := row.Get(column); ok {
			values = append(values, v)
		}
	}
	return values
}
