// Package report extracts numeric metrics from Sniper performance and power
// report files. Every field is optional: a pattern that does not match simply
// leaves the metric absent from the record, and an unreadable file yields a
// record carrying identity only.
package report

// Record is the parsed result of one report file: the architecture identity
// used to correlate the performance and power streams, the source path
// relative to the workspace, and a sparse metric mapping. A missing metric
// means unknown, never zero. Metric insertion order is preserved so that
// downstream datasets get deterministic column order.
type Record struct {
	Architecture string
	Path         string

	columns []string
	values  map[string]float64
}

func NewRecord(architecture, path string) *Record {
	return &Record{
		Architecture: architecture,
		Path:         path,
		values:       make(map[string]float64),
	}
}

// Set records a metric value, keeping first-insertion column order.
func (r *Record) Set(column string, value float64) {
	if _, exists := r.values[column]; !exists {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Get returns the metric value and whether it is present.
func (r *Record) Get(column string) (float64, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Columns returns the metric names present on this record, in insertion
// order.
func (r *Record) Columns() []string {
	return r.columns
}

// Len returns the number of metrics present on this record.
func (r *Record) Len() int {
	return len(r.values)
}

// Metrics returns a copy of the metric mapping for serialization.
func (r *Record) Metrics() map[string]float64 {
	metrics := make(map[string]float64, len(r.values))
	for k, v := range r.values {
		metrics[k] = v
	}
	return metrics
}
