package dataset

import (
	"math"
	"sort"
)

// Clean returns a copy of the table with known data-quality issues fixed:
//
//  1. SecurityIncidents cells that failed numeric coercion (the source sheet
//     repeats the header label mid-column) become 0, and the column is
//     truncated to whole counts.
//  2. Remaining numeric columns have missing values replaced by the column
//     median, computed over non-missing values only.
//  3. Negative AvgDelayMin values are clamped to 0.
//
// Step 1 runs before step 2 so the corrected incidents column never pollutes
// a median. Clean is idempotent.
func Clean(t Table) Table {
	out := t.Clone()

	for i := range out {
		if math.IsNaN(out[i].SecurityIncidents) {
			out[i].SecurityIncidents = 0
		}
		out[i].SecurityIncidents = math.Trunc(out[i].SecurityIncidents)
	}

	for _, col := range imputedColumns() {
		median, ok := columnMedian(out, col.get)
		if !ok {
			continue
		}
		for i := range out {
			if math.IsNaN(col.get(&out[i])) {
				col.set(&out[i], median)
			}
		}
	}

	for i := range out {
		if out[i].AvgDelayMin < 0 {
			out[i].AvgDelayMin = 0
		}
	}

	return out
}

// columnMedian computes the median over the column's non-missing values.
// Returns false when the column has no usable values at all.
func columnMedian(t Table, get func(*Record) float64) (float64, bool) {
	values := make([]float64, 0, len(t))
	for i := range t {
		if v := get(&t[i]); !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid], true
	}
	return (values[mid-1] + values[mid]) / 2, true
}
