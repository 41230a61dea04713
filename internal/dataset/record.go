package dataset

import (
	"math"
	"time"
)

// Record is one observation of campus activity for a zone, time slot and
// meal combination. Raw numeric fields are float64 so that missing cells can
// be carried as NaN until the cleaner imputes them.
type Record struct {
	Date              time.Time
	Zone              string
	TimeSlot          string
	MealType          string
	Footfall          float64
	PreparedQty       float64
	Orders            float64
	WasteQty          float64
	Passengers        float64
	BusCapacity       float64
	AvgDelayMin       float64
	SecurityIncidents float64
	Satisfaction      float64
	ResponseTimeHr    float64

	// Derived fields, populated by Engineer. Never NaN on a processed table.
	ZoneCapacity         int
	CongestionIndex      float64
	WastePercent         float64
	TransportUtilization float64
	ZoneEncoded          int
	TimeSlotEncoded      int
}

// Table is an in-memory campus activity dataset
type Table []Record

// Column accessors used by the cleaner's median imputation pass. The
// SecurityIncidents column is deliberately excluded: its sentinel values are
// coerced to zero before any median is computed.
type numericColumn struct {
	name string
	get  func(*Record) float64
	set  func(*Record, float64)
}

func imputedColumns() []numericColumn {
	return []numericColumn{
		{"footfall", func(r *Record) float64 { return r.Footfall }, func(r *Record, v float64) { r.Footfall = v }},
		{"prepared_qty", func(r *Record) float64 { return r.PreparedQty }, func(r *Record, v float64) { r.PreparedQty = v }},
		{"orders", func(r *Record) float64 { return r.Orders }, func(r *Record, v float64) { r.Orders = v }},
		{"waste_qty", func(r *Record) float64 { return r.WasteQty }, func(r *Record, v float64) { r.WasteQty = v }},
		{"passengers", func(r *Record) float64 { return r.Passengers }, func(r *Record, v float64) { r.Passengers = v }},
		{"bus_capacity", func(r *Record) float64 { return r.BusCapacity }, func(r *Record, v float64) { r.BusCapacity = v }},
		{"avg_delay_min", func(r *Record) float64 { return r.AvgDelayMin }, func(r *Record, v float64) { r.AvgDelayMin = v }},
		{"satisfaction", func(r *Record) float64 { return r.Satisfaction }, func(r *Record, v float64) { r.Satisfaction = v }},
		{"response_time_hr", func(r *Record) float64 { return r.ResponseTimeHr }, func(r *Record, v float64) { r.ResponseTimeHr = v }},
	}
}

// Clone returns a deep copy of the table
func (t Table) Clone() Table {
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Mean averages the selected field across all records, skipping NaN values
func (t Table) Mean(get func(*Record) float64) float64 {
	sum, n := 0.0, 0
	for i := range t {
		v := get(&t[i])
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
