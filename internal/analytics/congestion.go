package analytics

import (
	"sort"

	"campuscli/internal/dataset"
)

// BottleneckThreshold marks a zone/time-slot cell as a bottleneck when its
// mean congestion index reaches this value.
const BottleneckThreshold = 0.85

// HeatmapCell is one zone × time-slot aggregate
type HeatmapCell struct {
	Zone            string  `json:"zone"`
	TimeSlot        string  `json:"time_slot"`
	CongestionIndex float64 `json:"congestion_index"`
}

// CongestionSummary is the dashboard's congestion overview
type CongestionSummary struct {
	OverallAvgCongestion  float64       `json:"overall_avg_congestion"`
	MostCongestedZone     string        `json:"most_congested_zone"`
	MostCongestedTimeSlot string        `json:"most_congested_time_slot"`
	BottleneckCount       int           `json:"bottleneck_count"`
	Heatmap               []HeatmapCell `json:"heatmap"`
}

// CongestionHeatmap aggregates mean congestion index by zone × time slot.
// Cells are ordered by zone then time slot.
func CongestionHeatmap(t dataset.Table) []HeatmapCell {
	type key struct{ zone, slot string }
	sums := make(map[key]float64)
	counts := make(map[key]int)
	for i := range t {
		k := key{t[i].Zone, t[i].TimeSlot}
		sums[k] += t[i].CongestionIndex
		counts[k]++
	}

	cells := make([]HeatmapCell, 0, len(sums))
	for k, sum := range sums {
		cells = append(cells, HeatmapCell{
			Zone:            k.zone,
			TimeSlot:        k.slot,
			CongestionIndex: round3(sum / float64(counts[k])),
		})
	}

	sort.Slice(cells, func(a, b int) bool {
		if cells[a].Zone != cells[b].Zone {
			return cells[a].Zone < cells[b].Zone
		}
		return cells[a].TimeSlot < cells[b].TimeSlot
	})
	return cells
}

// Bottlenecks returns the heatmap cells at or above the given threshold
func Bottlenecks(t dataset.Table, threshold float64) []HeatmapCell {
	var out []HeatmapCell
	for _, cell := range CongestionHeatmap(t) {
		if cell.CongestionIndex >= threshold {
			out = append(out, cell)
		}
	}
	return out
}

// Congestion builds the congestion summary. The most congested cell is the
// heatmap maximum; ties resolve to the first cell in heatmap order.
func Congestion(t dataset.Table) CongestionSummary {
	heatmap := CongestionHeatmap(t)

	summary := CongestionSummary{Heatmap: heatmap}
	if len(heatmap) == 0 {
		return summary
	}

	var total float64
	worst := 0
	for i, cell := range heatmap {
		total += cell.CongestionIndex
		if cell.CongestionIndex > heatmap[worst].CongestionIndex {
			worst = i
		}
		if cell.CongestionIndex >= BottleneckThreshold {
			summary.BottleneckCount++
		}
	}

	summary.OverallAvgCongestion = round3(total / float64(len(heatmap)))
	summary.MostCongestedZone = heatmap[worst].Zone
	summary.MostCongestedTimeSlot = heatmap[worst].TimeSlot
	return summary
}

