package interventions

import (
	"fmt"
	"sort"

	"campuscli/internal/analytics"
	"campuscli/internal/dataset"
)

// congestionInterventions works on the zone × time-slot heatmap rather than
// raw rows, so a zone with many observations does not drown out a smaller
// one.
func congestionInterventions(t dataset.Table) []Intervention {
	heatmap := analytics.CongestionHeatmap(t)
	if len(heatmap) == 0 {
		return nil
	}

	var cellTotal float64
	bottleneckCount := 0
	zoneCells := make(map[string][]float64)
	slotCells := make(map[string][]float64)
	for _, cell := range heatmap {
		cellTotal += cell.CongestionIndex
		if cell.CongestionIndex >= congestionCritical {
			bottleneckCount++
		}
		zoneCells[cell.Zone] = append(zoneCells[cell.Zone], cell.CongestionIndex)
		slotCells[cell.TimeSlot] = append(slotCells[cell.TimeSlot], cell.CongestionIndex)
	}
	overallAvg := cellTotal / float64(len(heatmap))

	worstZone, worstZoneVal := maxGroupMean(zoneCells)
	peakSlot, peakSlotVal := maxGroupMean(slotCells)
	hotspots := topHotspots(heatmap, 3)

	aboveAvgPct := round1(safeRatio(worstZoneVal-overallAvg, overallAvg) * 100)

	items := []Intervention{{
		ID:       "cong-1",
		Category: "congestion",
		Priority: priorityLabel(worstZoneVal, congestionHigh, congestionCritical),
		Title:    "Implement Dynamic Staggered Scheduling",
		Insight: fmt.Sprintf(
			"Zone '%s' records a mean congestion index of %.2f, %.1f%% above campus average (%.2f). Peak pressure occurs during %s (avg index %.2f).",
			worstZone, worstZoneVal, aboveAvgPct, overallAvg, peakSlot, peakSlotVal,
		),
		Recommendations: []string{
			fmt.Sprintf("Stagger class start times across faculties in '%s' by 15-minute intervals during %s.", worstZone, peakSlot),
			"Deploy digital crowd-density displays at zone entry points to redirect foot traffic in real time.",
			"Activate overflow corridors and temporary seating during peak periods.",
		},
		Metric:               worstZoneVal,
		MetricLabel:          "Peak zone congestion index",
		MetricFormat:         FormatDecimal,
		ProjectedImpact:      cappedImpact(25, safeRatio(worstZoneVal-overallAvg, overallAvg)*60),
		ProjectedImpactLabel: "Est. congestion reduction",
		Evidence: map[string]any{
			"worst_zone":            worstZone,
			"worst_zone_index":      worstZoneVal,
			"peak_time_slot":        peakSlot,
			"peak_slot_index":       peakSlotVal,
			"campus_avg_congestion": overallAvg,
			"bottleneck_cells":      bottleneckCount,
			"top_hotspots":          hotspots,
		},
	}}

	if bottleneckCount > 0 {
		priority := PriorityMedium
		if bottleneckCount > 3 {
			priority = PriorityHigh
		}
		items = append(items, Intervention{
			ID:       "cong-2",
			Category: "congestion",
			Priority: priority,
			Title:    "Deploy AI-Driven Entry & Flow Management",
			Insight: fmt.Sprintf(
				"%d zone-time combinations exceed the critical congestion threshold of %v. These hotspots collectively risk unsafe crowding and degrade pedestrian experience.",
				bottleneckCount, congestionCritical,
			),
			Recommendations: []string{
				"Install IoT occupancy sensors at identified bottleneck entries for real-time headcount.",
				"Integrate live congestion feed into campus mobile app for crowd-aware routing.",
				"Create clearly marked alternate walking paths diverging from the top-3 hotspot zones.",
			},
			Metric:               float64(bottleneckCount),
			MetricLabel:          "Critical bottleneck zones",
			MetricFormat:         FormatInteger,
			ProjectedImpact:      cappedImpact(35, float64(bottleneckCount)*6),
			ProjectedImpactLabel: "Est. bottleneck reduction",
			Evidence: map[string]any{
				"bottleneck_count": bottleneckCount,
				"threshold":        congestionCritical,
				"top_hotspots":     hotspots,
			},
		})
	}

	return items
}

// maxGroupMean returns the group with the highest mean value. Ties resolve
// to the alphabetically first key.
func maxGroupMean(groups map[string][]float64) (string, float64) {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var bestKey string
	best := 0.0
	for i, k := range keys {
		var sum float64
		for _, v := range groups[k] {
			sum += v
		}
		mean := sum / float64(len(groups[k]))
		if i == 0 || mean > best {
			bestKey, best = k, mean
		}
	}
	return bestKey, best
}

// topHotspots picks the n highest heatmap cells, preserving heatmap order
// among equal values.
func topHotspots(heatmap []analytics.HeatmapCell, n int) []analytics.HeatmapCell {
	sorted := make([]analytics.HeatmapCell, len(heatmap))
	copy(sorted, heatmap)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CongestionIndex > sorted[b].CongestionIndex
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
