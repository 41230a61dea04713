package interventions

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"campuscli/internal/dataset"
)

var thousands = message.NewPrinter(language.English)

func foodInterventions(t dataset.Table) []Intervention {
	if len(t) == 0 {
		return nil
	}

	overallWaste := t.Mean(func(r *dataset.Record) float64 { return r.WastePercent })

	mealWaste := make(map[string][]float64)
	zoneWaste := make(map[string][]float64)
	var totalWaste, totalPrepared float64
	for i := range t {
		mealWaste[t[i].MealType] = append(mealWaste[t[i].MealType], t[i].WastePercent)
		zoneWaste[t[i].Zone] = append(zoneWaste[t[i].Zone], t[i].WastePercent)
		totalWaste += t[i].WasteQty
		totalPrepared += t[i].PreparedQty
	}

	worstMeal, worstMealWaste := maxGroupMean(mealWaste)
	worstZone, worstZoneWaste := maxGroupMean(zoneWaste)
	totalWasteUnits := int(totalWaste)
	totalPreparedUnits := int(totalPrepared)

	aboveAvgPct := round1(safeRatio(worstMealWaste-overallWaste, overallWaste) * 100)

	items := []Intervention{{
		ID:       "food-1",
		Category: "food",
		Priority: priorityLabel(overallWaste, wasteHigh, wasteCritical),
		Title:    "ML-Powered Demand Forecasting for Prep Quantities",
		Insight: fmt.Sprintf(
			"Overall food waste averages %.1f%% of prepared quantities. '%s' is the worst-performing meal type at %.1f%% waste rate, %.1f%% above average. Campus-wide, %s units were wasted out of %s prepared.",
			overallWaste*100, worstMeal, worstMealWaste*100, aboveAvgPct,
			thousands.Sprintf("%d", totalWasteUnits), thousands.Sprintf("%d", totalPreparedUnits),
		),
		Recommendations: []string{
			fmt.Sprintf("Apply trained demand forecasting model to dynamically calibrate prep quantities for '%s' based on historical attendance and day-of-week patterns.", worstMeal),
			"Implement a real-time order-tracking dashboard for kitchen managers showing live surplus alerts.",
			"Introduce a sliding prep schedule: prepare 70% upfront and 30% in rolling batches during the meal window.",
		},
		Metric:               worstMealWaste * 100,
		MetricLabel:          fmt.Sprintf("%s waste rate (%%)", worstMeal),
		MetricFormat:         FormatPercent,
		ProjectedImpact:      cappedImpact(40, safeRatio(worstMealWaste-overallWaste, overallWaste)*50),
		ProjectedImpactLabel: "Est. waste reduction",
		Evidence: map[string]any{
			"overall_waste_pct":    round2(overallWaste * 100),
			"worst_meal_type":      worstMeal,
			"worst_meal_waste_pct": round2(worstMealWaste * 100),
			"total_waste_units":    totalWasteUnits,
			"total_prepared_units": totalPreparedUnits,
			"by_meal":              groupMeansDescending(mealWaste, "meal_type", "waste_pct", 0),
		},
	}}

	zonePriority := PriorityMedium
	if worstZoneWaste > wasteHigh {
		zonePriority = PriorityHigh
	}
	items = append(items, Intervention{
		ID:       "food-2",
		Category: "food",
		Priority: zonePriority,
		Title:    "Zone-Level Surplus Redistribution Programme",
		Insight: fmt.Sprintf(
			"Zone '%s' records the highest average food waste at %.1f%%, indicating systematic over-preparation disconnected from local demand patterns.",
			worstZone, worstZoneWaste*100,
		),
		Recommendations: []string{
			fmt.Sprintf("Establish a real-time surplus-sharing channel between '%s' and adjacent lower-demand zones.", worstZone),
			"Partner with on-campus food banks or student initiatives to redistribute end-of-service surpluses.",
			"Set zone-level waste KPI targets and tie them to monthly kitchen performance reviews.",
		},
		Metric:               worstZoneWaste * 100,
		MetricLabel:          fmt.Sprintf("%s waste rate (%%)", worstZone),
		MetricFormat:         FormatPercent,
		ProjectedImpact:      cappedImpact(30, worstZoneWaste*60),
		ProjectedImpactLabel: "Est. zone waste reduction",
		Evidence: map[string]any{
			"worst_zone":           worstZone,
			"worst_zone_waste_pct": round2(worstZoneWaste * 100),
			"by_zone":              groupMeansDescending(zoneWaste, "zone", "avg_waste", 5),
		},
	})

	return items
}

// groupMeansDescending renders group means as evidence records sorted by
// mean descending, alphabetical on ties. limit 0 means no cap.
func groupMeansDescending(groups map[string][]float64, keyField, valueField string, limit int) []map[string]any {
	type entry struct {
		key  string
		mean float64
	}
	entries := make([]entry, 0, len(groups))
	for k, values := range groups {
		var sum float64
		for _, v := range values {
			sum += v
		}
		entries = append(entries, entry{k, sum / float64(len(values))})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].mean != entries[b].mean {
			return entries[a].mean > entries[b].mean
		}
		return entries[a].key < entries[b].key
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]map[string]any, len(entries))
	for i, e := range entries {
		out[i] = map[string]any{keyField: e.key, valueField: round3(e.mean)}
	}
	return out
}
