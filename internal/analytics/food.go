package analytics

import (
	"sort"

	"campuscli/internal/dataset"
)

// MealTypeWaste aggregates waste metrics for one meal type
type MealTypeWaste struct {
	MealType        string  `json:"meal_type"`
	AvgWastePercent float64 `json:"avg_waste_percent"`
	TotalWaste      int     `json:"total_waste"`
	TotalPrepared   int     `json:"total_prepared"`
	TotalSold       int     `json:"total_sold"`
}

// ZoneWaste aggregates waste metrics for one zone
type ZoneWaste struct {
	Zone            string  `json:"zone"`
	AvgWastePercent float64 `json:"avg_waste_percent"`
	TotalWaste      int     `json:"total_waste"`
	TotalPrepared   int     `json:"total_prepared"`
	TotalSold       int     `json:"total_sold"`
}

// FoodWasteAnalysis is the dashboard's food waste overview
type FoodWasteAnalysis struct {
	OverallWastePercent float64         `json:"overall_waste_percent"`
	TotalWasteQty       int             `json:"total_waste_qty"`
	ByMealType          []MealTypeWaste `json:"by_meal_type"`
	ByZone              []ZoneWaste     `json:"by_zone"`
}

// WasteTrendPoint is one calendar day of the waste trend
type WasteTrendPoint struct {
	Date            string  `json:"date"`
	AvgWastePercent float64 `json:"avg_waste_percent"`
	TotalWaste      int     `json:"total_waste"`
}

// wasteAccumulator collects the per-group aggregates
type wasteAccumulator struct {
	wastePercentSum float64
	count           int
	waste           float64
	prepared        float64
	sold            float64
}

// FoodWaste aggregates waste metrics by meal type and by zone, ordered
// alphabetically within each grouping.
func FoodWaste(t dataset.Table) FoodWasteAnalysis {
	byMeal := make(map[string]*wasteAccumulator)
	byZone := make(map[string]*wasteAccumulator)

	var overallSum float64
	var totalWaste float64
	for i := range t {
		r := &t[i]
		accumulate(byMeal, r.MealType, r)
		accumulate(byZone, r.Zone, r)
		overallSum += r.WastePercent
		totalWaste += r.WasteQty
	}

	analysis := FoodWasteAnalysis{
		TotalWasteQty: int(totalWaste),
	}
	if len(t) > 0 {
		analysis.OverallWastePercent = round3(overallSum / float64(len(t)))
	}

	for _, meal := range sortedKeys(byMeal) {
		acc := byMeal[meal]
		analysis.ByMealType = append(analysis.ByMealType, MealTypeWaste{
			MealType:        meal,
			AvgWastePercent: round3(acc.wastePercentSum / float64(acc.count)),
			TotalWaste:      int(acc.waste),
			TotalPrepared:   int(acc.prepared),
			TotalSold:       int(acc.sold),
		})
	}
	for _, zone := range sortedKeys(byZone) {
		acc := byZone[zone]
		analysis.ByZone = append(analysis.ByZone, ZoneWaste{
			Zone:            zone,
			AvgWastePercent: round3(acc.wastePercentSum / float64(acc.count)),
			TotalWaste:      int(acc.waste),
			TotalPrepared:   int(acc.prepared),
			TotalSold:       int(acc.sold),
		})
	}

	return analysis
}

// WasteTrend computes the daily trend of average waste percent and total
// waste quantity, sorted by date.
func WasteTrend(t dataset.Table) []WasteTrendPoint {
	type acc struct {
		wastePercentSum float64
		count           int
		waste           float64
	}

	days := make(map[string]*acc)
	for i := range t {
		day := t[i].Date.Format("2006-01-02")
		a := days[day]
		if a == nil {
			a = &acc{}
			days[day] = a
		}
		a.wastePercentSum += t[i].WastePercent
		a.count++
		a.waste += t[i].WasteQty
	}

	dates := make([]string, 0, len(days))
	for day := range days {
		dates = append(dates, day)
	}
	sort.Strings(dates)

	trend := make([]WasteTrendPoint, 0, len(dates))
	for _, day := range dates {
		a := days[day]
		trend = append(trend, WasteTrendPoint{
			Date:            day,
			AvgWastePercent: round3(a.wastePercentSum / float64(a.count)),
			TotalWaste:      int(a.waste),
		})
	}
	return trend
}

func accumulate(groups map[string]*wasteAccumulator, key string, r *dataset.Record) {
	acc := groups[key]
	if acc == nil {
		acc = &wasteAccumulator{}
		groups[key] = acc
	}
	acc.wastePercentSum += r.WastePercent
	acc.count++
	acc.waste += r.WasteQty
	acc.prepared += r.PreparedQty
	acc.sold += r.Orders
}

func sortedKeys(groups map[string]*wasteAccumulator) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
