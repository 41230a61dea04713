package interventions

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"campuscli/internal/dataset"
	"campuscli/internal/ml"
)

// Human-readable labels for model feature names.
var readableFeature = map[string]string{
	ml.FeatureCongestionIndex: "Congestion Index",
	ml.FeatureWastePercent:    "Food Waste Rate",
	ml.FeatureAvgDelayMin:     "Transport Delay",
	ml.FeatureResponseTimeHr:  "Response Time",
	ml.FeatureZoneEncoded:     "Campus Zone",
	ml.FeatureTimeSlotEncoded: "Time of Day",
}

func featureLabel(name string) string {
	if label, ok := readableFeature[name]; ok {
		return label
	}
	return name
}

type rankedFeature struct {
	name       string
	importance float64
}

func satisfactionInterventions(t dataset.Table, model *ml.TrainedModel) []Intervention {
	if len(t) == 0 || model == nil || len(model.FeatureNames) == 0 {
		return nil
	}

	ranked := make([]rankedFeature, len(model.FeatureNames))
	for i, name := range model.FeatureNames {
		ranked[i] = rankedFeature{name: name, importance: model.Importances[i]}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].importance > ranked[b].importance
	})

	sats := make([]float64, len(t))
	for i := range t {
		sats[i] = t[i].Satisfaction
	}
	avgSat := stat.Mean(sats, nil)
	satStd := stat.StdDev(sats, nil)

	correlations := featureCorrelations(t, ranked, sats)

	lowestZone, lowestSat := minZoneSatisfaction(t)
	gapPct := round1(safeRatio(avgSat-lowestSat, avgSat) * 100)

	topDriver := ranked[0]
	topLabel := featureLabel(topDriver.name)
	topImportancePct := round1(topDriver.importance * 100)

	priority := PriorityMedium
	switch {
	case avgSat < 3.0:
		priority = PriorityCritical
	case avgSat < 3.5:
		priority = PriorityHigh
	}

	items := []Intervention{{
		ID:       "sat-1",
		Category: "satisfaction",
		Priority: priority,
		Title:    fmt.Sprintf("Reduce '%s': The #1 Satisfaction Driver", topLabel),
		Insight: fmt.Sprintf(
			"ML feature importance reveals '%s' accounts for %.1f%% of satisfaction variance (model R2 = %.3f). Campus average satisfaction is %.2f/5.0 (std %.2f). Targeting this lever directly unlocks the largest satisfaction gain per unit of investment.",
			topLabel, topImportancePct, model.R2, avgSat, satStd,
		),
		Recommendations: []string{
			fmt.Sprintf("Set a formal reduction target for '%s' with weekly KPI reviews.", topLabel),
			fmt.Sprintf("Allocate dedicated operational budget to the top-3 interventions targeting '%s'.", topLabel),
			"Create a closed-loop feedback dashboard allowing students to report issues instantly, enabling sub-24h response.",
		},
		Metric:               topImportancePct,
		MetricLabel:          fmt.Sprintf("'%s' importance (%%)", topLabel),
		MetricFormat:         FormatPercent,
		ProjectedImpact:      cappedImpact(30, topImportancePct*0.4),
		ProjectedImpactLabel: "Est. satisfaction uplift",
		Evidence: map[string]any{
			"avg_satisfaction":          round3(avgSat),
			"satisfaction_std":          round3(satStd),
			"model_r2":                  model.R2,
			"model_mae":                 model.MAE,
			"top_driver":                topDriver.name,
			"top_driver_label":          topLabel,
			"top_driver_importance_pct": topImportancePct,
			"feature_importances":       importanceEvidence(ranked),
			"correlations":              correlations,
		},
	}}

	zonePriority := PriorityMedium
	if gapPct > 10 {
		zonePriority = PriorityHigh
	}
	items = append(items, Intervention{
		ID:       "sat-2",
		Category: "satisfaction",
		Priority: zonePriority,
		Title:    fmt.Sprintf("Targeted Satisfaction Recovery in Zone '%s'", lowestZone),
		Insight: fmt.Sprintf(
			"Zone '%s' records the lowest average satisfaction score of %.2f/5.0, %.1f%% below the campus mean of %.2f. Concentrated interventions in this zone offer the highest marginal return.",
			lowestZone, lowestSat, gapPct, avgSat,
		),
		Recommendations: []string{
			fmt.Sprintf("Conduct monthly student experience audits in '%s' to identify zone-specific pain points.", lowestZone),
			fmt.Sprintf("Prioritise infrastructure improvements (seating, lighting, network) in '%s' in the next budget cycle.", lowestZone),
			"Assign a dedicated Campus Experience Coordinator to the lowest-performing zone for a 90-day improvement sprint.",
		},
		Metric:               lowestSat,
		MetricLabel:          fmt.Sprintf("Zone '%s' satisfaction", lowestZone),
		MetricFormat:         FormatDecimal,
		ProjectedImpact:      cappedImpact(25, gapPct*0.6),
		ProjectedImpactLabel: "Est. satisfaction uplift",
		Evidence: map[string]any{
			"lowest_zone":       lowestZone,
			"lowest_zone_sat":   round3(lowestSat),
			"campus_avg_sat":    round3(avgSat),
			"gap_pct":           gapPct,
			"zone_satisfaction": zoneSatisfactionEvidence(t),
		},
	})

	if len(ranked) > 1 {
		second := ranked[1]
		secondLabel := featureLabel(second.name)
		secondImportancePct := round1(second.importance * 100)
		combined := round1(topImportancePct + secondImportancePct)
		items = append(items, Intervention{
			ID:       "sat-3",
			Category: "satisfaction",
			Priority: PriorityMedium,
			Title:    fmt.Sprintf("Compound Gains: Co-Optimise '%s' + '%s'", topLabel, secondLabel),
			Insight: fmt.Sprintf(
				"The top two satisfaction drivers, '%s' (%.1f%%) and '%s' (%.1f%%), together explain %.1f%% of satisfaction variance. Co-optimising both creates a compounding effect exceeding isolated improvements.",
				topLabel, topImportancePct, secondLabel, secondImportancePct, combined,
			),
			Recommendations: []string{
				"Form a cross-functional 'Campus Experience Squad' spanning Facilities, Catering, and Transport teams.",
				"Run bi-weekly joint ops reviews tracking both metrics simultaneously to catch interaction effects.",
				fmt.Sprintf("A/B test combined interventions on '%s' as a pilot zone before campus-wide rollout.", lowestZone),
			},
			Metric:               combined,
			MetricLabel:          "Combined driver importance (%)",
			MetricFormat:         FormatPercent,
			ProjectedImpact:      cappedImpact(35, combined*0.35),
			ProjectedImpactLabel: "Est. compound satisfaction uplift",
			Evidence: map[string]any{
				"top_driver_label":             topLabel,
				"top_driver_importance_pct":    topImportancePct,
				"second_driver_label":          secondLabel,
				"second_driver_importance_pct": secondImportancePct,
				"combined_importance_pct":      combined,
			},
		})
	}

	return items
}

// featureCorrelations computes the Pearson correlation between each of the
// top 4 ranked features and the satisfaction column.
func featureCorrelations(t dataset.Table, ranked []rankedFeature, sats []float64) map[string]float64 {
	top := ranked
	if len(top) > 4 {
		top = top[:4]
	}
	names := make([]string, len(top))
	for i, f := range top {
		names[i] = f.name
	}
	x, err := ml.FeatureMatrix(t, names)
	if err != nil {
		return nil
	}

	out := make(map[string]float64, len(names))
	column := make([]float64, len(t))
	for j, name := range names {
		for i := range x {
			column[i] = x[i][j]
		}
		// A constant column has no defined correlation; report 0 so the
		// evidence stays JSON-encodable.
		corr := stat.Correlation(column, sats, nil)
		if math.IsNaN(corr) {
			corr = 0
		}
		out[featureLabel(name)] = round3(corr)
	}
	return out
}

func importanceEvidence(ranked []rankedFeature) []map[string]any {
	limit := len(ranked)
	if limit > 6 {
		limit = 6
	}
	out := make([]map[string]any, limit)
	for i := 0; i < limit; i++ {
		out[i] = map[string]any{
			"feature":        featureLabel(ranked[i].name),
			"importance_pct": round2(ranked[i].importance * 100),
		}
	}
	return out
}

// minZoneSatisfaction returns the zone with the lowest mean satisfaction.
// Ties resolve to the alphabetically first zone.
func minZoneSatisfaction(t dataset.Table) (string, float64) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range t {
		sums[t[i].Zone] += t[i].Satisfaction
		counts[t[i].Zone]++
	}

	zones := make([]string, 0, len(sums))
	for z := range sums {
		zones = append(zones, z)
	}
	sort.Strings(zones)

	var lowestZone string
	lowest := 0.0
	for i, z := range zones {
		mean := sums[z] / float64(counts[z])
		if i == 0 || mean < lowest {
			lowestZone, lowest = z, mean
		}
	}
	return lowestZone, lowest
}

// zoneSatisfactionEvidence lists zone satisfaction means ascending.
func zoneSatisfactionEvidence(t dataset.Table) []map[string]any {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range t {
		sums[t[i].Zone] += t[i].Satisfaction
		counts[t[i].Zone]++
	}

	type entry struct {
		zone string
		mean float64
	}
	entries := make([]entry, 0, len(sums))
	for z, sum := range sums {
		entries = append(entries, entry{z, sum / float64(counts[z])})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].mean != entries[b].mean {
			return entries[a].mean < entries[b].mean
		}
		return entries[a].zone < entries[b].zone
	})

	out := make([]map[string]any, len(entries))
	for i, e := range entries {
		out[i] = map[string]any{"zone": e.zone, "avg_satisfaction": round3(e.mean)}
	}
	return out
}
