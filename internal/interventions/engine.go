package interventions

import (
	"math"
	"sort"

	"campuscli/internal/dataset"
	"campuscli/internal/ml"
)

// Priority thresholds shared across the domain generators.
const (
	congestionCritical   = 0.85
	congestionHigh       = 0.70
	wasteCritical        = 0.30
	wasteHigh            = 0.20
	utilizationOvercrowd = 1.0
	delayHighMin         = 10.0
)

var priorityRank = map[string]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
}

// Generate runs every domain generator against the engineered table and the
// trained satisfaction model and returns the pooled, ranked report. The
// result is a pure function of its inputs.
func Generate(t dataset.Table, model *ml.TrainedModel) Report {
	var items []Intervention
	items = append(items, congestionInterventions(t)...)
	items = append(items, foodInterventions(t)...)
	items = append(items, transportInterventions(t)...)
	items = append(items, satisfactionInterventions(t, model)...)

	// Critical first, then high, then medium; within a tier the larger
	// projected impact wins. Stable so generation order breaks ties.
	sort.SliceStable(items, func(a, b int) bool {
		ra, rb := rankOf(items[a].Priority), rankOf(items[b].Priority)
		if ra != rb {
			return ra < rb
		}
		return items[a].ProjectedImpact > items[b].ProjectedImpact
	})

	return Report{
		Summary:       summarize(items),
		Interventions: items,
	}
}

func rankOf(priority string) int {
	if r, ok := priorityRank[priority]; ok {
		return r
	}
	return len(priorityRank)
}

func summarize(items []Intervention) Summary {
	s := Summary{
		TotalInterventions: len(items),
		Domains:            []string{"congestion", "food", "transport", "satisfaction"},
	}
	var impact float64
	for _, item := range items {
		switch item.Priority {
		case PriorityCritical:
			s.Critical++
		case PriorityHigh:
			s.High++
		case PriorityMedium:
			s.Medium++
		}
		impact += item.ProjectedImpact
	}
	s.TotalProjectedImpact = round1(impact)
	return s
}

func priorityLabel(value, high, critical float64) string {
	switch {
	case value >= critical:
		return PriorityCritical
	case value >= high:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// safeRatio returns num/den, or 0 when the denominator is 0.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func cappedImpact(limit, value float64) float64 {
	return round1(math.Min(limit, value))
}

func roundN(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func round1(v float64) float64 { return roundN(v, 1) }

func round2(v float64) float64 { return roundN(v, 2) }

func round3(v float64) float64 { return roundN(v, 3) }
