// Package interventions turns dataset aggregates and the satisfaction model
// into ranked, data-backed operational recommendations.
package interventions

// Priority tiers, ordered from most to least urgent.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
)

// Metric format hints for the dashboard renderer.
const (
	FormatInteger = "integer"
	FormatDecimal = "decimal"
	FormatPercent = "percent"
)

// Intervention is a single recommendation backed by dataset evidence.
type Intervention struct {
	ID                   string         `json:"id"`
	Category             string         `json:"category"`
	Priority             string         `json:"priority"`
	Title                string         `json:"title"`
	Insight              string         `json:"insight"`
	Recommendations      []string       `json:"recommendations"`
	Metric               float64        `json:"metric"`
	MetricLabel          string         `json:"metric_label"`
	MetricFormat         string         `json:"metric_format"`
	ProjectedImpact      float64        `json:"projected_impact"`
	ProjectedImpactLabel string         `json:"projected_impact_label"`
	Evidence             map[string]any `json:"evidence"`
}

// Summary aggregates the intervention list for the dashboard header.
type Summary struct {
	TotalInterventions   int      `json:"total_interventions"`
	Critical             int      `json:"critical"`
	High                 int      `json:"high"`
	Medium               int      `json:"medium"`
	TotalProjectedImpact float64  `json:"total_projected_impact"`
	Domains              []string `json:"domains"`
}

// Report is the full interventions payload.
type Report struct {
	Summary       Summary        `json:"summary"`
	Interventions []Intervention `json:"interventions"`
}
