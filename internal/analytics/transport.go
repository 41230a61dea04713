package analytics

import (
	"math/rand"
	"sort"

	"campuscli/internal/dataset"
)

// ScatterSampleCap bounds the number of per-record points returned for the
// utilization-vs-delay chart.
const ScatterSampleCap = 500

// scatterSampleSeed keeps the downsample stable across calls
const scatterSampleSeed = 42

// ScatterPoint is one record's utilization/delay pair for charting
type ScatterPoint struct {
	Utilization float64 `json:"utilization"`
	Delay       float64 `json:"delay"`
	Zone        string  `json:"zone"`
	TimeSlot    string  `json:"time_slot"`
}

// TransportZoneStats aggregates transport metrics for one zone
type TransportZoneStats struct {
	Zone            string  `json:"zone"`
	AvgUtilization  float64 `json:"avg_utilization"`
	AvgDelay        float64 `json:"avg_delay"`
	TotalPassengers int     `json:"total_passengers"`
}

// TransportAnalysis is the dashboard's transport overview
type TransportAnalysis struct {
	AvgUtilization float64              `json:"avg_utilization"`
	AvgDelayMin    float64              `json:"avg_delay_min"`
	MaxDelayMin    float64              `json:"max_delay_min"`
	OvercrowdedPct float64              `json:"overcrowded_pct"`
	ByZone         []TransportZoneStats `json:"by_zone"`
	Scatter        []ScatterPoint       `json:"scatter"`
}

// Transport computes utilization and delay KPIs, a per-zone overview, and a
// bounded scatter sample. Records above 100% utilization count as
// overcrowded.
func Transport(t dataset.Table) TransportAnalysis {
	analysis := TransportAnalysis{}
	if len(t) == 0 {
		return analysis
	}

	var utilSum, delaySum, maxDelay float64
	overcrowded := 0
	for i := range t {
		utilSum += t[i].TransportUtilization
		delaySum += t[i].AvgDelayMin
		if t[i].AvgDelayMin > maxDelay {
			maxDelay = t[i].AvgDelayMin
		}
		if t[i].TransportUtilization > 1.0 {
			overcrowded++
		}
	}

	n := float64(len(t))
	analysis.AvgUtilization = round3(utilSum / n)
	analysis.AvgDelayMin = round2(delaySum / n)
	analysis.MaxDelayMin = maxDelay
	analysis.OvercrowdedPct = round1(float64(overcrowded) / n * 100)
	analysis.ByZone = transportByZone(t)
	analysis.Scatter = scatterSample(t)
	return analysis
}

// transportByZone averages utilization and delay per zone, alphabetically
func transportByZone(t dataset.Table) []TransportZoneStats {
	type acc struct {
		utilSum, delaySum, passengers float64
		count                         int
	}

	zones := make(map[string]*acc)
	for i := range t {
		a := zones[t[i].Zone]
		if a == nil {
			a = &acc{}
			zones[t[i].Zone] = a
		}
		a.utilSum += t[i].TransportUtilization
		a.delaySum += t[i].AvgDelayMin
		a.passengers += t[i].Passengers
		a.count++
	}

	names := make([]string, 0, len(zones))
	for name := range zones {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]TransportZoneStats, 0, len(names))
	for _, name := range names {
		a := zones[name]
		out = append(out, TransportZoneStats{
			Zone:            name,
			AvgUtilization:  round3(a.utilSum / float64(a.count)),
			AvgDelay:        round3(a.delaySum / float64(a.count)),
			TotalPassengers: int(a.passengers),
		})
	}
	return out
}

// scatterSample returns every record when the table fits under the cap, or a
// fixed-seed random subset otherwise.
func scatterSample(t dataset.Table) []ScatterPoint {
	indices := make([]int, len(t))
	for i := range indices {
		indices[i] = i
	}

	if len(t) > ScatterSampleCap {
		rng := rand.New(rand.NewSource(scatterSampleSeed))
		rng.Shuffle(len(indices), func(a, b int) {
			indices[a], indices[b] = indices[b], indices[a]
		})
		indices = indices[:ScatterSampleCap]
		sort.Ints(indices)
	}

	points := make([]ScatterPoint, 0, len(indices))
	for _, i := range indices {
		points = append(points, ScatterPoint{
			Utilization: round3(t[i].TransportUtilization),
			Delay:       round3(t[i].AvgDelayMin),
			Zone:        t[i].Zone,
			TimeSlot:    t[i].TimeSlot,
		})
	}
	return points
}
