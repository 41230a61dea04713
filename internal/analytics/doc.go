// Package analytics implements the read-only aggregation services of the
// campus dashboard: congestion, food waste, transport, satisfaction impact,
// and what-if simulation. Every function is a pure computation over the
// processed table and, where noted, a trained model; results are recomputed
// on each call.
package analytics
