// Package metrics exposes surveyd counters, gauges and histograms in the
// Prometheus text format (text/plain; version=0.0.4).
//
// A Registry owns its metrics; there is no global state, so every server
// instance can carry its own registry.
//
//	reg := metrics.NewRegistry()
//	set := metrics.NewSet(reg)
//	_ = set.SurveysCreated.Inc()
//	_ = set.Requests.Inc("GET", "GET /surveys", "200")
//	mux.Handle("GET /metrics", reg.Handler())
//
// Label values are bound per call. Passing the wrong number of values
// returns ErrLabelCountMismatch and records nothing.
package metrics
