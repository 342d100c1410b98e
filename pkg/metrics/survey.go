package metrics

import (
	"runtime"
	"time"
)

// Set is the metric set recorded by the survey server.
type Set struct {
	// Requests counts HTTP requests. Labels: method, route, status.
	// route is the matched mux pattern, or "unmatched".
	Requests *Counter

	// RequestDuration observes request latency in seconds. Labels: method, route.
	RequestDuration *Histogram

	// SurveysCreated counts successful survey creations.
	SurveysCreated *Counter

	// ResponsesSubmitted counts accepted answer submissions.
	ResponsesSubmitted *Counter

	// PageRenders counts rendered HTML pages. Labels: page.
	PageRenders *Counter

	// UnresolvedReferences counts template references that rendered as
	// empty text. Labels: page.
	UnresolvedReferences *Counter
}

// NewSet registers the survey server metrics on r.
func NewSet(r *Registry) *Set {
	return &Set{
		Requests: r.NewCounter(
			"surveyd_http_requests_total",
			"Total number of HTTP requests",
			"method", "route", "status",
		),
		RequestDuration: r.NewHistogram(
			"surveyd_http_request_duration_seconds",
			"Duration of HTTP requests in seconds",
			DefaultBuckets,
			"method", "route",
		),
		SurveysCreated: r.NewCounter(
			"surveyd_surveys_created_total",
			"Total number of surveys created",
		),
		ResponsesSubmitted: r.NewCounter(
			"surveyd_responses_submitted_total",
			"Total number of survey responses submitted",
		),
		PageRenders: r.NewCounter(
			"surveyd_page_renders_total",
			"Total number of rendered HTML pages",
			"page",
		),
		UnresolvedReferences: r.NewCounter(
			"surveyd_template_unresolved_references_total",
			"Template references that resolved to nothing during page renders",
			"page",
		),
	}
}

// RegisterSurveyCount exposes the number of stored surveys.
func RegisterSurveyCount(r *Registry, count func() int) {
	r.NewGaugeFunc("surveyd_surveys", "Number of surveys currently stored", func() float64 {
		return float64(count())
	})
}

// RegisterProcess exposes uptime and a few Go runtime gauges.
func RegisterProcess(r *Registry, uptime func() time.Duration) {
	r.NewGaugeFunc("surveyd_uptime_seconds", "Seconds since the server started", func() float64 {
		return uptime().Seconds()
	})
	r.NewGaugeFunc("go_goroutines", "Number of goroutines that currently exist", func() float64 {
		return float64(runtime.NumGoroutine())
	})
	r.NewGaugeFunc("go_memstats_heap_alloc_bytes", "Number of heap bytes allocated and still in use", func() float64 {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return float64(ms.HeapAlloc)
	})
}
