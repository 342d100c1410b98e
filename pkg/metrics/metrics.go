package metrics

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrLabelCountMismatch is returned when the label values don't match the declared labels.
	ErrLabelCountMismatch = errors.New("label count mismatch")

	// ErrNegativeCounterValue is returned when a counter would decrease.
	ErrNegativeCounterValue = errors.New("counter cannot be decreased")

	// ErrDuplicateMetric is returned when a metric name is registered twice.
	ErrDuplicateMetric = errors.New("duplicate metric name")
)

// Kind is the Prometheus metric type.
type Kind string

const (
	KindCounter   Kind = "counter"
	KindGauge     Kind = "gauge"
	KindHistogram Kind = "histogram"
)

// collector is implemented by every registered metric.
type collector interface {
	desc() *descriptor
	writeSamples(w io.Writer)
}

// descriptor is the static part of a metric.
type descriptor struct {
	name   string
	help   string
	kind   Kind
	labels []string
}

func (d *descriptor) desc() *descriptor { return d }

func (d *descriptor) check(values []string) error {
	if len(values) != len(d.labels) {
		return fmt.Errorf("%w: %s expects %d label(s), got %d", ErrLabelCountMismatch, d.name, len(d.labels), len(values))
	}
	return nil
}

// ----------------------------------------------------------------------------
// Counter
// ----------------------------------------------------------------------------

// Counter is a monotonically increasing value per label set.
type Counter struct {
	descriptor
	mu     sync.Mutex
	series map[string]*counterSeries
}

type counterSeries struct {
	values []string
	total  float64
}

// Inc adds one to the series identified by labelValues.
func (c *Counter) Inc(labelValues ...string) error {
	return c.Add(1, labelValues...)
}

// Add adds delta to the series identified by labelValues.
func (c *Counter) Add(delta float64, labelValues ...string) error {
	if delta < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeCounterValue, c.name)
	}
	if err := c.check(labelValues); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	key := seriesKey(labelValues)
	s, ok := c.series[key]
	if !ok {
		s = &counterSeries{values: append([]string(nil), labelValues...)}
		c.series[key] = s
	}
	s.total += delta
	return nil
}

// Value returns the current total of one series, or 0 if it was never touched.
func (c *Counter) Value(labelValues ...string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.series[seriesKey(labelValues)]; ok {
		return s.total
	}
	return 0
}

func (c *Counter) writeSamples(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range sortedKeys(c.series) {
		s := c.series[key]
		writeSample(w, c.name, formatLabels(c.labels, s.values, ""), s.total)
	}
}

// ----------------------------------------------------------------------------
// Gauge
// ----------------------------------------------------------------------------

// GaugeFunc reports a value computed at scrape time.
type GaugeFunc struct {
	descriptor
	fn func() float64
}

func (g *GaugeFunc) writeSamples(w io.Writer) {
	writeSample(w, g.name, "", g.fn())
}

// ----------------------------------------------------------------------------
// Histogram
// ----------------------------------------------------------------------------

// Histogram counts observations into cumulative buckets per label set.
type Histogram struct {
	descriptor
	bounds []float64 // sorted, always ending in +Inf
	mu     sync.Mutex
	series map[string]*histogramSeries
}

type histogramSeries struct {
	values []string
	counts []uint64
	sum    float64
	count  uint64
}

// Observe records v in the series identified by labelValues.
func (h *Histogram) Observe(v float64, labelValues ...string) error {
	if err := h.check(labelValues); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	key := seriesKey(labelValues)
	s, ok := h.series[key]
	if !ok {
		s = &histogramSeries{
			values: append([]string(nil), labelValues...),
			counts: make([]uint64, len(h.bounds)),
		}
		h.series[key] = s
	}
	i := sort.SearchFloat64s(h.bounds, v)
	if i == len(h.bounds) { // NaN
		i--
	}
	s.counts[i]++
	s.sum += v
	s.count++
	return nil
}

// Count returns the number of observations in one series.
func (h *Histogram) Count(labelValues ...string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.series[seriesKey(labelValues)]; ok {
		return s.count
	}
	return 0
}

func (h *Histogram) writeSamples(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, key := range sortedKeys(h.series) {
		s := h.series[key]
		var cumulative uint64
		for i, bound := range h.bounds {
			cumulative += s.counts[i]
			writeSample(w, h.name+"_bucket", formatLabels(h.labels, s.values, formatFloat(bound)), float64(cumulative))
		}
		labels := formatLabels(h.labels, s.values, "")
		writeSample(w, h.name+"_sum", labels, s.sum)
		writeSample(w, h.name+"_count", labels, float64(s.count))
	}
}

// DefaultBuckets are request duration buckets in seconds.
var DefaultBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// ----------------------------------------------------------------------------
// Registry
// ----------------------------------------------------------------------------

// Registry holds metrics in registration order.
type Registry struct {
	mu         sync.RWMutex
	collectors []collector
	names      map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// NewCounter registers a counter with the given label names.
func (r *Registry) NewCounter(name, help string, labels ...string) *Counter {
	c := &Counter{
		descriptor: descriptor{name: name, help: help, kind: KindCounter, labels: labels},
		series:     make(map[string]*counterSeries),
	}
	r.register(c)
	return c
}

// NewGaugeFunc registers a gauge whose value is read from fn on every scrape.
func (r *Registry) NewGaugeFunc(name, help string, fn func() float64) *GaugeFunc {
	g := &GaugeFunc{
		descriptor: descriptor{name: name, help: help, kind: KindGauge},
		fn:         fn,
	}
	r.register(g)
	return g
}

// NewHistogram registers a histogram. A +Inf bucket is appended when missing.
func (r *Registry) NewHistogram(name, help string, buckets []float64, labels ...string) *Histogram {
	bounds := append([]float64(nil), buckets...)
	sort.Float64s(bounds)
	if len(bounds) == 0 || !math.IsInf(bounds[len(bounds)-1], 1) {
		bounds = append(bounds, math.Inf(1))
	}
	h := &Histogram{
		descriptor: descriptor{name: name, help: help, kind: KindHistogram, labels: labels},
		bounds:     bounds,
		series:     make(map[string]*histogramSeries),
	}
	r.register(h)
	return h
}

// register panics on a duplicate name, which would produce an invalid exposition.
func (r *Registry) register(c collector) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := c.desc().name
	if _, exists := r.names[name]; exists {
		panic(fmt.Sprintf("%s: %s", ErrDuplicateMetric, name))
	}
	r.names[name] = struct{}{}
	r.collectors = append(r.collectors, c)
}

// WriteTo writes every metric in the text exposition format.
func (r *Registry) WriteTo(w io.Writer) {
	r.mu.RLock()
	collectors := append([]collector(nil), r.collectors...)
	r.mu.RUnlock()

	for _, c := range collectors {
		var body strings.Builder
		c.writeSamples(&body)
		if body.Len() == 0 {
			continue
		}
		d := c.desc()
		_, _ = fmt.Fprintf(w, "# HELP %s %s\n", d.name, escapeHelp(d.help))
		_, _ = fmt.Fprintf(w, "# TYPE %s %s\n", d.name, d.kind)
		_, _ = io.WriteString(w, body.String())
	}
}

// Handler serves the registry for scraping.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		r.WriteTo(w)
	})
}

// ----------------------------------------------------------------------------
// Text format
// ----------------------------------------------------------------------------

func writeSample(w io.Writer, name, labels string, v float64) {
	_, _ = fmt.Fprintf(w, "%s%s %s\n", name, labels, formatFloat(v))
}

// formatLabels renders {k="v",...} in declaration order, with le last when set.
func formatLabels(names, values []string, le string) string {
	if len(names) == 0 && le == "" {
		return ""
	}
	parts := make([]string, 0, len(names)+1)
	for i, name := range names {
		parts = append(parts, name+`="`+escapeLabelValue(values[i])+`"`)
	}
	if le != "" {
		parts = append(parts, `le="`+le+`"`)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func escapeHelp(s string) string {
	return strings.NewReplacer(`\`, `\\`, "\n", `\n`).Replace(s)
}

func escapeLabelValue(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s)
}

func seriesKey(values []string) string {
	return strings.Join(values, "\x00")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
