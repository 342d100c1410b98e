package metrics

import (
	"errors"
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain; version=0.0.4") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestCounter(t *testing.T) {
	t.Run("without labels", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("test_counter", "A test counter")

		_ = c.Inc()
		_ = c.Inc()
		_ = c.Add(3)

		if got := c.Value(); got != 5 {
			t.Errorf("expected 5, got %v", got)
		}
		out := scrape(t, r)
		for _, want := range []string{
			"# HELP test_counter A test counter\n",
			"# TYPE test_counter counter\n",
			"test_counter 5\n",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("missing %q in:\n%s", want, out)
			}
		}
	})

	t.Run("with labels", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("http_requests", "Total HTTP requests", "method", "status")

		_ = c.Inc("GET", "200")
		_ = c.Inc("GET", "200")
		_ = c.Add(5, "POST", "201")

		if got := c.Value("GET", "200"); got != 2 {
			t.Errorf("GET 200: expected 2, got %v", got)
		}
		if got := c.Value("POST", "201"); got != 5 {
			t.Errorf("POST 201: expected 5, got %v", got)
		}
		if got := c.Value("PUT", "200"); got != 0 {
			t.Errorf("untouched series: expected 0, got %v", got)
		}

		out := scrape(t, r)
		if !strings.Contains(out, `http_requests{method="GET",status="200"} 2`) {
			t.Errorf("missing GET series in:\n%s", out)
		}
		if strings.Index(out, `method="GET"`) > strings.Index(out, `method="POST"`) {
			t.Errorf("series should be sorted:\n%s", out)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("labelled", "help", "a")

		if err := c.Inc(); !errors.Is(err, ErrLabelCountMismatch) {
			t.Errorf("expected ErrLabelCountMismatch, got %v", err)
		}
		if err := c.Add(-1, "x"); !errors.Is(err, ErrNegativeCounterValue) {
			t.Errorf("expected ErrNegativeCounterValue, got %v", err)
		}
		if c.Value("x") != 0 {
			t.Error("rejected writes must not record")
		}
	})
}

func TestCounter_Concurrent(t *testing.T) {
	r := NewRegistry()
	c := r.NewCounter("concurrent", "help", "worker")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.Inc("w")
			}
		}()
	}
	wg.Wait()

	if got := c.Value("w"); got != 5000 {
		t.Errorf("expected 5000, got %v", got)
	}
}

func TestHistogram(t *testing.T) {
	r := NewRegistry()
	h := r.NewHistogram("latency_seconds", "Latency", []float64{0.5, 0.125}, "route")

	_ = h.Observe(0.0625, "/a")
	_ = h.Observe(0.125, "/a")
	_ = h.Observe(0.25, "/a")
	_ = h.Observe(2, "/a")
	_ = h.Observe(math.NaN(), "/b")

	if got := h.Count("/a"); got != 4 {
		t.Errorf("expected 4 observations, got %d", got)
	}
	if err := h.Observe(1); !errors.Is(err, ErrLabelCountMismatch) {
		t.Errorf("expected ErrLabelCountMismatch, got %v", err)
	}

	out := scrape(t, r)
	for _, want := range []string{
		"# TYPE latency_seconds histogram\n",
		`latency_seconds_bucket{route="/a",le="0.125"} 2` + "\n",
		`latency_seconds_bucket{route="/a",le="0.5"} 3` + "\n",
		`latency_seconds_bucket{route="/a",le="+Inf"} 4` + "\n",
		`latency_seconds_sum{route="/a"} 2.4375` + "\n",
		`latency_seconds_count{route="/a"} 4` + "\n",
		`latency_seconds_bucket{route="/b",le="+Inf"} 1` + "\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestGaugeFunc(t *testing.T) {
	r := NewRegistry()
	n := 3
	r.NewGaugeFunc("items", "Items", func() float64 { return float64(n) })

	if out := scrape(t, r); !strings.Contains(out, "# TYPE items gauge\nitems 3\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
	n = 7
	if out := scrape(t, r); !strings.Contains(out, "items 7\n") {
		t.Errorf("gauge should be read at scrape time:\n%s", out)
	}
}

func TestRegistry(t *testing.T) {
	t.Run("empty metrics are omitted", func(t *testing.T) {
		r := NewRegistry()
		r.NewCounter("never_used", "help", "a")
		if out := scrape(t, r); out != "" {
			t.Errorf("expected empty output, got:\n%s", out)
		}
	})

	t.Run("duplicate names panic", func(t *testing.T) {
		r := NewRegistry()
		r.NewCounter("dup", "help")
		defer func() {
			rec := recover()
			if rec == nil || !strings.Contains(rec.(string), ErrDuplicateMetric.Error()) {
				t.Errorf("expected duplicate panic, got %v", rec)
			}
		}()
		r.NewCounter("dup", "help")
	})

	t.Run("escaping", func(t *testing.T) {
		r := NewRegistry()
		c := r.NewCounter("escaped", "line one\nline \\two", "v")
		_ = c.Inc("say \"hi\"\n")
		out := scrape(t, r)
		if !strings.Contains(out, `# HELP escaped line one\nline \\two`) {
			t.Errorf("help not escaped:\n%s", out)
		}
		if !strings.Contains(out, `escaped{v="say \"hi\"\n"} 1`) {
			t.Errorf("label not escaped:\n%s", out)
		}
	})
}

func TestSet(t *testing.T) {
	r := NewRegistry()
	set := NewSet(r)
	RegisterSurveyCount(r, func() int { return 2 })
	start := time.Now()
	RegisterProcess(r, func() time.Duration { return time.Since(start) })

	_ = set.SurveysCreated.Inc()
	_ = set.Requests.Inc("GET", "GET /surveys", "200")
	_ = set.RequestDuration.Observe(0.002, "GET", "GET /surveys")
	_ = set.PageRenders.Inc("take")

	out := scrape(t, r)
	for _, want := range []string{
		"surveyd_surveys_created_total 1\n",
		`surveyd_http_requests_total{method="GET",route="GET /surveys",status="200"} 1`,
		`surveyd_http_request_duration_seconds_count{method="GET",route="GET /surveys"} 1`,
		`surveyd_page_renders_total{page="take"} 1`,
		"surveyd_surveys 2\n",
		"# TYPE surveyd_uptime_seconds gauge\n",
		"go_goroutines ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "surveyd_responses_submitted_total") {
		t.Error("untouched counters should not be exposed")
	}
}
