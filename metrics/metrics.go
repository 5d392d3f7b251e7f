package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for one run of the builder. There's no server to scrape, so the registry is written to a
// textfile for the node exporter when the run ends. All methods are safe on a nil *Metrics.
type Metrics struct {
	Registry *prometheus.Registry

	points       prometheus.Gauge
	lookups      *prometheus.CounterVec
	retries      *prometheus.CounterVec
	duration     prometheus.Histogram
	interpolated prometheus.Gauge
	lastSuccess  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		points: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "odt",
			Subsystem: "elevation",
			Name:      "path_points",
			Help:      "Points in the stitched trail path",
		}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "odt",
			Subsystem: "elevation",
			Name:      "lookups_total",
			Help:      "Elevation lookups by result",
		}, []string{"result"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "odt",
			Subsystem: "elevation",
			Name:      "retries_total",
			Help:      "Elevation lookup retries by failure kind",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "odt",
			Subsystem: "elevation",
			Name:      "lookup_duration_seconds",
			Help:      "Time per point including retries",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		interpolated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "odt",
			Subsystem: "elevation",
			Name:      "interpolated_points",
			Help:      "Points whose elevation was filled by interpolation",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "odt",
			Subsystem: "elevation",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the profile was last written",
		}),
	}
	m.Registry.MustRegister(m.points, m.lookups, m.retries, m.duration, m.interpolated, m.lastSuccess)
	return m
}

func (m *Metrics) Points(n int) {
	if m == nil {
		return
	}
	m.points.Set(float64(n))
}

func (m *Metrics) Lookup(d time.Duration, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.lookups.WithLabelValues(result).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) Retry(kind string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(kind).Inc()
}

func (m *Metrics) Interpolated(n int) {
	if m == nil {
		return
	}
	m.interpolated.Set(float64(n))
}

func (m *Metrics) Success(t time.Time) {
	if m == nil {
		return
	}
	m.lastSuccess.Set(float64(t.Unix()))
}

// WriteTextfile writes the registry in the text exposition format.
func (m *Metrics) WriteTextfile(fpath string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(fpath, m.Registry); err != nil {
		return fmt.Errorf("writing metrics %q: %w", fpath, err)
	}
	return nil
}
