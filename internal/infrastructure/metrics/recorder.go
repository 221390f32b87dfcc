package metrics

import (
	"time"

	"github.com/asakaida/troschema/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder collects per-run metrics for command line invocations. The
// registry is private to the recorder so runs never share global state.
type Recorder struct {
	registry *prometheus.Registry

	commandRuns     *prometheus.CounterVec
	commandErrors   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	cacheHits       *prometheus.GaugeVec
	cacheMisses     *prometheus.GaugeVec
	cacheHitRate    *prometheus.GaugeVec
	cacheEvictions  *prometheus.GaugeVec
}

// NewRecorder creates a new Recorder with its own registry
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		commandRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "troschema_command_runs_total",
				Help: "Total number of command runs",
			},
			[]string{"command"},
		),
		commandErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "troschema_command_errors_total",
				Help: "Total number of failed command runs",
			},
			[]string{"command"},
		),
		commandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "troschema_command_duration_seconds",
				Help:    "Duration of command runs in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"command"},
		),
		cacheHits: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "troschema_cache_hits",
				Help: "Cache hits during the last run",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "troschema_cache_misses",
				Help: "Cache misses during the last run",
			},
			[]string{"cache"},
		),
		cacheHitRate: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "troschema_cache_hit_rate",
				Help: "Cache hit rate during the last run (0.0 to 1.0)",
			},
			[]string{"cache"},
		),
		cacheEvictions: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "troschema_cache_evictions",
				Help: "Cache evictions during the last run",
			},
			[]string{"cache"},
		),
	}
}

// ObserveCommand records one run of command
func (r *Recorder) ObserveCommand(command string, elapsed time.Duration, err error) {
	r.commandRuns.WithLabelValues(command).Inc()
	r.commandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
	if err != nil {
		r.commandErrors.WithLabelValues(command).Inc()
	}
}

// ObserveCache copies a cache's statistics into the gauges labelled name
func (r *Recorder) ObserveCache(name string, m *cache.Metrics) {
	if m == nil {
		return
	}
	r.cacheHits.WithLabelValues(name).Set(float64(m.Hits))
	r.cacheMisses.WithLabelValues(name).Set(float64(m.Misses))
	r.cacheHitRate.WithLabelValues(name).Set(m.HitRate())
	r.cacheEvictions.WithLabelValues(name).Set(float64(m.KeysEvicted))
}

// Registry returns the registry holding the recorder's metrics
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node exporter textfile collector
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
