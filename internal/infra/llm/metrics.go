package llm

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GenerationMetricsRecorder defines the interface for recording generation
// metrics. Abstracting the recorder lets tests inject a mock instead of the
// Prometheus implementation and keeps the adapters provider-agnostic.
// Failures are counted by the pipeline-level metrics registry, keyed by the
// classified reason.
type GenerationMetricsRecorder interface {
	// RecordDuration records the time taken by a single model API call.
	RecordDuration(duration time.Duration)

	// RecordOutputLength records the length of generated text in characters.
	RecordOutputLength(length int)
}

// PrometheusGenerationMetrics implements GenerationMetricsRecorder using
// Prometheus metrics.
type PrometheusGenerationMetrics struct {
	durationHistogram prometheus.Histogram
	lengthHistogram   prometheus.Histogram
}

var (
	generationMetricsInstance *PrometheusGenerationMetrics
	generationMetricsOnce     sync.Once
)

// getOrCreateHistogram gets an existing histogram or creates a new one if it doesn't exist
func getOrCreateHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		return promauto.NewHistogram(opts)
	}
	return h
}

// NewPrometheusGenerationMetrics creates a new Prometheus-based metrics
// recorder. Uses singleton pattern to avoid duplicate metric registration
// in tests.
func NewPrometheusGenerationMetrics() *PrometheusGenerationMetrics {
	generationMetricsOnce.Do(func() {
		generationMetricsInstance = &PrometheusGenerationMetrics{
			durationHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "model_generation_duration_seconds",
				Help:    "Time taken by a single model generation API call",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}),
			lengthHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "model_generation_output_characters",
				Help:    "Distribution of generated text lengths in characters (Unicode runes)",
				Buckets: []float64{50, 100, 300, 500, 1000, 2000, 4000},
			}),
		}
	})
	return generationMetricsInstance
}

// RecordDuration implements GenerationMetricsRecorder.RecordDuration
func (p *PrometheusGenerationMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}

// RecordOutputLength implements GenerationMetricsRecorder.RecordOutputLength
func (p *PrometheusGenerationMetrics) RecordOutputLength(length int) {
	p.lengthHistogram.Observe(float64(length))
}
