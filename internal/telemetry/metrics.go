package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Frame analysis outcomes used as the "result" label.
const (
	ResultOK      = "ok"
	ResultPartial = "partial" // some fields were malformed
	ResultNoFrame = "no_frame"
	ResultError   = "error"
)

var (
	// FramesAnalyzed counts analysis attempts by outcome
	FramesAnalyzed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "apcaps",
			Name:      "frames_analyzed_total",
			Help:      "Total number of management frames submitted for capability analysis",
		},
		[]string{"result"},
	)

	// CapabilityRows counts emitted capability rows per PHY amendment
	CapabilityRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "apcaps",
			Name:      "capability_rows_total",
			Help:      "Total number of capability rows emitted",
		},
		[]string{"mode"},
	)

	// MalformedFields counts fields that were present but could not be decoded
	MalformedFields = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "apcaps",
			Name:      "malformed_fields_total",
			Help:      "Total number of capability fields that failed to decode",
		},
		[]string{"mode"},
	)

	// AnalysisDuration observes the time spent obtaining and decoding a frame
	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "apcaps",
			Name:      "analysis_duration_seconds",
			Help:      "Time spent obtaining and decoding one frame",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// It is idempotent.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(FramesAnalyzed)
		prometheus.DefaultRegisterer.Register(CapabilityRows)
		prometheus.DefaultRegisterer.Register(MalformedFields)
		prometheus.DefaultRegisterer.Register(AnalysisDuration)
	})
}

// WriteTextfile dumps the default registry in the node_exporter textfile
// collector format, for one-shot CLI runs that are never scraped.
func WriteTextfile(path string) error {
	InitMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
