package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carewatch"

const (
	EvaluationCompliant    = "compliant"
	EvaluationNonCompliant = "non_compliant"
	EvaluationError        = "error"

	ScanCompleted = "completed"
	ScanDegraded  = "degraded"
	ScanSkipped   = "skipped"
)

// Metrics holds the Prometheus collectors for the compliance monitor. All
// methods are safe on a nil receiver so components can run without metrics.
type Metrics struct {
	Scans             *prometheus.CounterVec
	ScanDuration      prometheus.Histogram
	DocumentsScanned  prometheus.Counter
	Dispatches        *prometheus.CounterVec
	Evaluations       *prometheus.CounterVec
	LastScanTimestamp prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Scans: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Expiry scans by result",
		}, []string{"result"}),
		ScanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Wall time of one expiry scan including dispatch",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}),
		DocumentsScanned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_scanned_total",
			Help:      "Documents returned by expiry scans",
		}),
		Dispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatches_total",
			Help:      "Reminder dispatch decisions by outcome",
		}, []string{"outcome"}),
		Evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Worker compliance evaluations by result",
		}, []string{"result"}),
		LastScanTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_scan_timestamp_seconds",
			Help:      "Unix time the last expiry scan finished",
		}),
	}
}

func (m *Metrics) ObserveScan(result string, scanned int, duration time.Duration, finishedAt time.Time) {
	if m == nil {
		return
	}
	m.Scans.WithLabelValues(result).Inc()
	m.ScanDuration.Observe(duration.Seconds())
	m.DocumentsScanned.Add(float64(scanned))
	m.LastScanTimestamp.Set(float64(finishedAt.Unix()))
}

func (m *Metrics) ObserveSkippedScan() {
	if m == nil {
		return
	}
	m.Scans.WithLabelValues(ScanSkipped).Inc()
}

func (m *Metrics) ObserveDispatch(outcome string) {
	if m == nil {
		return
	}
	m.Dispatches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveEvaluation(result string) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(result).Inc()
}
