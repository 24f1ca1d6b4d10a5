package inverter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sun2000"

// MetricsCollector receives poll outcomes. The session accepts any
// implementation so tests can run without touching the default Prometheus
// registry.
type MetricsCollector interface {
	IncrementPollOk()
	IncrementPollErrors()
	ObserveScanDuration(d time.Duration)
	SetDailyYield(kwh float64)
}

type nopMetrics struct{}

func (nopMetrics) IncrementPollOk()                  {}
func (nopMetrics) IncrementPollErrors()              {}
func (nopMetrics) ObserveScanDuration(time.Duration) {}
func (nopMetrics) SetDailyYield(float64)             {}

type PrometheusCollector struct {
	pollOk       prometheus.Counter
	pollErrors   prometheus.Counter
	scanDuration prometheus.Gauge
	dailyYield   prometheus.Gauge
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		pollOk: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_ok_total",
			Help:      "Number of completed polling scans.",
		}),
		pollErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_errors_total",
			Help:      "Number of polling scans that failed or came back incomplete.",
		}),
		scanDuration: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Duration of the last polling scan.",
		}),
		dailyYield: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "daily_yield_energy_kwh",
			Help:      "Daily yield energy reported by the inverter (kWh).",
		}),
	}
}

func (p *PrometheusCollector) IncrementPollOk() {
	p.pollOk.Inc()
}

func (p *PrometheusCollector) IncrementPollErrors() {
	p.pollErrors.Inc()
}

func (p *PrometheusCollector) ObserveScanDuration(d time.Duration) {
	p.scanDuration.Set(d.Seconds())
}

func (p *PrometheusCollector) SetDailyYield(kwh float64) {
	p.dailyYield.Set(kwh)
}
