package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	PatientsRegisteredTotal prometheus.Counter
	VisitsTotal             *prometheus.CounterVec
	PrescriptionsTotal      *prometheus.CounterVec
	StockAdjustmentsTotal   *prometheus.CounterVec
	LowStockItems           prometheus.Gauge

	AuditEntriesTotal  prometheus.Counter
	AuditBufferDropped prometheus.Counter
}

func NewCollector(serviceName string) *Collector {
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		PatientsRegisteredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "patients_registered_total",
			Help:      "Total number of patient records created.",
		}),

		VisitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "visits_total",
			Help:      "Total queue visits by final status.",
		}, []string{"status"}),

		PrescriptionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "pharmacy",
			Name:      "prescriptions_total",
			Help:      "Prescription lifecycle transitions by resulting status.",
		}, []string{"status"}),

		StockAdjustmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "pharmacy",
			Name:      "stock_adjustments_total",
			Help:      "Stock adjustments by direction (increase/decrease).",
		}, []string{"direction"}),

		LowStockItems: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "pharmacy",
			Name:      "low_stock_items",
			Help:      "Number of medicines at or below their minimum stock level.",
		}),

		AuditEntriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Total audit log entries written.",
		}),

		AuditBufferDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "audit",
			Name:      "buffer_dropped_total",
			Help:      "Audit entries dropped due to full buffer. Alert if non-zero.",
		}),
	}
}

// Nil-safe recording helpers. Services hold a *Collector that may be nil in
// tests; a nil receiver is a no-op.

func (c *Collector) RecordPatientRegistered() {
	if c == nil {
		return
	}
	c.PatientsRegisteredTotal.Inc()
}

func (c *Collector) RecordVisit(status string) {
	if c == nil {
		return
	}
	c.VisitsTotal.WithLabelValues(status).Inc()
}

func (c *Collector) RecordPrescription(status string) {
	if c == nil {
		return
	}
	c.PrescriptionsTotal.WithLabelValues(status).Inc()
}

func (c *Collector) RecordStockAdjustment(delta int) {
	if c == nil {
		return
	}
	direction := "increase"
	if delta < 0 {
		direction = "decrease"
	}
	c.StockAdjustmentsTotal.WithLabelValues(direction).Inc()
}

func (c *Collector) SetLowStockItems(n int) {
	if c == nil {
		return
	}
	c.LowStockItems.Set(float64(n))
}

func (c *Collector) RecordAuditEntry() {
	if c == nil {
		return
	}
	c.AuditEntriesTotal.Inc()
}

func (c *Collector) RecordAuditDrop() {
	if c == nil {
		return
	}
	c.AuditBufferDropped.Inc()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
