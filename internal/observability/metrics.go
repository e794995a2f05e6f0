package observability

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nholding/clearvue/internal/payment"
)

// Metrics holds the dashboard's Prometheus collectors on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	CalendarsGenerated *prometheus.CounterVec
	CalendarCache      *prometheus.CounterVec
	PaymentsSimulated  *prometheus.CounterVec
	PaymentAmount      prometheus.Histogram
	ExportsWritten     *prometheus.CounterVec
}

// NewMetrics registers every collector, plus the Go runtime and process
// collectors, on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		CalendarsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clearvue",
			Name:      "financial_calendars_generated_total",
			Help:      "Financial calendars computed, by outcome.",
		}, []string{"outcome"}),
		CalendarCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clearvue",
			Name:      "financial_calendar_cache_total",
			Help:      "Financial calendar lookups, by cache layer and result.",
		}, []string{"layer", "result"}),
		PaymentsSimulated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clearvue",
			Name:      "payments_simulated_total",
			Help:      "Simulated payments appended to the live stream, by region.",
		}, []string{"region"}),
		PaymentAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clearvue",
			Name:      "payment_amount_usd",
			Help:      "Distribution of simulated payment amounts.",
			Buckets:   []float64{25, 50, 100, 250, 500, 750, 1000},
		}),
		ExportsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clearvue",
			Name:      "calendar_exports_total",
			Help:      "Financial calendar exports written to object storage, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.CalendarsGenerated,
		m.CalendarCache,
		m.PaymentsSimulated,
		m.PaymentAmount,
		m.ExportsWritten,
	)
	return m
}

// Handler returns the /metrics HTTP handler for the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// CalendarGenerated counts one generation attempt.
func (m *Metrics) CalendarGenerated(err error) {
	m.CalendarsGenerated.WithLabelValues(outcome(err)).Inc()
}

// CacheLookup counts a lookup against one cache layer ("memory", "redis").
func (m *Metrics) CacheLookup(layer string, hit bool) {
	m.CalendarCache.WithLabelValues(layer, strconv.FormatBool(hit)).Inc()
}

// ExportWritten counts one export attempt.
func (m *Metrics) ExportWritten(err error) {
	m.ExportsWritten.WithLabelValues(outcome(err)).Inc()
}

// PaymentSimulated implements payment.Recorder.
func (m *Metrics) PaymentSimulated(p payment.Payment) {
	m.PaymentsSimulated.WithLabelValues(p.Region).Inc()
	amount, _ := p.Amount.Float64()
	m.PaymentAmount.Observe(amount)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
