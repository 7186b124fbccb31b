// Package metrics exposes prometheus instrumentation for the bot.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the conversation flows.
type BotMetrics struct {
	inboundTotal   *prometheus.CounterVec
	ordersTotal    *prometheus.CounterVec
	notifyFailures *prometheus.CounterVec
	handleLatency  *prometheus.HistogramVec
	orderValue     prometheus.Histogram
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiranabot",
			Subsystem: "engine",
			Name:      "inbound_total",
			Help:      "Total inbound text events by resulting status",
		}, []string{"status"}),
		ordersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiranabot",
			Subsystem: "engine",
			Name:      "orders_total",
			Help:      "Total order submissions by status",
		}, []string{"status"}),
		notifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiranabot",
			Subsystem: "notify",
			Name:      "failures_total",
			Help:      "Notification delivery failures by channel",
		}, []string{"channel"}),
		handleLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kiranabot",
			Subsystem: "engine",
			Name:      "handle_latency_seconds",
			Help:      "Latency of handling one inbound event",
			Buckets:   prometheus.DefBuckets,
		}, []string{"state"}),
		orderValue: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kiranabot",
			Subsystem: "engine",
			Name:      "order_value_rupees",
			Help:      "Value of submitted orders in rupees",
			Buckets:   prometheus.ExponentialBuckets(50, 2, 10),
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.ordersTotal, m.notifyFailures, m.handleLatency, m.orderValue)
	return m
}

func (m *BotMetrics) ObserveInbound(status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(status).Inc()
}

func (m *BotMetrics) ObserveOrder(status string, totalRupees int64) {
	if m == nil {
		return
	}
	m.ordersTotal.WithLabelValues(status).Inc()
	if status == "committed" {
		m.orderValue.Observe(float64(totalRupees))
	}
}

func (m *BotMetrics) ObserveNotifyFailure(channel string) {
	if m == nil {
		return
	}
	m.notifyFailures.WithLabelValues(channel).Inc()
}

func (m *BotMetrics) ObserveHandleLatency(state string, seconds float64) {
	if m == nil {
		return
	}
	m.handleLatency.WithLabelValues(state).Observe(seconds)
}
