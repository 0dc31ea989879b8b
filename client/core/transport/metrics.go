package transport

import "github.com/prometheus/client_golang/prometheus"

// Metrics RPC 调用计数
type Metrics struct {
	requests *prometheus.CounterVec
	retries  *prometheus.CounterVec
}

// NewMetrics 创建指标并注册到 reg；reg 为 nil 时只计数不注册
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mwallet",
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "JSON-RPC calls by method and outcome.",
		}, []string{"method", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mwallet",
			Subsystem: "rpc",
			Name:      "retries_total",
			Help:      "JSON-RPC retry attempts by method.",
		}, []string{"method"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.retries)
	}
	return m
}

func (m *Metrics) observe(method string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case IsRetryable(err):
		outcome = "transport_error"
	default:
		outcome = "error"
	}
	m.requests.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) retry(method string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(method).Inc()
}
