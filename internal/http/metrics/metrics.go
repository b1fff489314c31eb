package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests prometheus.Counter
	errors   prometheus.Counter
	duration prometheus.Histogram
	streams  prometheus.Gauge
}

func NewCollector() *Collector {
	return &Collector{
		requests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "skillbridge_http_requests_total",
			Help: "Total number of HTTP requests.",
		}),
		errors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "skillbridge_http_errors_total",
			Help: "Total number of 5xx HTTP responses.",
		}),
		duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "skillbridge_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}),
		streams: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "skillbridge_live_streams",
			Help: "Currently open live-query streams.",
		}),
	}
}

func (c *Collector) IncRequests()                    { c.requests.Inc() }
func (c *Collector) IncErrors()                      { c.errors.Inc() }
func (c *Collector) ObserveDuration(seconds float64) { c.duration.Observe(seconds) }
func (c *Collector) StreamOpened()                   { c.streams.Inc() }
func (c *Collector) StreamClosed()                   { c.streams.Dec() }

func Handler() http.Handler {
	return promhttp.Handler()
}
