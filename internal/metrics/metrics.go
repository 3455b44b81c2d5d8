package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	filesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdfmeta",
			Name:      "files_processed_total",
			Help:      "PDF files processed by result (extracted, fallback, error, render_failed)",
		},
		[]string{"result"},
	)

	providerReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdfmeta",
			Name:      "provider_requests_total",
			Help:      "Model requests by provider, model and result",
		},
		[]string{"provider", "model", "result"},
	)

	providerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pdfmeta",
			Name:      "provider_request_duration_seconds",
			Help:      "Duration of model requests by provider and model",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)

	retriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pdfmeta",
			Name:      "retries_total",
			Help:      "Model call retries by error class (rate_limit, transient)",
		},
		[]string{"class"},
	)

	filesCopied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "pdfmeta",
			Name:      "files_copied_total",
			Help:      "Files copied into the output directory",
		},
	)
)

// Init registers collectors.
func Init() {
	prometheus.MustRegister(filesProcessed, providerReqs, providerLatency, retriesTotal, filesCopied)
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveProvider(provider, model, result string, dur time.Duration) {
	providerReqs.WithLabelValues(provider, model, result).Inc()
	providerLatency.WithLabelValues(provider, model).Observe(dur.Seconds())
}

func IncProcessed(result string) { filesProcessed.WithLabelValues(result).Inc() }
func IncRetry(class string)      { retriesTotal.WithLabelValues(class).Inc() }
func IncCopied()                 { filesCopied.Inc() }
