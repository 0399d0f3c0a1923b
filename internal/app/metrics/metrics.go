// Package metrics holds the Prometheus instruments for the transfer service.
//
// Instrument names are part of the external observability contract. Counters
// and duration histograms exist per operation, plus pull-model gauges backed by
// atomic integers that the services update directly.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bankapp",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bankapp",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bankapp",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	selectRecipientCalls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bankapp",
			Subsystem: "transaction",
			Name:      "select_recipient_calls_total",
			Help:      "Total number of recipient selection calls.",
		},
	)

	transferCalls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bankapp",
			Subsystem: "transaction",
			Name:      "transfer_calls_total",
			Help:      "Total number of transfer calls.",
		},
	)

	clientsCalls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bankapp",
			Subsystem: "transaction",
			Name:      "clients_calls_total",
			Help:      "Total number of client listing calls.",
		},
	)

	accountCreateCalls = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bankapp",
			Subsystem: "accounts",
			Name:      "create_calls_total",
			Help:      "Total number of account creation calls.",
		},
	)

	helloRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bankapp",
			Subsystem: "hello",
			Name:      "requests_total",
			Help:      "Total number of greeting requests.",
		},
		[]string{"name"},
	)

	// SelectRecipientDuration times recipient selection calls.
	SelectRecipientDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bankapp",
			Subsystem: "transaction",
			Name:      "select_recipient_duration_seconds",
			Help:      "Duration of recipient selection calls.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)

	// TransferDuration times transfer calls.
	TransferDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bankapp",
			Subsystem: "transaction",
			Name:      "transfer_duration_seconds",
			Help:      "Duration of transfer calls.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)

	// ClientsDuration times client listing calls.
	ClientsDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bankapp",
			Subsystem: "transaction",
			Name:      "clients_duration_seconds",
			Help:      "Duration of client listing calls.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)

	// AccountCreateDuration times account creation calls.
	AccountCreateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bankapp",
			Subsystem: "accounts",
			Name:      "create_duration_seconds",
			Help:      "Duration of account creation calls.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)

	// HelloDuration times greeting requests.
	HelloDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "bankapp",
			Subsystem: "hello",
			Name:      "request_duration_seconds",
			Help:      "Duration of greeting requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		},
	)

	// Gauge sources. The registered gauges read these on collection; services
	// update them directly through the functions below.
	currentTransfers atomic.Int64
	activeCreations  atomic.Int64
	helloUniqueNames atomic.Int64
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		selectRecipientCalls,
		transferCalls,
		clientsCalls,
		accountCreateCalls,
		helloRequests,
		SelectRecipientDuration,
		TransferDuration,
		ClientsDuration,
		AccountCreateDuration,
		HelloDuration,
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "bankapp",
				Subsystem: "transaction",
				Name:      "current_transfers",
				Help:      "Current number of in-flight transfer operations.",
			},
			func() float64 { return float64(currentTransfers.Load()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "bankapp",
				Subsystem: "accounts",
				Name:      "active_creations",
				Help:      "Current number of in-flight account creations.",
			},
			func() float64 { return float64(activeCreations.Load()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: "bankapp",
				Subsystem: "hello",
				Name:      "unique_names",
				Help:      "Number of distinct names greeted since startup.",
			},
			func() float64 { return float64(helloUniqueNames.Load()) },
		),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Timed runs fn and records its wall-clock duration against the observer,
// whether or not fn fails.
func Timed(obs prometheus.Observer, fn func() error) error {
	start := time.Now()
	defer func() { obs.Observe(time.Since(start).Seconds()) }()
	return fn()
}

// IncSelectRecipientCalls counts a recipient selection call.
func IncSelectRecipientCalls() { selectRecipientCalls.Inc() }

// IncTransferCalls counts a transfer call.
func IncTransferCalls() { transferCalls.Inc() }

// IncClientsCalls counts a client listing call.
func IncClientsCalls() { clientsCalls.Inc() }

// IncAccountCreateCalls counts an account creation call.
func IncAccountCreateCalls() { accountCreateCalls.Inc() }

// IncHelloRequests counts a greeting request for the given name.
func IncHelloRequests(name string) { helloRequests.WithLabelValues(name).Inc() }

// IncCurrentTransfers marks a transfer as in flight.
func IncCurrentTransfers() { currentTransfers.Add(1) }

// DecCurrentTransfers marks a transfer as finished. Clamps at zero.
func DecCurrentTransfers() { clampedDec(&currentTransfers) }

// CurrentTransfers reports the in-flight transfer count.
func CurrentTransfers() int64 { return currentTransfers.Load() }

// IncActiveCreations marks an account creation as in flight.
func IncActiveCreations() { activeCreations.Add(1) }

// DecActiveCreations marks an account creation as finished. Clamps at zero.
func DecActiveCreations() { clampedDec(&activeCreations) }

// ActiveCreations reports the in-flight account creation count.
func ActiveCreations() int64 { return activeCreations.Load() }

// SetHelloUniqueNames publishes the current unique greeted-name count.
func SetHelloUniqueNames(n int64) { helloUniqueNames.Store(n) }

func clampedDec(v *atomic.Int64) {
	for {
		cur := v.Load()
		if cur <= 0 {
			if v.CompareAndSwap(cur, 0) {
				return
			}
			continue
		}
		if v.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, r.URL.Path).Observe(duration.Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}
