package metrics

import (
	"net/http"
	"time"

	"github.com/Adda-Baaj/sepush/pkg/sepush"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const outcomeOK = "ok"

// Recorder implements sepush.Observer with Prometheus collectors.
type Recorder struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	gatherer prometheus.Gatherer
}

// New registers the request collectors on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r, _ := NewWithRegistry(reg, reg)
	return r
}

// NewWithRegistry registers the collectors on reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) (*Recorder, error) {
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sepush_requests_total",
			Help: "EskomSePush API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "sepush_request_duration_seconds",
			Help: "Duration of EskomSePush API requests.",
		}, []string{"endpoint"}),
		gatherer: g,
	}
	for _, c := range []prometheus.Collector{r.requests, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveRequest implements sepush.Observer.
func (r *Recorder) ObserveRequest(endpoint string, kind sepush.Kind, ok bool, elapsed time.Duration) {
	outcome := outcomeOK
	if !ok {
		outcome = kind.String()
	}
	r.requests.WithLabelValues(endpoint, outcome).Inc()
	r.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// Router serves /metrics and a liveness probe at /healthz.
func (r *Recorder) Router() http.Handler {
	router := mux.NewRouter()
	router.Path("/metrics").Handler(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return router
}

var _ sepush.Observer = (*Recorder)(nil)
