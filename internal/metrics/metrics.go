package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "geolookup"

// Lookup outcomes used as the "outcome" label.
const (
	OutcomeCity             = "city"
	OutcomeCountry          = "country"
	OutcomeNotFound         = "not_found"
	OutcomeBadInput         = "bad_input"
	OutcomeStoreUnavailable = "store_unavailable"
	OutcomeError            = "error"
)

var (
	registry = prometheus.NewRegistry()

	lookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lookups_total",
		Help:      "Lookup requests by outcome.",
	}, []string{"outcome"})

	lookupDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lookup_duration_seconds",
		Help:      "Time spent resolving an address, including opening the store.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"outcome"})

	asnHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "asn_matches_total",
		Help:      "Successful lookups that also carried an ASN block.",
	})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build metadata of the running binary.",
	}, []string{"version", "built_at"})
)

func init() {
	registry.MustRegister(
		lookups,
		lookupDuration,
		asnHits,
		buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func ObserveLookup(outcome string, elapsed time.Duration) {
	lookups.WithLabelValues(outcome).Inc()
	lookupDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func ObserveASNMatch() {
	asnHits.Inc()
}

func SetBuildInfo(version, builtAt string) {
	buildInfo.Reset()
	buildInfo.WithLabelValues(version, builtAt).Set(1)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
