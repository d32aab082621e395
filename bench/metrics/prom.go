package metrics

import (
	"context"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromCollector holds the per-run Prometheus registry and histograms a
// bench stage records against, grounded on sanonone-kektordb's
// promauto-registered CounterVec/HistogramVec pattern — adapted here to a
// fresh prometheus.NewRegistry per stage run instead of the global default
// registry, since a bench binary runs one stage at a time and should not
// leak metric registrations across stage invocations within the same
// process.
type PromCollector struct {
	Registry      *prometheus.Registry
	BuildSeconds  prometheus.Histogram
	SearchLatency prometheus.Histogram
}

// NewPromCollector registers the build-duration and search-latency
// histograms this bench stage will populate against a private registry.
func NewPromCollector(stage string) *PromCollector {
	reg := prometheus.NewRegistry()
	return &PromCollector{
		Registry: reg,
		BuildSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "packedforest_bench_build_duration_seconds",
			Help:    "Time to build a forest during a bench stage run.",
			Buckets: prometheus.DefBuckets,
			ConstLabels: prometheus.Labels{
				"stage": stage,
			},
		}),
		SearchLatency: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "packedforest_bench_search_latency_seconds",
			Help:    "Per-query search latency observed during a bench stage run.",
			Buckets: []float64{0.00005, 0.0001, 0.0002, 0.0005, 0.001, 0.002, 0.005, 0.01, 0.05},
			ConstLabels: prometheus.Labels{
				"stage": stage,
			},
		}),
	}
}

// ServeEphemeral starts an HTTP server exposing /metrics on an
// OS-assigned port and returns its address and a stop function. Bench
// stages that want a Prometheus scrape target for the duration of a
// single run (rather than the CSV-only reports the other stages produce)
// call this once at the start of the run and stop() at the end.
func (c *PromCollector) ServeEphemeral() (addr string, stop func(), err error) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux}
	go func() {
		_ = srv.Serve(lis)
	}()
	stop = func() {
		_ = srv.Shutdown(context.Background())
	}
	return lis.Addr().String(), stop, nil
}
