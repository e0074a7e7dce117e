package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SamplesDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steady_samples_dispatched_total",
		Help: "Samples fanned out to the consumer set.",
	})
	OffsetsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steady_offsets_applied_total",
		Help: "Per-axis offset applications delivered to consumers.",
	})
	OffsetsReverted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steady_offsets_reverted_total",
		Help: "Offsets reverted to the origin by the undo check.",
	})
	MetaDeliveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steady_meta_deliveries_total",
		Help: "Metadata handshakes delivered to consumers.",
	})
	ConsumersAttached = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "steady_consumers_attached",
		Help: "Currently attached consumers.",
	})
	SourceErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "steady_source_errors_total",
		Help: "Errors reported by the sample source.",
	})
)

func Expose(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}
