// Package monitoring exports poller and upstream telemetry as Prometheus
// collectors. go-zero's DevServer serves them on /metrics.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"marketstats-api/pkg/feed"
	"marketstats-api/pkg/fetcher"
)

const namespace = "marketstats"

var (
	_ fetcher.Observer     = (*Metrics)(nil)
	_ feed.RequestObserver = (*Metrics)(nil)
)

// Metrics groups every collector of the service.
type Metrics struct {
	Cycles          *prometheus.CounterVec
	CycleDuration   prometheus.Histogram
	RowsWritten     *prometheus.CounterVec
	Skipped         *prometheus.CounterVec
	PairRefreshes   prometheus.Counter
	PairsAdded      prometheus.Counter
	RequestDuration *prometheus.HistogramVec
	AllowanceLeft   prometheus.Gauge
	AllowanceCost   prometheus.Gauge
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_cycles_total",
			Help:      "Fetch cycles by result",
		}, []string{"result"}),
		CycleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_cycle_duration_seconds",
			Help:      "Wall time of one fetch, aggregate and persist cycle",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}),
		RowsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "metric_history rows written by metric type",
		}, []string{"metric_type"}),
		Skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "markets_skipped_total",
			Help:      "Upstream markets skipped by reason",
		}, []string{"reason"}),
		PairRefreshes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pair_refreshes_total",
			Help:      "Pair mapping refreshes",
		}),
		PairsAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_added_total",
			Help:      "Pair tickers added to the mapping",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream HTTP calls by path and result",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "result"}),
		AllowanceLeft: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_allowance_remaining",
			Help:      "Remaining upstream allowance as last reported",
		}),
		AllowanceCost: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_allowance_cost",
			Help:      "Cost of the last upstream call as reported",
		}),
	}
}

func (m *Metrics) ObserveAllowance(a feed.Allowance) {
	m.AllowanceLeft.Set(a.Remaining)
	m.AllowanceCost.Set(a.Cost)
}

func (m *Metrics) ObservePairRefresh(added int) {
	m.PairRefreshes.Inc()
	m.PairsAdded.Add(float64(added))
}

func (m *Metrics) ObserveSkipped(reason string) {
	m.Skipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveCycle(stats fetcher.Stats, err error, elapsed time.Duration) {
	m.CycleDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.Cycles.WithLabelValues("error").Inc()
		return
	}
	m.Cycles.WithLabelValues("ok").Inc()
	m.RowsWritten.WithLabelValues("volume").Add(float64(stats.VolumeRows))
	m.RowsWritten.WithLabelValues("price").Add(float64(stats.PriceRows))
}

func (m *Metrics) ObserveRequest(path string, err error, elapsed time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.RequestDuration.WithLabelValues(path, result).Observe(elapsed.Seconds())
}
