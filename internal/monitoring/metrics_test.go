package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"marketstats-api/pkg/feed"
	"marketstats-api/pkg/fetcher"
)

func TestObserveCycle(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCycle(fetcher.Stats{VolumeRows: 6, PriceRows: 5}, nil, time.Second)
	m.ObserveCycle(fetcher.Stats{}, errors.New("boom"), time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cycles.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cycles.WithLabelValues("error")))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.RowsWritten.WithLabelValues("volume")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.RowsWritten.WithLabelValues("price")))
}

func TestObserveFetcherEvents(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSkipped(fetcher.SkipParse)
	m.ObserveSkipped(fetcher.SkipParse)
	m.ObservePairRefresh(3)
	m.ObserveAllowance(feed.Allowance{Cost: 0.01, Remaining: 9.5})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Skipped.WithLabelValues(fetcher.SkipParse)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PairRefreshes))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PairsAdded))
	assert.Equal(t, 9.5, testutil.ToFloat64(m.AllowanceLeft))
	assert.Equal(t, 0.01, testutil.ToFloat64(m.AllowanceCost))
}

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("/pairs", nil, 20*time.Millisecond)
	m.ObserveRequest("/pairs", errors.New("503"), 20*time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}
