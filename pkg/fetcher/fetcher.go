// Package fetcher turns upstream 24h market summaries into metric rows.
//
// One cycle reads every market summary, resolves each pair ticker to its
// base and quote assets, sums traded volume per asset, averages the last
// price per pair ticker and hands the resulting rows to a Sink in one call.
package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"

	"marketstats-api/pkg/feed"
	"marketstats-api/pkg/metric"
)

// Skip reasons reported to the Observer.
const (
	SkipMarketID     = "market_id"
	SkipUnmappedPair = "unmapped_pair"
	SkipParse        = "parse"
)

// Source is the upstream market-data API.
type Source interface {
	Pairs(ctx context.Context) ([]feed.Pair, error)
	Summaries(ctx context.Context) (*feed.SummariesResponse, error)
}

// Sink persists the rows of one cycle atomically.
type Sink interface {
	InsertRows(ctx context.Context, rows []metric.Row) error
}

// Observer receives cycle telemetry. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	ObserveAllowance(allowance feed.Allowance)
	ObservePairRefresh(added int)
	ObserveSkipped(reason string)
	ObserveCycle(stats Stats, err error, elapsed time.Duration)
}

// Stats summarises one cycle.
type Stats struct {
	FetchedAt     time.Time
	Markets       int
	Skipped       int
	PairRefreshes int
	VolumeRows    int
	PriceRows     int
}

// Rows returns the number of rows handed to the sink.
func (s Stats) Rows() int { return s.VolumeRows + s.PriceRows }

// Fetcher runs fetch, map, aggregate and persist cycles.
type Fetcher struct {
	source   Source
	sink     Sink
	pairs    *PairCache
	observer Observer
	now      func() time.Time
}

// Option customises a Fetcher.
type Option func(*Fetcher)

// WithPairCache shares an existing pair mapping with the fetcher.
func WithPairCache(cache *PairCache) Option {
	return func(f *Fetcher) {
		if cache != nil {
			f.pairs = cache
		}
	}
}

// WithObserver wires cycle telemetry.
func WithObserver(o Observer) Option {
	return func(f *Fetcher) {
		if o != nil {
			f.observer = o
		}
	}
}

// WithClock overrides the source of fetch timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// New constructs a Fetcher reading from source and writing to sink.
func New(source Source, sink Sink, opts ...Option) *Fetcher {
	f := &Fetcher{
		source:   source,
		sink:     sink,
		pairs:    NewPairCache(),
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Pairs exposes the fetcher's pair mapping.
func (f *Fetcher) Pairs() *PairCache { return f.pairs }

// UpdateData runs one full cycle. Upstream and sink failures are returned to
// the caller; malformed individual markets are skipped.
func (f *Fetcher) UpdateData(ctx context.Context) error {
	start := time.Now()
	ctx = logx.ContextWithFields(ctx, logx.Field("cycle", uuid.NewString()))

	var stats Stats
	summary, err := f.Get24hSummary(ctx)
	if err == nil {
		stats, err = f.process(ctx, summary)
	}
	elapsed := time.Since(start)
	f.observer.ObserveCycle(stats, err, elapsed)
	if err != nil {
		return err
	}
	logx.WithContext(ctx).Infow("fetcher: cycle stored",
		logx.Field("markets", stats.Markets),
		logx.Field("skipped", stats.Skipped),
		logx.Field("rows", stats.Rows()),
		logx.Field("took", elapsed.String()))
	return nil
}

// Get24hSummary returns the raw 24h summary keyed by "exchange:pair".
// A reported allowance is forwarded to the observer.
func (f *Fetcher) Get24hSummary(ctx context.Context) (map[string]feed.MarketSummary, error) {
	resp, err := f.source.Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch summaries: %w", err)
	}
	if resp.Allowance != nil {
		f.observer.ObserveAllowance(*resp.Allowance)
		logx.WithContext(ctx).Infow("fetcher: upstream allowance",
			logx.Field("cost", resp.Allowance.Cost),
			logx.Field("remaining", resp.Allowance.Remaining))
	}
	return resp.Result, nil
}

// UpdatePairs merges upstream pairs into the cache without touching tickers
// that are already mapped.
func (f *Fetcher) UpdatePairs(ctx context.Context) error {
	pairs, err := f.source.Pairs(ctx)
	if err != nil {
		return fmt.Errorf("fetch pairs: %w", err)
	}
	added := 0
	for _, p := range pairs {
		if p.Symbol == "" || p.Base.Symbol == "" || p.Quote.Symbol == "" {
			continue
		}
		if f.pairs.PutIfAbsent(p.Symbol, PairAssets{Base: p.Base.Symbol, Quote: p.Quote.Symbol}) {
			added++
		}
	}
	f.observer.ObservePairRefresh(added)
	logx.WithContext(ctx).Infof("fetcher: pairs refreshed, added=%d known=%d", added, f.pairs.Len())
	return nil
}

// Process24hSummary aggregates summary and persists the resulting rows.
func (f *Fetcher) Process24hSummary(ctx context.Context, summary map[string]feed.MarketSummary) error {
	_, err := f.process(ctx, summary)
	return err
}

func (f *Fetcher) process(ctx context.Context, summary map[string]feed.MarketSummary) (Stats, error) {
	stats := Stats{FetchedAt: f.now().UTC(), Markets: len(summary)}
	agg := newAggregator()
	refreshed := false

	for _, id := range sortedKeys(summary) {
		_, ticker, ok := feed.SplitMarketID(id)
		if !ok {
			f.skip(ctx, &stats, SkipMarketID, id, nil)
			continue
		}
		assets, ok := f.pairs.Get(ticker)
		if !ok && !refreshed {
			// One refresh per cycle; later misses reuse the refreshed mapping.
			refreshed = true
			stats.PairRefreshes++
			if err := f.UpdatePairs(ctx); err != nil {
				return stats, err
			}
			assets, ok = f.pairs.Get(ticker)
		}
		if !ok {
			f.skip(ctx, &stats, SkipUnmappedPair, id, nil)
			continue
		}
		sample, err := parseMarket(summary[id])
		if err != nil {
			f.skip(ctx, &stats, SkipParse, id, err)
			continue
		}
		agg.add(ticker, assets, sample)
	}

	rows := agg.rows(stats.FetchedAt)
	stats.VolumeRows = len(agg.volumes)
	stats.PriceRows = len(agg.prices)
	if len(rows) == 0 {
		return stats, nil
	}
	if err := f.sink.InsertRows(ctx, rows); err != nil {
		return stats, fmt.Errorf("insert rows: %w", err)
	}
	return stats, nil
}

func (f *Fetcher) skip(ctx context.Context, stats *Stats, reason, id string, err error) {
	stats.Skipped++
	f.observer.ObserveSkipped(reason)
	if err != nil {
		logx.WithContext(ctx).Errorf("fetcher: skip market %s (%s): %v", id, reason, err)
		return
	}
	logx.WithContext(ctx).Infof("fetcher: skip market %s (%s)", id, reason)
}

type nopObserver struct{}

func (nopObserver) ObserveAllowance(feed.Allowance)          {}
func (nopObserver) ObservePairRefresh(int)                   {}
func (nopObserver) ObserveSkipped(string)                    {}
func (nopObserver) ObserveCycle(Stats, error, time.Duration) {}
