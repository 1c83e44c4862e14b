package fetcher

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"marketstats-api/pkg/feed"
	"marketstats-api/pkg/metric"
)

type marketSample struct {
	baseVolume  decimal.Decimal
	quoteVolume decimal.Decimal
	lastPrice   decimal.Decimal
}

func parseMarket(summary feed.MarketSummary) (marketSample, error) {
	var (
		s   marketSample
		err error
	)
	if s.baseVolume, err = feed.ParseNumber(summary.Volume); err != nil {
		return s, fmt.Errorf("volume: %w", err)
	}
	if s.quoteVolume, err = feed.ParseNumber(summary.VolumeQuote); err != nil {
		return s, fmt.Errorf("volumeQuote: %w", err)
	}
	if s.lastPrice, err = feed.ParseNumber(summary.Price.Last); err != nil {
		return s, fmt.Errorf("price.last: %w", err)
	}
	return s, nil
}

type priceAccumulator struct {
	sum   decimal.Decimal
	count int64
}

// meanDigits is the number of decimal places kept past the sum's own scale
// when dividing, so sub-satoshi prices keep full float64 precision.
const meanDigits = 20

func (acc priceAccumulator) mean() decimal.Decimal {
	places := int32(meanDigits)
	if exp := acc.sum.Exponent(); exp < 0 {
		places -= exp
	}
	return acc.sum.DivRound(decimal.NewFromInt(acc.count), places)
}

// aggregator sums volume per asset and averages last price per pair ticker.
type aggregator struct {
	volumes map[string]decimal.Decimal
	prices  map[string]priceAccumulator
}

func newAggregator() *aggregator {
	return &aggregator{
		volumes: make(map[string]decimal.Decimal),
		prices:  make(map[string]priceAccumulator),
	}
}

func (a *aggregator) add(ticker string, assets PairAssets, s marketSample) {
	a.volumes[assets.Base] = a.volumes[assets.Base].Add(s.baseVolume)
	a.volumes[assets.Quote] = a.volumes[assets.Quote].Add(s.quoteVolume)

	acc := a.prices[ticker]
	acc.sum = acc.sum.Add(s.lastPrice)
	acc.count++
	a.prices[ticker] = acc
}

// rows emits one volume row per asset followed by one price row per ticker,
// all stamped with ts.
func (a *aggregator) rows(ts time.Time) []metric.Row {
	rows := make([]metric.Row, 0, len(a.volumes)+len(a.prices))
	for _, asset := range sortedKeys(a.volumes) {
		value, _ := a.volumes[asset].Float64()
		rows = append(rows, metric.Row{Type: metric.Volume, Symbol: asset, Value: value, Timestamp: ts})
	}
	for _, ticker := range sortedKeys(a.prices) {
		acc := a.prices[ticker]
		value, _ := acc.mean().Float64()
		rows = append(rows, metric.Row{Type: metric.Price, Symbol: ticker, Value: value, Timestamp: ts})
	}
	return rows
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
