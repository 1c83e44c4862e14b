package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"marketstats-api/internal/model"
	"marketstats-api/pkg/metric"
)

// Window is the trailing period covered by ValuesInLast24h and rank queries.
const Window = 24 * time.Hour

// ErrNoDataInWindow is returned by SymbolRankByStandardDeviation when the
// symbol has no rows inside the window.
var ErrNoDataInWindow = errors.New("repo: no data in window")

// AllConditions filters All. Zero fields do not filter.
type AllConditions struct {
	Type    metric.Type
	Symbols []string
	Since   time.Time
	Until   time.Time
}

// MetricsRepo reads and appends metric_history rows.
type MetricsRepo interface {
	// SymbolsForMetricType returns every symbol recorded for t, sorted.
	SymbolsForMetricType(ctx context.Context, t metric.Type) ([]string, error)
	// ValuesInLast24h returns the points of one series with
	// now-24h < timestamp <= now in ascending order. Rows sharing a timestamp
	// collapse to the last written one.
	ValuesInLast24h(ctx context.Context, t metric.Type, symbol string) ([]metric.Point, error)
	// InsertRows appends rows atomically.
	InsertRows(ctx context.Context, rows []metric.Row) error
	// SymbolRankByStandardDeviation ranks symbol among all symbols of t by the
	// population standard deviation of their values in the window, highest first.
	SymbolRankByStandardDeviation(ctx context.Context, t metric.Type, symbol string) (metric.Rank, error)
	// All returns every row matching cond.
	All(ctx context.Context, cond AllConditions) ([]metric.Row, error)
}

type metricsRepo struct {
	model model.MetricHistoryModel
	now   func() time.Time
}

func newMetricsRepo(deps Dependencies) MetricsRepo {
	return &metricsRepo{
		model: deps.MetricHistoryModel,
		now:   deps.Now,
	}
}

func (r *metricsRepo) window() (since, until time.Time) {
	until = r.now().UTC()
	return until.Add(-Window), until
}

func (r *metricsRepo) SymbolsForMetricType(ctx context.Context, t metric.Type) ([]string, error) {
	symbols, err := r.model.DistinctSymbols(ctx, string(t))
	if err != nil {
		return nil, err
	}
	if symbols == nil {
		symbols = []string{}
	}
	return symbols, nil
}

func (r *metricsRepo) ValuesInLast24h(ctx context.Context, t metric.Type, symbol string) ([]metric.Point, error) {
	since, until := r.window()
	rows, err := r.model.SeriesBetween(ctx, string(t), symbol, since, until)
	if err != nil {
		return nil, err
	}
	points := make([]metric.Point, 0, len(rows))
	for _, row := range rows {
		p := metric.Point{Timestamp: row.Timestamp.UTC(), Value: row.Value}
		if n := len(points); n > 0 && points[n-1].Timestamp.Equal(p.Timestamp) {
			points[n-1] = p
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

func (r *metricsRepo) InsertRows(ctx context.Context, rows []metric.Row) error {
	if len(rows) == 0 {
		return nil
	}
	records := make([]*model.MetricHistory, 0, len(rows))
	for _, row := range rows {
		records = append(records, &model.MetricHistory{
			MetricType: string(row.Type),
			Symbol:     row.Symbol,
			Value:      row.Value,
			Timestamp:  row.Timestamp.UTC(),
		})
	}
	if err := r.model.InsertBatch(ctx, records); err != nil {
		return fmt.Errorf("metricsRepo.InsertRows: %w", err)
	}
	logx.WithContext(ctx).Debugf("metricsRepo: inserted %d rows", len(records))
	return nil
}

func (r *metricsRepo) SymbolRankByStandardDeviation(ctx context.Context, t metric.Type, symbol string) (metric.Rank, error) {
	since, until := r.window()
	samples, err := r.model.WindowValues(ctx, string(t), since, until)
	if err != nil {
		return metric.Rank{}, err
	}
	grouped := make(map[string][]float64)
	for _, s := range samples {
		grouped[s.Symbol] = append(grouped[s.Symbol], s.Value)
	}
	if _, ok := grouped[symbol]; !ok {
		return metric.Rank{}, ErrNoDataInWindow
	}
	scores := make(map[string]float64, len(grouped))
	for sym, values := range grouped {
		scores[sym] = populationStdDev(values)
	}
	rank, _ := competitionRank(scores, symbol)
	return metric.Rank{Rank: rank, Total: len(scores)}, nil
}

func (r *metricsRepo) All(ctx context.Context, cond AllConditions) ([]metric.Row, error) {
	records, err := r.model.FindAll(ctx, model.HistoryFilter{
		MetricType: string(cond.Type),
		Symbols:    cond.Symbols,
		Since:      cond.Since,
		Until:      cond.Until,
	})
	if err != nil {
		return nil, err
	}
	rows := make([]metric.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, metric.Row{
			Type:      metric.Type(rec.MetricType),
			Symbol:    rec.Symbol,
			Value:     rec.Value,
			Timestamp: rec.Timestamp.UTC(),
		})
	}
	return rows, nil
}
