package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
)

var _ MetricHistoryModel = (*customMetricHistoryModel)(nil)

// SymbolValue is a single (symbol, value) sample used for window statistics.
type SymbolValue struct {
	Symbol string  `db:"symbol"`
	Value  float64 `db:"value"`
}

// HistoryFilter narrows FindAll. Zero fields do not filter.
type HistoryFilter struct {
	MetricType string
	Symbols    []string
	Since      time.Time
	Until      time.Time
}

type (
	// MetricHistoryModel is an interface to be customized, add more methods here,
	// and implement the added methods in customMetricHistoryModel.
	MetricHistoryModel interface {
		metricHistoryModel
		InsertBatch(ctx context.Context, rows []*MetricHistory) error
		DistinctSymbols(ctx context.Context, metricType string) ([]string, error)
		SeriesBetween(ctx context.Context, metricType, symbol string, since, until time.Time) ([]*MetricHistory, error)
		WindowValues(ctx context.Context, metricType string, since, until time.Time) ([]SymbolValue, error)
		FindAll(ctx context.Context, filter HistoryFilter) ([]*MetricHistory, error)
	}

	customMetricHistoryModel struct {
		*defaultMetricHistoryModel
	}
)

// NewMetricHistoryModel returns a model for the database table.
func NewMetricHistoryModel(conn sqlx.SqlConn) MetricHistoryModel {
	return &customMetricHistoryModel{
		defaultMetricHistoryModel: newMetricHistoryModel(conn),
	}
}

// InsertBatch writes rows in one transaction; either every row lands or none.
func (m *customMetricHistoryModel) InsertBatch(ctx context.Context, rows []*MetricHistory) error {
	if len(rows) == 0 {
		return nil
	}
	query := fmt.Sprintf("insert into %s (%s) values ($1, $2, $3, $4)", m.table, metricHistoryRowsExpectAutoSet)
	return m.conn.TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		for _, row := range rows {
			if _, err := session.ExecCtx(ctx, query, row.MetricType, row.Symbol, row.Value, row.Timestamp); err != nil {
				return fmt.Errorf("metricHistory.InsertBatch %s/%s: %w", row.MetricType, row.Symbol, err)
			}
		}
		return nil
	})
}

// DistinctSymbols lists every symbol ever recorded for metricType, sorted.
func (m *customMetricHistoryModel) DistinctSymbols(ctx context.Context, metricType string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT symbol FROM %s WHERE metric_type = $1 ORDER BY symbol`, m.table)
	var symbols []string
	if err := m.conn.QueryRowsCtx(ctx, &symbols, query, metricType); err != nil {
		return nil, fmt.Errorf("metricHistory.DistinctSymbols query: %w", err)
	}
	return symbols, nil
}

// SeriesBetween returns one symbol's rows with since < timestamp <= until in
// timestamp order, insertion order breaking ties.
func (m *customMetricHistoryModel) SeriesBetween(ctx context.Context, metricType, symbol string, since, until time.Time) ([]*MetricHistory, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE metric_type = $1
  AND symbol = $2
  AND "timestamp" > $3
  AND "timestamp" <= $4
ORDER BY "timestamp" ASC, id ASC`, metricHistoryRows, m.table)

	var rows []*MetricHistory
	if err := m.conn.QueryRowsCtx(ctx, &rows, query, metricType, symbol, since, until); err != nil {
		return nil, fmt.Errorf("metricHistory.SeriesBetween query: %w", err)
	}
	return rows, nil
}

// WindowValues returns every (symbol, value) of metricType with
// since < timestamp <= until.
func (m *customMetricHistoryModel) WindowValues(ctx context.Context, metricType string, since, until time.Time) ([]SymbolValue, error) {
	query := fmt.Sprintf(`
SELECT symbol, value
FROM %s
WHERE metric_type = $1
  AND "timestamp" > $2
  AND "timestamp" <= $3`, m.table)

	var rows []SymbolValue
	if err := m.conn.QueryRowsCtx(ctx, &rows, query, metricType, since, until); err != nil {
		return nil, fmt.Errorf("metricHistory.WindowValues query: %w", err)
	}
	return rows, nil
}

// FindAll returns rows matching filter ordered by timestamp, then insertion.
func (m *customMetricHistoryModel) FindAll(ctx context.Context, filter HistoryFilter) ([]*MetricHistory, error) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}
	if filter.MetricType != "" {
		add("metric_type = $%d", filter.MetricType)
	}
	if len(filter.Symbols) > 0 {
		add("symbol = ANY($%d)", pq.Array(filter.Symbols))
	}
	if !filter.Since.IsZero() {
		add(`"timestamp" > $%d`, filter.Since)
	}
	if !filter.Until.IsZero() {
		add(`"timestamp" <= $%d`, filter.Until)
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY \"timestamp\" ASC, id ASC", metricHistoryRows, m.table, where)

	var rows []*MetricHistory
	if err := m.conn.QueryRowsCtx(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("metricHistory.FindAll query: %w", err)
	}
	return rows, nil
}
