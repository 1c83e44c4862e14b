package model

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/stores/builder"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/stringx"
)

var (
	metricHistoryFieldNames        = builder.RawFieldNames(&MetricHistory{}, true)
	metricHistoryRows              = strings.Join(metricHistoryFieldNames, ",")
	metricHistoryRowsExpectAutoSet = strings.Join(stringx.Remove(metricHistoryFieldNames, `"id"`), ",")
)

type (
	metricHistoryModel interface {
		Insert(ctx context.Context, data *MetricHistory) (sql.Result, error)
	}

	defaultMetricHistoryModel struct {
		conn  sqlx.SqlConn
		table string
	}

	MetricHistory struct {
		Id         int64     `db:"id"`
		MetricType string    `db:"metric_type"`
		Symbol     string    `db:"symbol"`
		Value      float64   `db:"value"`
		Timestamp  time.Time `db:"timestamp"`
	}
)

func newMetricHistoryModel(conn sqlx.SqlConn) *defaultMetricHistoryModel {
	return &defaultMetricHistoryModel{
		conn:  conn,
		table: "public.metric_history",
	}
}

func (m *defaultMetricHistoryModel) Insert(ctx context.Context, data *MetricHistory) (sql.Result, error) {
	query := fmt.Sprintf("insert into %s (%s) values ($1, $2, $3, $4)", m.table, metricHistoryRowsExpectAutoSet)
	return m.conn.ExecCtx(ctx, query, data.MetricType, data.Symbol, data.Value, data.Timestamp)
}
