//go:build integration
// +build integration

package repo_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "marketstats-api/internal/config"
	"marketstats-api/internal/model"
	"marketstats-api/internal/repo"
	"marketstats-api/internal/svc"
	"marketstats-api/pkg/confkit"
	"marketstats-api/pkg/metric"
)

func newIntegrationServiceContext(t *testing.T) *svc.ServiceContext {
	t.Helper()
	cfg, err := appconfig.Load(confkit.MustProjectPath("etc/marketstats.yaml"))
	if err != nil {
		t.Skipf("config not loadable: %v", err)
	}
	return svc.NewServiceContext(*cfg)
}

func requirePostgres(t *testing.T, svcCtx *svc.ServiceContext) *sql.DB {
	t.Helper()
	raw, err := svcCtx.DBConn.RawDB()
	if err != nil {
		t.Fatalf("failed to obtain postgres handle: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := raw.PingContext(ctx); err != nil {
		t.Skipf("postgres not reachable: %v", err)
	}
	return raw
}

func TestMetricStoreRoundTrip(t *testing.T) {
	svcCtx := newIntegrationServiceContext(t)
	db := requirePostgres(t, svcCtx)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx, model.Schema)
	require.NoError(t, err)

	store := svcCtx.Repos.Metrics
	ts := time.Now().UTC().Truncate(time.Microsecond)
	a := fmt.Sprintf("it-a-%d", ts.UnixNano())
	b := fmt.Sprintf("it-b-%d", ts.UnixNano())
	defer db.ExecContext(context.Background(), `DELETE FROM public.metric_history WHERE symbol = ANY($1)`, "{"+a+","+b+"}")

	require.NoError(t, store.InsertRows(ctx, []metric.Row{
		{Type: metric.Volume, Symbol: a, Value: 0, Timestamp: ts.Add(-time.Minute)},
		{Type: metric.Volume, Symbol: a, Value: 10, Timestamp: ts},
		{Type: metric.Volume, Symbol: b, Value: 3, Timestamp: ts.Add(-time.Minute)},
		{Type: metric.Volume, Symbol: b, Value: 3, Timestamp: ts},
	}))

	symbols, err := store.SymbolsForMetricType(ctx, metric.Volume)
	require.NoError(t, err)
	assert.Contains(t, symbols, a)
	assert.Contains(t, symbols, b)

	points, err := store.ValuesInLast24h(ctx, metric.Volume, a)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].Timestamp.Before(points[1].Timestamp))

	rankA, err := store.SymbolRankByStandardDeviation(ctx, metric.Volume, a)
	require.NoError(t, err)
	rankB, err := store.SymbolRankByStandardDeviation(ctx, metric.Volume, b)
	require.NoError(t, err)
	assert.Less(t, rankA.Rank, rankB.Rank)
	assert.Equal(t, rankA.Total, rankB.Total)
}

func TestMetricStoreWindowBoundary(t *testing.T) {
	svcCtx := newIntegrationServiceContext(t)
	db := requirePostgres(t, svcCtx)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := db.ExecContext(ctx, model.Schema)
	require.NoError(t, err)

	// Anchored far in the past so no other rows share the window.
	now := time.Date(2001, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(time.Now().Unix()%3600) * time.Second)
	repos, err := repo.New(repo.Dependencies{
		DBConn: svcCtx.DBConn,
		Now:    func() time.Time { return now },
	})
	require.NoError(t, err)
	store := repos.Metrics

	inner := fmt.Sprintf("it-inner-%d", now.UnixNano())
	outer := fmt.Sprintf("it-outer-%d", now.UnixNano())
	defer db.ExecContext(context.Background(), `DELETE FROM public.metric_history WHERE symbol = ANY($1)`, "{"+inner+","+outer+"}")

	require.NoError(t, store.InsertRows(ctx, []metric.Row{
		{Type: metric.Price, Symbol: inner, Value: 1000, Timestamp: now.Add(-24*time.Hour - time.Second)},
		{Type: metric.Price, Symbol: inner, Value: 2000, Timestamp: now.Add(-24 * time.Hour)},
		{Type: metric.Price, Symbol: inner, Value: 5, Timestamp: now.Add(-24*time.Hour + time.Second)},
		{Type: metric.Price, Symbol: inner, Value: 7, Timestamp: now},
		{Type: metric.Price, Symbol: inner, Value: 3000, Timestamp: now.Add(time.Second)},
		{Type: metric.Price, Symbol: outer, Value: 1, Timestamp: now.Add(-24*time.Hour - time.Second)},
		{Type: metric.Price, Symbol: outer, Value: 9, Timestamp: now.Add(-25 * time.Hour)},
	}))

	points, err := store.ValuesInLast24h(ctx, metric.Price, inner)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].Timestamp.Equal(now.Add(-24*time.Hour+time.Second)), points[0].Timestamp)
	assert.Equal(t, 5.0, points[0].Value)
	assert.True(t, points[1].Timestamp.Equal(now), points[1].Timestamp)
	assert.Equal(t, 7.0, points[1].Value)

	outerPoints, err := store.ValuesInLast24h(ctx, metric.Price, outer)
	require.NoError(t, err)
	assert.Empty(t, outerPoints)

	rank, err := store.SymbolRankByStandardDeviation(ctx, metric.Price, inner)
	require.NoError(t, err)
	assert.Equal(t, metric.Rank{Rank: 1, Total: 1}, rank)

	_, err = store.SymbolRankByStandardDeviation(ctx, metric.Price, outer)
	assert.ErrorIs(t, err, repo.ErrNoDataInWindow)
}
