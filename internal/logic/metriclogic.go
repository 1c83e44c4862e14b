package logic

import (
	"context"
	"errors"

	"github.com/zeromicro/go-zero/core/logx"

	"marketstats-api/internal/repo"
	"marketstats-api/internal/svc"
	"marketstats-api/internal/types"
)

// HistoryTimeLayout is fixed width so lexical and chronological order agree.
const HistoryTimeLayout = "2006-01-02T15:04:05.000000Z"

type MetricLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewMetricLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MetricLogic {
	return &MetricLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *MetricLogic) GetMetric(req *types.MetricRequest) (*types.MetricResponse, error) {
	t, err := resolveMetric(l.ctx, l.svcCtx.Repos.Metrics, req.MetricType, req.Symbol)
	if err != nil {
		return nil, err
	}
	return &types.MetricResponse{MetricType: t.String(), Symbol: req.Symbol}, nil
}

// History returns the trailing 24h of one series keyed by timestamp.
func (l *MetricLogic) History(req *types.MetricRequest) (types.HistoryResponse, error) {
	store := l.svcCtx.Repos.Metrics
	t, err := resolveMetric(l.ctx, store, req.MetricType, req.Symbol)
	if err != nil {
		return nil, err
	}
	points, err := store.ValuesInLast24h(l.ctx, t, req.Symbol)
	if err != nil {
		return nil, err
	}
	resp := make(types.HistoryResponse, len(points))
	for _, p := range points {
		resp[p.Timestamp.UTC().Format(HistoryTimeLayout)] = p.Value
	}
	return resp, nil
}

// Rank places the symbol among all symbols of its type by 24h volatility.
func (l *MetricLogic) Rank(req *types.MetricRequest) (*types.RankResponse, error) {
	store := l.svcCtx.Repos.Metrics
	t, err := resolveMetric(l.ctx, store, req.MetricType, req.Symbol)
	if err != nil {
		return nil, err
	}
	rank, err := store.SymbolRankByStandardDeviation(l.ctx, t, req.Symbol)
	if errors.Is(err, repo.ErrNoDataInWindow) {
		return nil, noDataInWindow(t, req.Symbol)
	}
	if err != nil {
		return nil, err
	}
	return &types.RankResponse{
		MetricType: t.String(),
		Symbol:     req.Symbol,
		Rank:       rank.Rank,
		Total:      rank.Total,
	}, nil
}
