package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"marketstats-api/internal/svc"
	"marketstats-api/internal/types"
	"marketstats-api/pkg/metric"
)

type MetricTypeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewMetricTypeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MetricTypeLogic {
	return &MetricTypeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// ListMetricTypes returns the fixed set of supported types.
func (l *MetricTypeLogic) ListMetricTypes() (*types.MetricTypesResponse, error) {
	known := metric.Types()
	resp := &types.MetricTypesResponse{MetricTypes: make([]types.MetricTypeResponse, 0, len(known))}
	for _, t := range known {
		resp.MetricTypes = append(resp.MetricTypes, types.MetricTypeResponse{MetricType: t.String()})
	}
	return resp, nil
}

func (l *MetricTypeLogic) GetMetricType(req *types.MetricTypeRequest) (*types.MetricTypeResponse, error) {
	t, err := resolveMetricType(req.MetricType)
	if err != nil {
		return nil, err
	}
	return &types.MetricTypeResponse{MetricType: t.String()}, nil
}

// ListMetrics returns every symbol recorded for the type.
func (l *MetricTypeLogic) ListMetrics(req *types.MetricTypeRequest) (*types.MetricsResponse, error) {
	t, err := resolveMetricType(req.MetricType)
	if err != nil {
		return nil, err
	}
	symbols, err := l.svcCtx.Repos.Metrics.SymbolsForMetricType(l.ctx, t)
	if err != nil {
		return nil, err
	}
	resp := &types.MetricsResponse{Metrics: make([]types.MetricResponse, 0, len(symbols))}
	for _, symbol := range symbols {
		resp.Metrics = append(resp.Metrics, types.MetricResponse{MetricType: t.String(), Symbol: symbol})
	}
	return resp, nil
}
