package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"marketstats-api/internal/svc"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/",
				Handler: PingHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/metric_types",
				Handler: ListMetricTypesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/metric_types/:type",
				Handler: GetMetricTypeHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/metric_types/:type/metrics",
				Handler: ListMetricsHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/metric_types/:type/metrics/:symbol",
				Handler: GetMetricHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/metric_types/:type/metrics/:symbol/history",
				Handler: MetricHistoryHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/metric_types/:type/metrics/:symbol/rank",
				Handler: MetricRankHandler(serverCtx),
			},
		},
	)
}
