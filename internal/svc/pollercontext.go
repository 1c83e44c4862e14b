package svc

import (
	"github.com/prometheus/client_golang/prometheus"

	"marketstats-api/internal/config"
	"marketstats-api/internal/monitoring"
	"marketstats-api/pkg/feed"
	"marketstats-api/pkg/fetcher"
)

// PollerContext adds the ingestion side on top of the shared storage.
// Only the poller binary builds one.
type PollerContext struct {
	*ServiceContext

	Metrics    *monitoring.Metrics
	FeedClient *feed.Client
	Fetcher    *fetcher.Fetcher
}

func NewPollerContext(c config.Config) *PollerContext {
	return newPollerContext(NewServiceContext(c), prometheus.DefaultRegisterer)
}

func newPollerContext(base *ServiceContext, reg prometheus.Registerer) *PollerContext {
	metrics := monitoring.New(reg)
	feedOpts := append(base.Config.FeedConfig().ClientOptions(), feed.WithObserver(metrics))
	client := feed.NewClient(feedOpts...)

	return &PollerContext{
		ServiceContext: base,
		Metrics:        metrics,
		FeedClient:     client,
		Fetcher:        fetcher.New(client, base.Repos.Metrics, fetcher.WithObserver(metrics)),
	}
}
