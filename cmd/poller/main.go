package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeromicro/go-zero/core/logx"

	"marketstats-api/internal/cli"
	"marketstats-api/internal/config"
	"marketstats-api/internal/poller"
	"marketstats-api/internal/svc"
)

var (
	configFile = flag.String("f", "etc/marketstats.yaml", "the config file")
	devPort    = flag.Int("devport", 6471, "DevServer port serving /metrics for the poller")
)

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)
	cfg.DevServer.Port = *devPort
	// Sets up logx and the DevServer that exposes /metrics.
	cfg.MustSetUp()
	defer logx.Close()

	cli.LogConfigSummary(cfg)

	svcCtx := svc.NewPollerContext(*cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := poller.New(svcCtx.Fetcher, cfg.PollerConfig())
	if err := p.Run(ctx); err != nil {
		logx.Errorf("poller stopped: %v", err)
	}
	logx.Info("poller: shutdown complete")
}
