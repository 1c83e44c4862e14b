package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"marketstats-api/internal/config"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
// Secrets (DSN credentials, API keys) are never printed.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	feedCfg := cfg.FeedConfig()
	feedSource := "defaults"
	if strings.TrimSpace(cfg.Feed.File) != "" {
		feedSource = cfg.Feed.File
	}

	return []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Listen: %s:%d", cfg.Host, cfg.Port),
		fmt.Sprintf("Postgres: %s (pool %d/%d)", redactDSN(cfg.Postgres.DSN), cfg.Postgres.MaxOpen, cfg.Postgres.MaxIdle),
		fmt.Sprintf("Poller (interval/tick/timeout): %s / %s / %s", cfg.Poller.Interval, cfg.Poller.Tick, cfg.Poller.CycleTimeout),
		fmt.Sprintf("Feed config: %s", feedSource),
		fmt.Sprintf("Feed endpoint: %s (api key %s)", feedCfg.BaseURL, presence(feedCfg.APIKey != "")),
	}
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

// redactDSN keeps host and database of a URL-style DSN and drops credentials.
func redactDSN(dsn string) string {
	if strings.TrimSpace(dsn) == "" {
		return "not configured"
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return "configured"
	}
	return fmt.Sprintf("%s%s", u.Host, u.Path)
}
