package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq" // register postgres driver
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"marketstats-api/internal/config"
	"marketstats-api/internal/model"
)

var configFile = flag.String("f", "etc/marketstats.yaml", "the config file")

// Applies the metric_history schema to the configured database.
func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn := sqlx.NewSqlConn("postgres", cfg.Postgres.DSN)
	if _, err := conn.ExecCtx(ctx, model.Schema); err != nil {
		fmt.Fprintf(os.Stderr, "apply schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("metric_history schema applied")
}
