package svc

import (
	"log"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"marketstats-api/internal/config"
	"marketstats-api/internal/model"
	"marketstats-api/internal/repo"
)

// ServiceContext holds the storage shared by the API server and the poller.
type ServiceContext struct {
	Config config.Config

	DBConn             sqlx.SqlConn
	MetricHistoryModel model.MetricHistoryModel
	Repos              *repo.Set
}

func NewServiceContext(c config.Config) *ServiceContext {
	conn := sqlx.NewSqlConn("pgx", c.Postgres.DSN)
	if raw, err := conn.RawDB(); err == nil {
		raw.SetMaxOpenConns(c.Postgres.MaxOpen)
		raw.SetMaxIdleConns(c.Postgres.MaxIdle)
		raw.SetConnMaxLifetime(c.Postgres.MaxLifetime)
	}
	return newServiceContext(c, conn)
}

func newServiceContext(c config.Config, conn sqlx.SqlConn) *ServiceContext {
	historyModel := model.NewMetricHistoryModel(conn)
	repos, err := repo.New(repo.Dependencies{
		DBConn:             conn,
		MetricHistoryModel: historyModel,
	})
	if err != nil {
		log.Fatalf("failed to build repositories: %v", err)
	}

	return &ServiceContext{
		Config:             c,
		DBConn:             conn,
		MetricHistoryModel: historyModel,
		Repos:              repos,
	}
}
