package repo

import (
	"errors"
	"time"

	"github.com/zeromicro/go-zero/core/stores/sqlx"

	"marketstats-api/internal/model"
)

// Dependencies bundles the models and shared infrastructure required by
// repository implementations.
type Dependencies struct {
	DBConn             sqlx.SqlConn
	MetricHistoryModel model.MetricHistoryModel

	// Now anchors the 24h window. Defaults to time.Now.
	Now func() time.Time
}

// Set exposes strongly typed repositories to application logic.
type Set struct {
	Metrics MetricsRepo
}

// New constructs the repository set, validating required dependencies.
func New(deps Dependencies) (*Set, error) {
	if deps.DBConn == nil && deps.MetricHistoryModel == nil {
		return nil, errors.New("repo: missing DBConn dependency")
	}
	if deps.MetricHistoryModel == nil {
		deps.MetricHistoryModel = model.NewMetricHistoryModel(deps.DBConn)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Set{
		Metrics: newMetricsRepo(deps),
	}, nil
}
