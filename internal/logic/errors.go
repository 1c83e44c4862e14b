package logic

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"marketstats-api/internal/repo"
	"marketstats-api/pkg/metric"
)

// ErrNotFound matches every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError carries the message returned to the client with a 404.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func metricTypeNotFound(raw string) error {
	return &NotFoundError{Message: fmt.Sprintf("Metric type %q does not exist", raw)}
}

func metricNotFound(t metric.Type, symbol string) error {
	return &NotFoundError{Message: fmt.Sprintf("Metric of type %q for symbol %q does not exist", string(t), symbol)}
}

func noDataInWindow(t metric.Type, symbol string) error {
	return &NotFoundError{Message: fmt.Sprintf("Metric of type %q for symbol %q has no values in the last 24 hours", string(t), symbol)}
}

// resolveMetricType never touches the store.
func resolveMetricType(raw string) (metric.Type, error) {
	t, ok := metric.ParseType(raw)
	if !ok {
		return "", metricTypeNotFound(raw)
	}
	return t, nil
}

// resolveMetric validates the type first, then checks that symbol has ever
// been recorded for it.
func resolveMetric(ctx context.Context, store repo.MetricsRepo, rawType, symbol string) (metric.Type, error) {
	t, err := resolveMetricType(rawType)
	if err != nil {
		return "", err
	}
	symbols, err := store.SymbolsForMetricType(ctx, t)
	if err != nil {
		return "", fmt.Errorf("list symbols of %s: %w", t, err)
	}
	if !slices.Contains(symbols, symbol) {
		return "", metricNotFound(t, symbol)
	}
	return t, nil
}
