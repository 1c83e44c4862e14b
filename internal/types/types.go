package types

type ErrorResponse struct {
	Message string `json:"message"`
}

type PingResponse struct {
	Status string `json:"status"`
}

type MetricTypeRequest struct {
	MetricType string `path:"type"`
}

type MetricTypeResponse struct {
	MetricType string `json:"metric_type"`
}

type MetricTypesResponse struct {
	MetricTypes []MetricTypeResponse `json:"metric_types"`
}

type MetricRequest struct {
	MetricType string `path:"type"`
	Symbol     string `path:"symbol"`
}

type MetricResponse struct {
	MetricType string `json:"metric_type"`
	Symbol     string `json:"symbol"`
}

type MetricsResponse struct {
	Metrics []MetricResponse `json:"metrics"`
}

// HistoryResponse maps fixed-width UTC timestamps to values, so the sorted
// JSON keys are also chronological.
type HistoryResponse map[string]float64

type RankResponse struct {
	MetricType string `json:"metric_type"`
	Symbol     string `json:"symbol"`
	Rank       int    `json:"rank"`
	Total      int    `json:"total"`
}
