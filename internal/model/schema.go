package model

import _ "embed"

// Schema creates metric_history and its read indexes. It is idempotent.
//
//go:embed sql/metric_history.sql
var Schema string
