package metric

import "time"

// Type identifies the kind of value recorded in metric_history.
type Type string

const (
	Price  Type = "price"
	Volume Type = "volume"
)

var knownTypes = []Type{Price, Volume}

// Types returns the supported metric types in a stable order.
func Types() []Type {
	out := make([]Type, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// ParseType matches raw against the supported metric types.
// Matching is exact; "Price" is not a known type.
func ParseType(raw string) (Type, bool) {
	for _, t := range knownTypes {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}

func (t Type) String() string { return string(t) }

// Row is one append-only metric_history record.
type Row struct {
	Type      Type
	Symbol    string
	Value     float64
	Timestamp time.Time
}

// Point is a single (timestamp, value) sample of one series.
type Point struct {
	Timestamp time.Time
	Value     float64
}

// Rank reports where a symbol sits among all symbols of a metric type.
type Rank struct {
	Rank  int
	Total int
}
