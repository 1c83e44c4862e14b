package feed

import (
	"encoding/json"
	"strings"
)

// Pair is one entry of the upstream pairs listing.
type Pair struct {
	Symbol string   `json:"symbol"`
	Base   AssetRef `json:"base"`
	Quote  AssetRef `json:"quote"`
}

// AssetRef names the base or quote asset of a pair.
type AssetRef struct {
	Symbol string `json:"symbol"`
}

type pairsResponse struct {
	Result []Pair `json:"result"`
}

// MarketSummary carries the 24h fields of one market. The numeric fields stay
// raw so that a single malformed market does not fail the whole response.
type MarketSummary struct {
	Price       PriceSummary    `json:"price"`
	Volume      json.RawMessage `json:"volume"`
	VolumeQuote json.RawMessage `json:"volumeQuote"`
}

// PriceSummary holds the price block of a market summary.
type PriceSummary struct {
	Last json.RawMessage `json:"last"`
}

// Allowance reports API credit usage returned alongside responses.
type Allowance struct {
	Cost          float64 `json:"cost"`
	Remaining     float64 `json:"remaining"`
	RemainingPaid float64 `json:"remainingPaid"`
	Upgrade       string  `json:"upgrade"`
}

// SummariesResponse is the decoded markets/summaries payload.
type SummariesResponse struct {
	Result    map[string]MarketSummary `json:"result"`
	Allowance *Allowance               `json:"allowance"`
}

// SplitMarketID splits "exchange:pair" into its parts.
func SplitMarketID(id string) (exchange, pair string, ok bool) {
	exchange, pair, found := strings.Cut(id, ":")
	if !found || exchange == "" || pair == "" || strings.Contains(pair, ":") {
		return "", "", false
	}
	return exchange, pair, true
}
