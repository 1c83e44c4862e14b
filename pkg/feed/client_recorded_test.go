package feed

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/dnaeon/go-vcr/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Replays testdata/cassettes/summaries.yaml. Delete the cassette and set
// RECORD_CASSETTES=1 to record a fresh one against the live API.
func TestClientSummariesRecorded(t *testing.T) {
	cassette := filepath.Join("testdata", "cassettes", "summaries")
	if _, err := os.Stat(cassette + ".yaml"); os.IsNotExist(err) {
		if os.Getenv("RECORD_CASSETTES") != "1" {
			t.Skipf("cassette missing; set RECORD_CASSETTES=1 to record: %s.yaml", cassette)
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(cassette), 0o755))
	}

	r, err := recorder.New(cassette)
	require.NoError(t, err)
	defer func() { _ = r.Stop() }()

	client := NewClient(WithHTTPClient(&http.Client{Transport: r}), WithMaxRetries(0))
	resp, err := client.Summaries(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, resp.Result)
	for id, summary := range resp.Result {
		_, _, ok := SplitMarketID(id)
		assert.True(t, ok, "market id %q", id)
		_, err := ParseNumber(summary.Price.Last)
		assert.NoError(t, err, "price.last of %q", id)
	}
	require.NotNil(t, resp.Allowance)
	assert.Positive(t, resp.Allowance.Remaining)
}

func TestClientSummariesCassetteValues(t *testing.T) {
	r, err := recorder.NewAsMode(filepath.Join("testdata", "cassettes", "summaries"), recorder.ModeReplaying, nil)
	require.NoError(t, err)
	defer func() { _ = r.Stop() }()

	client := NewClient(WithHTTPClient(&http.Client{Transport: r}), WithMaxRetries(0))
	resp, err := client.Summaries(context.Background())
	require.NoError(t, err)

	require.Contains(t, resp.Result, "kraken:btcusd")
	last, err := ParseNumber(resp.Result["kraken:btcusd"].Price.Last)
	require.NoError(t, err)
	assert.Equal(t, "56789.1", last.String())

	require.Contains(t, resp.Result, "binance:shibbtc")
	tiny, err := ParseNumber(resp.Result["binance:shibbtc"].Price.Last)
	require.NoError(t, err)
	f, _ := tiny.Float64()
	assert.Equal(t, 8.123456789e-9, f)

	assert.InDelta(t, 0.015, resp.Allowance.Cost, 1e-12)
}
