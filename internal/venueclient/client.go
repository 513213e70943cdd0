// Package venueclient implements the upstream venue's REST surface: fetching
// instrument metadata and fee-tier snapshots that feed the instrument cache
// (internal/soldier/venue) and fee-staleness classifier
// (internal/soldier/risk). RESTClient talks to the live venue over HTTP and
// is what cmd/soldier wires; the supervisor depends only on the Fetcher
// interface, and StaticFetcher is an in-memory double for tests.
package venueclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Fetcher is the minimal capability the supervisor's venue-metadata poll
// loop depends on. RESTClient satisfies it against a live venue; StaticFetcher
// satisfies it in tests.
type Fetcher interface {
	FetchInstrument(ctx context.Context, instrumentID string) (InstrumentSnapshot, error)
	FetchFeeRate(ctx context.Context, instrumentID string) (FeeSnapshot, error)
}

// Config bundles the venue REST endpoint the client talks to.
type Config struct {
	BaseURL string
}

// RESTClient is the venue REST API client. It wraps a resty HTTP client with
// rate limiting and retry, targeted at instrument-metadata/fee-rate reads;
// this core never dispatches orders itself.
type RESTClient struct {
	http   *resty.Client
	rl     *RateLimiter
	logger *slog.Logger
}

// NewRESTClient creates a REST client with rate limiting and retry.
func NewRESTClient(cfg Config, logger *slog.Logger) *RESTClient {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json")

	return &RESTClient{http: httpClient, rl: NewRateLimiter(), logger: logger}
}

// FetchInstrument fetches and converts one instrument's metadata.
func (c *RESTClient) FetchInstrument(ctx context.Context, instrumentID string) (InstrumentSnapshot, error) {
	if err := c.rl.InstrumentMeta.Wait(ctx); err != nil {
		return InstrumentSnapshot{}, err
	}

	var result InstrumentMetaResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("instrument_name", instrumentID).
		SetResult(&result).
		Get("/public/get_instrument")
	if err != nil {
		return InstrumentSnapshot{}, fmt.Errorf("fetch instrument %s: %w", instrumentID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return InstrumentSnapshot{}, fmt.Errorf("fetch instrument %s: status %d: %s", instrumentID, resp.StatusCode(), resp.String())
	}
	return result.toSnapshot(), nil
}

// FetchFeeRate fetches and converts the account's current fee tier for one
// instrument.
func (c *RESTClient) FetchFeeRate(ctx context.Context, instrumentID string) (FeeSnapshot, error) {
	if err := c.rl.FeeRate.Wait(ctx); err != nil {
		return FeeSnapshot{}, err
	}

	var result FeeRateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("instrument_name", instrumentID).
		SetResult(&result).
		Get("/private/get_account_summary")
	if err != nil {
		return FeeSnapshot{}, fmt.Errorf("fetch fee rate %s: %w", instrumentID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return FeeSnapshot{}, fmt.Errorf("fetch fee rate %s: status %d: %s", instrumentID, resp.StatusCode(), resp.String())
	}
	return result.toSnapshot(), nil
}

// StaticFetcher is an in-memory Fetcher double: it serves whatever snapshots
// were registered with Set, or an error for an unregistered instrument.
// cmd/soldier never wires it; it is the only Fetcher exercised by this
// package's tests.
type StaticFetcher struct {
	instruments map[string]InstrumentSnapshot
	fees        map[string]FeeSnapshot
}

// NewStaticFetcher creates an empty StaticFetcher.
func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{
		instruments: make(map[string]InstrumentSnapshot),
		fees:        make(map[string]FeeSnapshot),
	}
}

// SetInstrument registers the snapshot returned for instrumentID.
func (f *StaticFetcher) SetInstrument(instrumentID string, snap InstrumentSnapshot) {
	f.instruments[instrumentID] = snap
}

// SetFeeRate registers the fee snapshot returned for instrumentID.
func (f *StaticFetcher) SetFeeRate(instrumentID string, snap FeeSnapshot) {
	f.fees[instrumentID] = snap
}

func (f *StaticFetcher) FetchInstrument(_ context.Context, instrumentID string) (InstrumentSnapshot, error) {
	snap, ok := f.instruments[instrumentID]
	if !ok {
		return InstrumentSnapshot{}, fmt.Errorf("unknown instrument %s", instrumentID)
	}
	return snap, nil
}

func (f *StaticFetcher) FetchFeeRate(_ context.Context, instrumentID string) (FeeSnapshot, error) {
	snap, ok := f.fees[instrumentID]
	if !ok {
		return FeeSnapshot{}, fmt.Errorf("unknown instrument %s", instrumentID)
	}
	return snap, nil
}
