// Package gateway fetches resources from the trading agent's HTTP API.
// Every failure is collapsed into absence: callers receive ok=false and
// never an error. A resource is present when the agent answered 2xx with
// valid JSON; interpreting the payload is left to the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"tradeforge-dashboard/internal/common"
	"tradeforge-dashboard/internal/metrics"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

var nullBody = []byte("null")

type Client struct {
	base     string
	rest     *resty.Client
	recorder metrics.FetchRecorder
}

func NewREST(base string, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(common.DefaultRESTTimeout)
	}
	r.SetHeader("Accept", "application/json")
	return &Client{base: base, rest: r, recorder: metrics.Nop{}}
}

// SetMetrics attaches a recorder for fetch outcomes and latency.
func (c *Client) SetMetrics(recorder metrics.FetchRecorder) {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	c.recorder = recorder
}

// FetchResource performs GET base+endpoint and returns the JSON payload.
// Network errors, non-2xx statuses and bodies that are not JSON (or are the
// literal null) all yield ok=false.
func (c *Client) FetchResource(ctx context.Context, endpoint string) (json.RawMessage, bool) {
	start := time.Now()
	payload, ok := c.fetch(ctx, endpoint)
	c.recorder.ObserveFetch(resourceName(endpoint), ok, time.Since(start).Seconds())
	return payload, ok
}

func (c *Client) fetch(ctx context.Context, endpoint string) (json.RawMessage, bool) {
	resp, err := c.rest.R().
		SetContext(ctx).
		Get(c.base + endpoint)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", endpoint).Msg("Agent request failed")
		return nil, false
	}

	if !resp.IsSuccess() {
		log.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode()).
			Msg("Agent returned non-success status")
		return nil, false
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || bytes.Equal(body, nullBody) || !json.Valid(body) {
		log.Warn().
			Str("endpoint", endpoint).
			Int("bytes", len(body)).
			Msg("Agent returned malformed body")
		return nil, false
	}

	return json.RawMessage(body), true
}

func resourceName(endpoint string) string {
	if name, ok := common.ResourceByEndpoint[endpoint]; ok {
		return name
	}
	return "other"
}
