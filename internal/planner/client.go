// Package planner is the HTTP client of the external routing collaborator.
// The collaborator computes journeys; this module only consumes its answer.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"railviz/internal/journey"
)

var (
	// ErrNoRoute means the collaborator found no journey between the stops.
	ErrNoRoute = errors.New("no route found")
	// ErrBadRequest means the collaborator rejected the query parameters.
	ErrBadRequest = errors.New("bad planning request")
)

const maxAttempts = 3

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// plannerResponse is the collaborator's envelope. Error carries the message
// for non-2xx answers.
type plannerResponse struct {
	journey.PlanningResult
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Plan asks the collaborator for a journey from one stop to another leaving
// at the given wall-clock time. 502/503/504 answers are treated as transient
// and retried with constant backoff before the error is surfaced. A 2xx
// answer with a malformed or unsuccessful body degrades to an empty route
// rather than an error; the caller renders nothing instead of failing.
func (c *Client) Plan(ctx context.Context, from, to, at string) (*journey.PlanningResult, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	q.Set("time", at)
	endpoint := fmt.Sprintf("%s/api/route?%s", c.baseURL, q.Encode())

	var result *journey.PlanningResult
	operation := func() error {
		var err error
		result, err = c.planOnce(ctx, endpoint)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), maxAttempts-1),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) planOnce(ctx context.Context, endpoint string) (*journey.PlanningResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("planner request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("read planner response: %w", err))
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var pr plannerResponse
		if err := json.Unmarshal(body, &pr); err != nil || !pr.Success {
			log.Warn().Err(err).Msg("malformed planner answer, treating route as empty")
			return &journey.PlanningResult{}, nil
		}
		return &pr.PlanningResult, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrNoRoute, upstreamError(body)))
	case resp.StatusCode == http.StatusBadRequest:
		return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrBadRequest, upstreamError(body)))
	case resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		// transient upstream trouble, worth another attempt
		return nil, fmt.Errorf("planner unavailable: status %d", resp.StatusCode)
	default:
		return nil, backoff.Permanent(fmt.Errorf("planner answered status %d", resp.StatusCode))
	}
}

func upstreamError(body []byte) string {
	var pr plannerResponse
	if err := json.Unmarshal(body, &pr); err == nil && pr.Error != "" {
		return pr.Error
	}
	return "no detail from planner"
}
