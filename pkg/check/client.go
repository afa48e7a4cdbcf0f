// Package check asks the remote leaderboard authority whether a result
// record is publishable. The authority is the sole source of truth for
// cross-submission comparison; the client keeps no verdict cache and
// performs no retries, so every call is one fresh request/response
// exchange.
package check

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ogulcanaydogan/benchmark-result-client/pkg/result"
)

const checkPath = "/api/v1/results/check"

// Responses larger than this are cut off; a sane authority answer is tiny.
const maxResponseBytes = 1 << 20

// checkRequest is the wire payload sent to the authority. Field names are
// part of the contract and must not change.
type checkRequest struct {
	SubmissionID string             `json:"submission_id"`
	ConfigKey    string             `json:"config_key"`
	Model        *string            `json:"model,omitempty"`
	Dataset      *string            `json:"dataset,omitempty"`
	Task         *string            `json:"task,omitempty"`
	ArxivID      *string            `json:"arxiv_id,omitempty"`
	Results      map[string]float64 `json:"results"`
}

type checkResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Client talks to one remote authority.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey attaches a bearer token to every check request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client. Timeouts belong
// there or on the per-call context.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a client for the authority at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check submits the record's identifying keys and metrics and interprets
// the authority's answer. Anything other than a 2xx response carrying a
// recognized status is a transport failure, never a silent success.
func (c *Client) Check(ctx context.Context, rec *result.Record) Verdict {
	submissionID := "sub-" + uuid.NewString()

	payload := checkRequest{
		SubmissionID: submissionID,
		ConfigKey:    rec.ConfigKey(),
		Results:      rec.Metrics().Map(),
	}
	if v, ok := rec.Model(); ok {
		payload.Model = &v
	}
	if v, ok := rec.Dataset(); ok {
		payload.Dataset = &v
	}
	if v, ok := rec.Task(); ok {
		payload.Task = &v
	}
	if v, ok := rec.ArxivID(); ok {
		payload.ArxivID = &v
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return transportFailure(submissionID, fmt.Errorf("marshal check request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+checkPath, bytes.NewReader(body))
	if err != nil {
		return transportFailure(submissionID, fmt.Errorf("build check request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", submissionID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportFailure(submissionID, fmt.Errorf("reach authority: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportFailure(submissionID, fmt.Errorf("read authority response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return transportFailure(submissionID, fmt.Errorf("authority returned HTTP %d", resp.StatusCode))
	}

	var parsed checkResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return transportFailure(submissionID, fmt.Errorf("parse authority response: %w", err))
	}
	switch Status(parsed.Status) {
	case StatusAccepted, StatusDuplicate:
		return Verdict{Status: Status(parsed.Status), SubmissionID: submissionID}
	case StatusRejected:
		return Verdict{Status: StatusRejected, Reason: parsed.Reason, SubmissionID: submissionID}
	default:
		return transportFailure(submissionID, fmt.Errorf("authority returned unrecognized status %q", parsed.Status))
	}
}

func transportFailure(submissionID string, err error) Verdict {
	return Verdict{Status: StatusTransportFailure, Reason: err.Error(), SubmissionID: submissionID}
}
