// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package dutyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dutymate/dutymate-v2-sub000/lib/netutil"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
	"github.com/dutymate/dutymate-v2-sub000/lib/rostersync"
	"github.com/dutymate/dutymate-v2-sub000/lib/version"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.dutymate.net/api"

// IdempotencyHeader carries the batch ID on PUT /duty so the backend
// can recognize a resubmitted batch.
const IdempotencyHeader = "Idempotency-Key"

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the API root including the /api prefix. Defaults to
	// DefaultBaseURL. Plain http is accepted only for loopback hosts.
	BaseURL string

	// Token is the bearer token of the logged-in administrator.
	Token string

	// HTTPClient defaults to http.DefaultClient. Timeouts belong here.
	HTTPClient *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client talks to the duty API for one ward administrator.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates config and returns a client.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("dutyclient: invalid base URL %q: %w", baseURL, err)
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !isLoopback(parsed.Hostname()) {
			return nil, fmt.Errorf("dutyclient: base URL %q must use https", baseURL)
		}
	default:
		return nil, fmt.Errorf("dutyclient: base URL %q must use https", baseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		token:      config.Token,
		userAgent:  "dutyroster/" + version.Short(),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	header http.Header
}

// do executes an authenticated request and returns the response body.
// Non-2xx responses become *APIError; transport failures become
// *TransportError.
func (client *Client) do(ctx context.Context, call request) ([]byte, error) {
	target := client.baseURL + call.path
	if len(call.query) > 0 {
		target += "?" + call.query.Encode()
	}

	var bodyReader io.Reader
	if call.body != nil {
		encoded, err := json.Marshal(call.body)
		if err != nil {
			return nil, fmt.Errorf("dutyclient: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, call.method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("dutyclient: creating request: %w", err)
	}
	for key, values := range call.header {
		for _, value := range values {
			httpRequest.Header.Add(key, value)
		}
	}
	httpRequest.Header.Set("Accept", "application/json")
	httpRequest.Header.Set("User-Agent", client.userAgent)
	if call.body != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	if client.token != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+client.token)
	}

	response, err := client.httpClient.Do(httpRequest)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransportError{Method: call.method, Path: call.path, Err: err}
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, &TransportError{Method: call.method, Path: call.path, Err: fmt.Errorf("reading response body: %w", err)}
	}
	client.logger.Debug("duty api call",
		"method", call.method,
		"path", call.path,
		"status", response.StatusCode,
		"bytes", len(body),
	)
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, newAPIError(call.method, call.path, response.StatusCode, body)
	}
	return body, nil
}

// get executes a GET and decodes the JSON response into result.
func (client *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	body, err := client.do(ctx, request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return err
	}
	if err := netutil.DecodeResponse(bytes.NewReader(body), result); err != nil {
		return fmt.Errorf("dutyclient: GET %s: %w", path, err)
	}
	return nil
}

func periodQuery(period roster.Period) url.Values {
	return url.Values{
		"year":  {strconv.Itoa(period.Year)},
		"month": {strconv.Itoa(int(period.Month))},
	}
}

// FetchPeriod returns the roster of period. A non-nil revision asks for
// the state after that history entry; the backend rewinds the period
// to it.
func (client *Client) FetchPeriod(ctx context.Context, period roster.Period, revision *int) (roster.Snapshot, error) {
	query := periodQuery(period)
	if revision != nil {
		query.Set("history", strconv.Itoa(*revision))
	}
	var info dutyInfo
	if err := client.get(ctx, "/duty", query, &info); err != nil {
		return roster.Snapshot{}, err
	}
	return info.snapshot(period)
}

// FetchRules returns the ward's staffing rule set.
func (client *Client) FetchRules(ctx context.Context) (roster.Rules, error) {
	var rule wardRule
	if err := client.get(ctx, "/ward/rule", nil, &rule); err != nil {
		return roster.Rules{}, err
	}
	return rule.rules(), nil
}

// FetchRequests returns every shift request of the ward. Requests
// with undecodable fields are skipped and logged.
func (client *Client) FetchRequests(ctx context.Context) ([]roster.DatedRequest, error) {
	var wire []wardRequest
	if err := client.get(ctx, "/ward/request", nil, &wire); err != nil {
		return nil, err
	}
	requests := make([]roster.DatedRequest, 0, len(wire))
	for _, entry := range wire {
		dated, err := entry.dated()
		if err != nil {
			client.logger.Warn("skipping malformed shift request", "request", entry.RequestID, "error", err)
			continue
		}
		requests = append(requests, dated)
	}
	return requests, nil
}

// SubmitBatch sends the batch edits in order as one PUT.
func (client *Client) SubmitBatch(ctx context.Context, batch rostersync.Batch) error {
	if len(batch.Edits) == 0 {
		return nil
	}
	header := http.Header{}
	if batch.ID != "" {
		header.Set(IdempotencyHeader, batch.ID)
	}
	_, err := client.do(ctx, request{
		method: http.MethodPut,
		path:   "/duty",
		body:   updatesFor(batch),
		header: header,
	})
	return err
}

// ResetPeriod clears every assignment and the edit history of period.
func (client *Client) ResetPeriod(ctx context.Context, period roster.Period) error {
	_, err := client.do(ctx, request{method: http.MethodPost, path: "/duty/reset", query: periodQuery(period)})
	return err
}

// AutoGenerate asks the backend to build the roster of period. With
// force set, generation proceeds even when the ward is short-staffed.
func (client *Client) AutoGenerate(ctx context.Context, period roster.Period, force bool) (roster.AutoGenerateOutcome, error) {
	query := periodQuery(period)
	if force {
		query.Set("force", "true")
	}
	_, err := client.do(ctx, request{method: http.MethodGet, path: "/duty/auto-create", query: query})
	if err == nil {
		return roster.AutoGenerateOutcome{Kind: roster.OutcomeGenerated}, nil
	}

	var apiError *APIError
	if !errors.As(err, &apiError) {
		return roster.AutoGenerateOutcome{}, err
	}
	switch apiError.StatusCode {
	case http.StatusNotAcceptable:
		var needed neededNurses
		if decodeErr := json.Unmarshal(apiError.body, &needed); decodeErr != nil {
			return roster.AutoGenerateOutcome{}, fmt.Errorf("dutyclient: decoding insufficient-staff body: %w", decodeErr)
		}
		return roster.AutoGenerateOutcome{Kind: roster.OutcomeInsufficientStaff, NeededNurses: needed.NeededNurseCount}, nil
	case http.StatusMethodNotAllowed:
		return roster.AutoGenerateOutcome{Kind: roster.OutcomeAlreadyOptimal}, nil
	}
	return roster.AutoGenerateOutcome{}, err
}
