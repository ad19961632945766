// Package api is a client for the mgen REST collections under /api.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/mark3labs/mgen/internal/logger"
)

// Options configures a Client.
type Options struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	RetryMax int
}

// Client talks to an mgen server.
type Client struct {
	base  *url.URL
	token string
	http  *retryablehttp.Client
}

// NewClient builds a client. BaseURL must be an absolute URL.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api url %q is not absolute", opts.BaseURL)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = logger.NewLeveled(nil)
	if opts.Timeout > 0 {
		rc.HTTPClient.Timeout = opts.Timeout
	}
	// Hand the last response to the caller so the server's error document can
	// be decoded instead of a generic "giving up" error.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.CheckRetry = checkRetry

	return &Client{base: base, token: opts.Token, http: rc}, nil
}

type noRetryKey struct{}

// checkRetry applies the default policy except to requests marked with
// noRetryKey. Creates are not idempotent: every POST mints a new record id.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Value(noRetryKey{}) != nil {
		return false, ctx.Err()
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// Query starts a query against collection.
func (c *Client) Query(collection string) *Query {
	return &Query{client: c, collection: collection}
}

// Get fetches a single record by id into out.
func (c *Client) Get(ctx context.Context, collection, id string, out interface{}) error {
	res, err := c.do(ctx, http.MethodGet, collection, c.endpoint(collection, id, nil), nil)
	if err != nil {
		return err
	}
	return res.First(out)
}

// Create posts payload as a new record of collection. The server answers with
// the created record as a one element collection.
func (c *Client) Create(ctx context.Context, collection string, payload interface{}) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", collection, err)
	}
	return c.do(ctx, http.MethodPost, collection, c.endpoint(collection, "", nil), body)
}

func (c *Client) endpoint(collection, id string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/api/" + url.PathEscape(collection)
	if id != "" {
		u.Path += "/" + url.PathEscape(id)
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, collection, endpoint string, body []byte) (*Result, error) {
	var rawBody interface{}
	if body != nil {
		rawBody = body
	}
	if method != http.MethodGet {
		ctx = context.WithValue(ctx, noRetryKey{}, true)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, rawBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger.Debug("api: %s %s", method, endpoint)
	resp, err := c.http.Do(req)
	if resp == nil {
		return nil, fmt.Errorf("%s %s: %w", method, collection, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", collection, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		apiErr := parseError(resp.StatusCode, data)
		logger.Warn("api: %s %s failed: %v", method, endpoint, apiErr)
		return nil, apiErr
	}

	return decodeResult(collection, data)
}

// Result is one page of a collection.
type Result struct {
	Total   int
	Page    int
	Start   int
	Limit   int
	Records []json.RawMessage
}

func decodeResult(collection string, data []byte) (*Result, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", collection, err)
	}

	res := &Result{}
	for key, dst := range map[string]*int{"total": &res.Total, "page": &res.Page, "start": &res.Start, "limit": &res.Limit} {
		raw, ok := doc[key]
		if !ok || string(raw) == "null" {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("decoding %s.%s: %w", collection, key, err)
		}
	}
	if raw, ok := doc[collection]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &res.Records); err != nil {
			return nil, fmt.Errorf("decoding %s records: %w", collection, err)
		}
	}
	return res, nil
}

// First decodes the first record into out, ErrNotFound when there is none.
func (r *Result) First(out interface{}) error {
	if len(r.Records) == 0 {
		return ErrNotFound
	}
	if err := json.Unmarshal(r.Records[0], out); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}
	return nil
}

// Decode converts every record of r into T.
func Decode[T any](r *Result) ([]T, error) {
	out := make([]T, 0, len(r.Records))
	for i, raw := range r.Records {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decoding record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Pretty indents a record for display.
func Pretty(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
