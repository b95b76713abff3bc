// Package copilot implements core.Store against the client portal's custom-field HTTP API.
//
// Endpoints:
//
//	GET {base}/custom-fields          -> {"data": [{"id", "name", "value"}, ...]}
//	PUT {base}/custom-fields/{name}   <- {"value": "..."} -> {"id", "name", "value"}
//
// Requests carry the session token from the call context (core.WithToken) as a
// bearer token. Calls without a token fall back to Config.Token.
package copilot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/aretw0/introspection"
	"golang.org/x/oauth2"

	"github.com/aretw0/fieldboard/pkg/core"
)

// Config holds the remote store settings.
type Config struct {
	BaseURL string
	// Token is used when the call context carries none.
	Token string
	// HTTPClient is the base transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client is a core.Store backed by the portal API.
type Client struct {
	base   *url.URL
	token  string
	http   *http.Client
	logger *slog.Logger

	requests atomic.Int64
	failures atomic.Int64
}

// NewClient validates cfg and returns a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("copilot: base url is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("copilot: invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("copilot: unsupported scheme %q", base.Scheme)
	}

	c := &Client{
		base:   base,
		token:  cfg.Token,
		http:   cfg.HTTPClient,
		logger: cfg.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c, nil
}

type listResponse struct {
	Data []core.RawRecord `json:"data"`
}

type upsertRequest struct {
	Value string `json:"value"`
}

// ListFields implements core.Store.
func (c *Client) ListFields(ctx context.Context) ([]core.RawRecord, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "custom-fields", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UpsertField implements core.Store.
func (c *Client) UpsertField(ctx context.Context, name, value string) (core.RawRecord, error) {
	if name == "" {
		return core.RawRecord{}, fmt.Errorf("copilot: field has no name")
	}
	body, err := json.Marshal(upsertRequest{Value: value})
	if err != nil {
		return core.RawRecord{}, err
	}

	var rec core.RawRecord
	if err := c.do(ctx, http.MethodPut, "custom-fields/"+url.PathEscape(name), body, &rec); err != nil {
		return core.RawRecord{}, err
	}
	if rec.Name == "" {
		rec.Name = name
	}
	return rec, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	c.requests.Add(1)

	u := c.base.String() + "/" + path
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		c.failures.Add(1)
		return fmt.Errorf("copilot: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient(ctx).Do(req)
	if err != nil {
		c.failures.Add(1)
		return fmt.Errorf("copilot: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.failures.Add(1)
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Debug("copilot request rejected", "method", method, "path", path, "status", resp.StatusCode)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.failures.Add(1)
		return fmt.Errorf("copilot: decode %s %s: %w", method, path, err)
	}
	return nil
}

// httpClient returns a client that authorizes requests with the context token.
func (c *Client) httpClient(ctx context.Context) *http.Client {
	token := core.TokenFrom(ctx)
	if token == "" {
		token = c.token
	}
	if token == "" {
		return c.http
	}
	// oauth2.NewClient picks up the base transport from this context key.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("copilot: %s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("copilot: %s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// ClientState exposes request counters.
type ClientState struct {
	BaseURL  string `json:"base_url"`
	Requests int64  `json:"requests"`
	Failures int64  `json:"failures"`
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	return ClientState{
		BaseURL:  c.base.String(),
		Requests: c.requests.Load(),
		Failures: c.failures.Load(),
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "copilot"
}

var _ core.Store = (*Client)(nil)
var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
