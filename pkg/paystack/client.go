package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 10 << 20

// Params is the request payload for an endpoint.
type Params map[string]any

// Merge returns a new Params with the keys of other layered over p.
func (p Params) Merge(other Params) Params {
	out := make(Params, len(p)+len(other))
	maps.Copy(out, p)
	maps.Copy(out, other)
	return out
}

// Result is the response envelope returned by every Paystack endpoint.
type Result struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    json.RawMessage `json:"meta,omitempty"`
}

// HasData reports whether the envelope carries a non-empty data member.
func (r *Result) HasData() bool {
	if r == nil {
		return false
	}
	data := bytes.TrimSpace(r.Data)
	switch string(data) {
	case "", "null", "{}", "[]":
		return false
	}
	return true
}

// Decode unmarshals the data member into v.
// Returns ErrEmptyData when the response carries no data.
func (r *Result) Decode(v any) error {
	if !r.HasData() {
		return ErrEmptyData
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}

// Client performs authenticated calls against the Paystack API.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its timeout takes
// precedence over Config.Timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at a different API host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  cfg.SecretKey,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Call sends payload to endpoint using the given HTTP method and returns the
// decoded envelope. Any transport failure or non-2xx status is returned as a
// *GatewayError.
func (c *Client) Call(ctx context.Context, method, endpoint string, payload Params) (*Result, error) {
	req, err := c.newRequest(ctx, method, endpoint, payload)
	if err != nil {
		return nil, &GatewayError{Message: "failed to build request", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Message: fmt.Sprintf("%s %s: request error", method, endpoint), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	var result Result
	decodeErr := json.Unmarshal(body, &result)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := result.Message
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return nil, errors.Join(ErrDecodeResponse, decodeErr)
	}

	return &result, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, payload Params) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")

	var body io.Reader
	if method == http.MethodGet {
		if len(payload) > 0 {
			q := url.Values{}
			for k, v := range payload {
				q.Set(k, fmt.Sprint(v))
			}
			target += "?" + q.Encode()
		}
	} else {
		if payload == nil {
			payload = Params{}
		}
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
