package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds every request so a hung connection cannot stall the
// refresh loop indefinitely.
const DefaultTimeout = 30 * time.Second

// UserAgent is sent with every request unless overridden by an option.
var UserAgent = "liment/dev"

// Client wraps net/http.Client with convenience methods for JSON APIs.
type Client struct {
	http *http.Client
}

// Response wraps the status code, body bytes, and optional JSON decode error
// from a completed HTTP request. The underlying http.Response body is already
// closed; callers read from Body instead.
type Response struct {
	StatusCode int
	Body       []byte
	JSONErr    error
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// New creates a Client with the default timeout.
func New() *Client {
	return NewWithTimeout(DefaultTimeout)
}

// NewWithTimeout creates a Client with the given timeout.
func NewWithTimeout(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// NewFromConfig creates a Client using the config timeout (in seconds).
// Falls back to the default if the value is zero or negative.
func NewFromConfig(timeoutSeconds float64) *Client {
	if timeoutSeconds <= 0 {
		return New()
	}
	return NewWithTimeout(time.Duration(timeoutSeconds * float64(time.Second)))
}

func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// RequestOption configures an http.Request before it is sent.
type RequestOption func(*http.Request)

// DoCtx sends an HTTP request, applies options, reads the full body, and
// returns a Response. A non-nil error indicates a network-level failure (DNS,
// connect, timeout) or context cancellation; HTTP error status codes are
// returned in Response.StatusCode.
func (c *Client) DoCtx(ctx context.Context, method, rawURL string, body io.Reader, opts ...RequestOption) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

// GetJSONCtx sends a GET request and, for 2xx responses, decodes the body as
// JSON into out. JSON decode errors are captured in Response.JSONErr rather
// than returned as the function error.
func (c *Client) GetJSONCtx(ctx context.Context, rawURL string, out any, opts ...RequestOption) (*Response, error) {
	resp, err := c.DoCtx(ctx, http.MethodGet, rawURL, nil, opts...)
	if err != nil {
		return nil, err
	}
	resp.decode(out)
	return resp, nil
}

// PostJSONCtx sends a POST request with a JSON-encoded body and, for 2xx
// responses, decodes the reply into out. Content-Type is set to
// application/json automatically.
func (c *Client) PostJSONCtx(ctx context.Context, rawURL string, body any, out any, opts ...RequestOption) (*Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}
	allOpts := append([]RequestOption{WithHeader("Content-Type", "application/json")}, opts...)
	resp, err := c.DoCtx(ctx, http.MethodPost, rawURL, reader, allOpts...)
	if err != nil {
		return nil, err
	}
	resp.decode(out)
	return resp, nil
}

// PostFormCtx sends a POST request with URL-encoded form data and, for 2xx
// responses, decodes the reply into out.
func (c *Client) PostFormCtx(ctx context.Context, rawURL string, form map[string]string, out any, opts ...RequestOption) (*Response, error) {
	allOpts := append([]RequestOption{WithHeader("Content-Type", "application/x-www-form-urlencoded")}, opts...)
	resp, err := c.DoCtx(ctx, http.MethodPost, rawURL, encodeForm(form), allOpts...)
	if err != nil {
		return nil, err
	}
	resp.decode(out)
	return resp, nil
}

func (r *Response) decode(out any) {
	if out == nil || !r.OK() {
		return
	}
	r.JSONErr = json.Unmarshal(r.Body, out)
}
