package httpclient

import (
	"io"
	"net/http"
	"net/url"
	"strings"
)

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// WithBearer sets the Authorization header to "Bearer <token>".
func WithBearer(token string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// WithHeaders sets every header in h.
func WithHeaders(h map[string]string) RequestOption {
	return func(r *http.Request) {
		for k, v := range h {
			r.Header.Set(k, v)
		}
	}
}

func encodeForm(form map[string]string) io.Reader {
	vals := url.Values{}
	for k, v := range form {
		vals.Set(k, v)
	}
	return strings.NewReader(vals.Encode())
}
