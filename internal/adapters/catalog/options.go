package catalog

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds one catalog request; 0 disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxErrorBody limits how much of an error body is kept as detail.
func WithMaxErrorBody(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxErrorBody = n
		}
	}
}
