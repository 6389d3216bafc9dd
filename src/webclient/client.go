// Package webclient builds the outbound HTTP clients shared by the AI
// transport. Generation calls can legitimately take over a minute, so the
// defaults here are looser than typical API client timeouts.
package webclient

import (
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

// NewDefault returns an HTTP client with an overall request timeout.
// A zero timeout selects the package default rather than "no timeout".
func NewDefault(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}
