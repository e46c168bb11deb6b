// Package wttr provides a minimal client for the wttr.in weather service.
package wttr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public wttr.in endpoint.
	DefaultBaseURL = "https://wttr.in"
	// DefaultUserAgent identifies the weather tool to wttr.in.
	DefaultUserAgent = "MCP-Weather-Agent/1.0"
	// DefaultTimeout bounds a single lookup.
	DefaultTimeout = 10 * time.Second
)

// Client is a minimal HTTP client for wttr.in one-line reports.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

// New returns a new client. An empty baseURL selects DefaultBaseURL; a nil
// httpClient gets DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), UserAgent: DefaultUserAgent, HTTP: httpClient}
}

// StatusError is returned when wttr.in answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wttr status %d", e.Code)
}

// StatusCode extracts the HTTP status from a *StatusError anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}

// Lookup fetches the one-line report (format=3) for city.
func (c *Client) Lookup(ctx context.Context, city string) (string, error) {
	reqURL, err := c.buildURL(city)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// buildURL composes <base>/<city>?format=3.
func (c *Client) buildURL(city string) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	u = u.JoinPath(city)
	q := u.Query()
	q.Set("format", "3")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
