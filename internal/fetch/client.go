// Package fetch downloads stylesheets over HTTP.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/galileo-map/galileo-vt-styler/internal/ess"
)

// Client handles communication with a style-hosting server.
type Client struct {
	Client     *http.Client
	RetryCount int
}

// NewClient creates a client with the default timeout and retry policy.
func NewClient() *Client {
	return &Client{
		Client:     &http.Client{Timeout: 30 * time.Second},
		RetryCount: 2,
	}
}

// SetRetryCount sets the number of retry attempts for failed requests.
func (c *Client) SetRetryCount(count int) {
	c.RetryCount = count
}

// IsURL reports whether the import source is a remote address rather than
// a file path.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// doRequestWithRetry executes an HTTP request with retry logic.
func (c *Client) doRequestWithRetry(req *http.Request) (*http.Response, error) {
	var lastErr error
	var resp *http.Response

	for attempt := 0; attempt <= c.RetryCount; attempt++ {
		if attempt > 0 {
			waitTime := time.Duration(attempt) * time.Second
			time.Sleep(waitTime)
		}

		resp, lastErr = c.Client.Do(req)
		if lastErr != nil {
			if attempt < c.RetryCount {
				continue
			}
			return nil, lastErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		if resp.StatusCode == 502 || resp.StatusCode == 503 || resp.StatusCode == 504 {
			resp.Body.Close()
			if attempt < c.RetryCount {
				continue
			}
		}

		return resp, nil
	}
	return resp, lastErr
}

// Download fetches the raw stylesheet document at the given URL.
func (c *Client) Download(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("fetching stylesheet %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching stylesheet %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading stylesheet body: %w", err)
	}
	return data, nil
}

// Stylesheet downloads and decodes a stylesheet in one step.
func (c *Client) Stylesheet(url string) (*ess.Stylesheet, error) {
	data, err := c.Download(url)
	if err != nil {
		return nil, err
	}
	return ess.Parse(data)
}
