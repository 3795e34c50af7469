// Package remote holds the HTTP clients for the collaborators that live
// outside this service: the randomness oracle and the custody service that
// moves won prizes.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
)

type Options struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RetryCount int
}

type client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
}

func newClient(opts Options) *client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	backoff := heimdall.NewConstantBackoff(100*time.Millisecond, 50*time.Millisecond)
	return &client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		http: httpclient.NewClient(
			httpclient.WithHTTPTimeout(opts.Timeout),
			httpclient.WithRetryCount(opts.RetryCount),
			httpclient.WithRetrier(heimdall.NewRetrier(backoff)),
		),
	}
}

func (c *client) postJSON(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	res, err := c.http.Do(req)
	if res != nil {
		defer res.Body.Close()
	}
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", http.MethodPost, path, res.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
