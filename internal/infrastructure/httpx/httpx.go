package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Logger is satisfied by *zap.SugaredLogger.
type Logger interface {
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
}

type Client struct {
	HTTP  *http.Client
	Token string
	// MaxElapsed bounds the retry loop; the request context bounds it too.
	MaxElapsed time.Duration
}

// StatusError is returned for non-200 responses.
type StatusError struct{ Code int }

func (e *StatusError) Error() string { return fmt.Sprintf("status %d", e.Code) }

// DoJSON sends req and decodes a 200 JSON body into out. Transport errors
// and 5xx responses are retried with exponential backoff; other statuses and
// decode errors are returned at once.
func (c *Client) DoJSON(ctx context.Context, req *http.Request, out any, log Logger) error {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Accept", "application/json")
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 200 * time.Millisecond
	exp.MaxInterval = 1 * time.Second
	exp.MaxElapsedTime = 3 * time.Second
	if c.MaxElapsed > 0 {
		exp.MaxElapsedTime = c.MaxElapsed
	}

	attempt := 0
	op := func() error {
		attempt++
		resp, err := hc.Do(req.WithContext(ctx))
		if err != nil {
			if log != nil {
				log.Warnw("httpx.request_failed", "url", req.URL.Redacted(), "attempt", attempt, "error", err)
			}
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 500 {
			if log != nil {
				log.Warnw("httpx.server_error", "url", req.URL.Redacted(), "attempt", attempt, "status", resp.StatusCode)
			}
			return &StatusError{Code: resp.StatusCode}
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(&StatusError{Code: resp.StatusCode})
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		if log != nil {
			log.Infow("httpx.request_done", "url", req.URL.Redacted(), "attempt", attempt)
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(exp, ctx))
}
