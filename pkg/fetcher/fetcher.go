package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/poikkeusinfo/pkg/config"
)

const userAgent = "poikkeusinfo/1.0"

// FetchError is returned when the feed could not be retrieved. StatusCode is 0
// when no HTTP response was received.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %s", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// New returns a file fetcher when a feed file is configured and an HTTP
// fetcher otherwise.
func New(cfg config.FeedConfig) Fetcher {
	if cfg.File != "" {
		return &FileFetcher{Path: cfg.File}
	}

	return NewHTTPFetcher(cfg.URL, cfg.Timeout, cfg.MaxElapsedTime)
}

type HTTPFetcher struct {
	URL    string
	Client *http.Client

	// BackOff builds the retry policy for a single Fetch call.
	BackOff func() backoff.BackOff
}

func NewHTTPFetcher(url string, timeout time.Duration, maxElapsedTime time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		BackOff: func() backoff.BackOff {
			retryBackoff := backoff.NewExponentialBackOff()
			retryBackoff.MaxElapsedTime = maxElapsedTime
			return retryBackoff
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) ([]byte, error) {
	operation := func() ([]byte, error) {
		return f.fetchOnce(ctx)
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("url", f.URL).Dur("retry_in", wait).Msg("Feed fetch failed, retrying")
	}

	return backoff.RetryNotifyWithData(operation, backoff.WithContext(f.BackOff(), ctx), notify)
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, backoff.Permanent(&FetchError{Source: f.URL, Err: err})
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: f.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fetchErr := &FetchError{Source: f.URL, StatusCode: resp.StatusCode}
		// client errors other than rate limiting will not fix themselves
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(fetchErr)
		}
		return nil, fetchErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: f.URL, Err: err}
	}

	return body, nil
}

type FileFetcher struct {
	Path string
}

func (f *FileFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Source: f.Path, Err: err}
	}

	body, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, &FetchError{Source: f.Path, Err: err}
	}

	return body, nil
}
