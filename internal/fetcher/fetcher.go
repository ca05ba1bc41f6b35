package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultRetryCount    = 2
	defaultRetryWaitTime = 5 * time.Second
)

// Options configures the page fetcher client
type Options struct {
	UserAgent     string
	Timeout       time.Duration
	RetryCount    int
	RetryWaitTime time.Duration
}

// Fetcher retrieves raw page markup over HTTP with a bounded retry
// policy. Transient failures (transport errors, 5xx, 429) are retried
// with exponential backoff; anything else fails immediately.
type Fetcher struct {
	log    zerolog.Logger
	client *resty.Client
}

// New creates a page fetcher with the given options
func New(log zerolog.Logger, opts Options) *Fetcher {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RetryCount == 0 {
		opts.RetryCount = defaultRetryCount
	}
	if opts.RetryWaitTime == 0 {
		opts.RetryWaitTime = defaultRetryWaitTime
	}

	l := log.With().Str("module", "fetcher").Logger()

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(opts.RetryWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil ||
				r.StatusCode() >= http.StatusInternalServerError ||
				r.StatusCode() == http.StatusTooManyRequests
		}).
		AddRetryHook(func(r *resty.Response, err error) {
			l.Warn().Err(err).Str("url", r.Request.URL).Msg("request failed, retrying")
		})

	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	return &Fetcher{
		log:    l,
		client: client,
	}
}

// FetchPage fetches the markup at url and returns it decoded to UTF-8.
// A non-2xx response after all retry attempts is an error; callers treat
// it as a skip for the entity being fetched, not a fatal condition.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	f.log.Debug().Str("url", url).Msg("fetching page")

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", errors.Wrap(err, "request failed")
	}

	if resp.IsError() {
		return "", fmt.Errorf("unexpected status code %d from %s", resp.StatusCode(), url)
	}

	return decodeBody(resp.Body(), resp.Header().Get("Content-Type")), nil
}

// decodeBody converts the response body to UTF-8 based on the declared
// content type, falling back to the raw bytes when the encoding cannot
// be determined.
func decodeBody(body []byte, contentType string) string {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(body)
	}

	return string(decoded)
}
