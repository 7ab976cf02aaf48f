package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/medaldraft/pkg/logger"
)

// maxBodyBytes caps a response body; medal pages are far smaller.
const maxBodyBytes = 8 << 20

// HTTPOption configures the HTTP-backed sources.
type HTTPOption func(*fetcher)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(f *fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(f *fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithLogger sets the logger for per-row diagnostics.
func WithLogger(l logger.Logger) HTTPOption {
	return func(f *fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

type fetcher struct {
	client    *http.Client
	userAgent string
	logger    logger.Logger
}

func newFetcher(opts []HTTPOption) fetcher {
	f := fetcher{
		client:    http.DefaultClient,
		userAgent: "medaldraft/1.0",
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// get performs a GET and returns the body and content type of a 2xx answer.
func (f fetcher) get(ctx context.Context, url, accept string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
