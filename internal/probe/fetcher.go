// Package probe fetches lead websites and mines them for contact details.
package probe

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/rotisserie/eris"
)

// FetchResponse is the payload returned by a Fetcher.
type FetchResponse struct {
	URL        string
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Fetcher retrieves a single page. Close releases pooled connections and must
// be called once the batch using the fetcher is done.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (FetchResponse, error)
	Close()
}

// FetcherConfig controls collector behavior.
type FetcherConfig struct {
	UserAgent string
}

// CollyFetcher implements Fetcher using the Colly collector.
type CollyFetcher struct {
	cfg       FetcherConfig
	transport *http.Transport
	base      *colly.Collector
}

// NewCollyFetcher builds a CollyFetcher with a pooled transport shared by all
// fetches until Close is called.
func NewCollyFetcher(cfg FetcherConfig) *CollyFetcher {
	// colly v2.1.0's Async option ignores its argument and always enables
	// async mode; rely on the synchronous default instead.
	c := colly.NewCollector()
	// One-shot probes; a robots.txt round trip would double the request count.
	c.IgnoreRobotsTxt = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}

	transport := newHTTPTransport()
	c.WithTransport(transport)

	return &CollyFetcher{
		cfg:       cfg,
		transport: transport,
		base:      c,
	}
}

// Fetch executes a single HTTP GET using Colly, following redirects.
func (f *CollyFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (FetchResponse, error) {
	var (
		result   FetchResponse
		fetchErr error
	)
	start := time.Now()

	collector := f.base.Clone()
	collector.IgnoreRobotsTxt = true
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	collector.SetRequestTimeout(timeout)
	collector.WithTransport(f.transport)

	collector.OnResponse(func(r *colly.Response) {
		result = FetchResponse{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return FetchResponse{}, eris.Wrap(ctx.Err(), "fetch canceled")
	case err := <-done:
		if err != nil {
			return FetchResponse{}, eris.Wrap(err, "visit failed")
		}
		if fetchErr != nil {
			return FetchResponse{}, eris.Wrap(fetchErr, "response failed")
		}
		return result, nil
	}
}

// Close releases idle connections held by the shared transport.
func (f *CollyFetcher) Close() {
	f.transport.CloseIdleConnections()
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
