// Package fetch implements the bounded-concurrency HTTP fetch client.
package fetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/newshound/newshound/internal/metrics"
	"github.com/newshound/newshound/internal/news"
)

// Config controls fetch behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Client implements news.Fetcher using a Colly collector behind the
// connection limiter. HTTP status codes are not inspected: any
// response completed within the timeout is returned as-is, error
// pages included. No retries are performed at this layer.
type Client struct {
	cfg           Config
	limiter       *Limiter
	transport     http.RoundTripper
	baseCollector *colly.Collector
}

// New builds a Client.
func New(cfg Config, limiter *Limiter) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	c := colly.NewCollector(
		colly.Async(false),
		colly.ParseHTTPErrorResponse(),
		colly.AllowURLRevisit(),
	)
	c.IgnoreRobotsTxt = true
	transport := newHTTPTransport(cfg.Timeout)
	c.WithTransport(transport)

	return &Client{
		cfg:           cfg,
		limiter:       limiter,
		transport:     transport,
		baseCollector: c,
	}
}

// Fetch executes a single HTTP GET, holding a connection slot for its
// duration.
func (c *Client) Fetch(ctx context.Context, url string) (news.FetchResult, error) {
	release, err := c.limiter.Acquire(ctx, url)
	if err != nil {
		return news.FetchResult{}, err
	}
	defer release()

	metrics.IncFetchesInFlight()
	defer metrics.DecFetchesInFlight()

	var result news.FetchResult
	collector := c.baseCollector.Clone()
	collector.WithTransport(c.transport)
	if c.cfg.UserAgent != "" {
		collector.UserAgent = c.cfg.UserAgent
	}
	collector.SetRequestTimeout(c.cfg.Timeout)

	var fetchErr error
	collector.OnResponse(func(r *colly.Response) {
		result = news.FetchResult{
			Body:         append([]byte(nil), r.Body...),
			EffectiveURL: r.Request.URL.String(),
		}
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.runCollector(ctx, collector, url, &fetchErr); err != nil {
		return news.FetchResult{}, err
	}

	metrics.ObserveFetch(url, len(result.Body))
	return result, nil
}

func (c *Client) runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("fetch %s: %w", url, err)
		}
		if *fetchErr != nil {
			return fmt.Errorf("fetch %s: %w", url, *fetchErr)
		}
		return nil
	}
}

func newHTTPTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
