// Package feed retrieves Steam profile comment feeds using gocolly.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/steam-profile-comments/internal/comments"
	"github.com/JakeFAU/steam-profile-comments/internal/metrics"
)

const (
	// DefaultCommunityURL is the Steam community origin serving the feed.
	DefaultCommunityURL = "https://steamcommunity.com"
	// DefaultPageSize bounds the single page of comments requested.
	DefaultPageSize = 1000

	acceptHeader = "text/javascript, text/html, application/xml, text/xml, */*"
	endpointName = "comment_feed"
)

// ErrNoBody is returned when the feed endpoint answers without a payload.
var ErrNoBody = errors.New("comment feed returned no body")

// Config controls collector behavior.
type Config struct {
	CommunityURL string
	PageSize     int
	UserAgent    string
	Timeout      time.Duration
}

// Waiter gates outbound requests, typically a rate limiter.
type Waiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Fetcher implements comments.FeedFetcher using the Colly collector.
type Fetcher struct {
	cfg           Config
	origin        *url.URL
	baseCollector *colly.Collector
	limiter       Waiter
	logger        *zap.Logger
}

// New builds a Fetcher. limiter may be nil.
func New(cfg Config, limiter Waiter, logger *zap.Logger) (*Fetcher, error) {
	if cfg.CommunityURL == "" {
		cfg.CommunityURL = DefaultCommunityURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	origin, err := url.Parse(strings.TrimRight(cfg.CommunityURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse community url: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("community url %q must be absolute", cfg.CommunityURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(colly.Async(false), colly.AllowURLRevisit())
	c.IgnoreRobotsTxt = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	c.WithTransport(newHTTPTransport())
	// Clones share the backend client, so the timeout is set once here.
	c.SetRequestTimeout(cfg.Timeout)

	return &Fetcher{
		cfg:           cfg,
		origin:        origin,
		baseCollector: c,
		limiter:       limiter,
		logger:        logger,
	}, nil
}

// Fetch retrieves the first page of the comment feed for steamID. Transport
// failures, non-2xx statuses and undecodable payloads are returned as errors.
func (f *Fetcher) Fetch(ctx context.Context, steamID string) (comments.FeedDocument, error) {
	target := f.feedURL(steamID)
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, target); err != nil {
			return comments.FeedDocument{}, fmt.Errorf("wait for feed slot: %w", err)
		}
	}

	var (
		body     []byte
		fetchErr error
	)
	start := time.Now()
	collector := f.buildCollector(&body, &fetchErr)
	err := f.runCollector(ctx, collector, target, &fetchErr)
	if err != nil {
		metrics.ObserveUpstream(endpointName, "error", time.Since(start))
		f.logger.Warn("comment feed fetch failed", zap.String("steam_id", steamID), zap.Error(err))
		return comments.FeedDocument{}, err
	}

	if len(body) == 0 {
		metrics.ObserveUpstream(endpointName, "malformed", time.Since(start))
		return comments.FeedDocument{}, ErrNoBody
	}

	var doc comments.FeedDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		metrics.ObserveUpstream(endpointName, "malformed", time.Since(start))
		return comments.FeedDocument{}, fmt.Errorf("decode comment feed: %w", err)
	}
	metrics.ObserveUpstream(endpointName, "ok", time.Since(start))
	f.logger.Debug("comment feed fetched",
		zap.String("steam_id", steamID),
		zap.Int("total_count", doc.TotalCount),
		zap.Duration("duration", time.Since(start)),
	)
	return doc, nil
}

func (f *Fetcher) feedURL(steamID string) string {
	u := *f.origin
	u.Path = strings.TrimRight(u.Path, "/") + "/comment/Profile/render/" + url.PathEscape(steamID) + "/-1/"
	q := url.Values{}
	q.Set("start", "0")
	q.Set("count", strconv.Itoa(f.cfg.PageSize))
	u.RawQuery = q.Encode()
	return u.String()
}

// requestHeaders returns the headers the community endpoint insists on.
func (f *Fetcher) requestHeaders() http.Header {
	return http.Header{
		"Origin": {f.origin.Scheme + "://" + f.origin.Host},
		"Host":   {f.origin.Host},
		"Accept": {acceptHeader},
	}
}

func (f *Fetcher) buildCollector(body *[]byte, fetchErr *error) *colly.Collector {
	collector := f.baseCollector.Clone()

	collector.OnResponse(func(r *colly.Response) {
		*body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			*fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
			return
		}
		*fetchErr = err
	})
	return collector
}

func (f *Fetcher) runCollector(ctx context.Context, collector *colly.Collector, target string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Request(http.MethodGet, target, nil, nil, f.requestHeaders())
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("comment feed fetch canceled: %w", ctx.Err())
	case err := <-done:
		if *fetchErr != nil {
			return fmt.Errorf("comment feed response failed: %w", *fetchErr)
		}
		if err != nil {
			return fmt.Errorf("comment feed request failed: %w", err)
		}
		return nil
	}
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
