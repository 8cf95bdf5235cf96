// Package webapi is a small client for the key-authenticated Steam Web API.
package webapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/steam-profile-comments/internal/metrics"
)

// DefaultBaseURL is the public Steam Web API host.
const DefaultBaseURL = "https://api.steampowered.com"

// ErrMissingAPIKey is returned when a client is built without a key.
var ErrMissingAPIKey = errors.New("steam web api key is required")

// Config controls the Web API client.
type Config struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

// Waiter gates outbound requests, typically a rate limiter.
type Waiter interface {
	Wait(ctx context.Context, rawURL string) error
}

// Client issues GET requests against Web API interfaces, adding the API key
// to every call.
type Client struct {
	http    *resty.Client
	baseURL string
	apiKey  string
	limiter Waiter
	logger  *zap.Logger
}

// New builds a Client. limiter may be nil.
func New(cfg Config, limiter Waiter, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(cfg.Timeout)
	client.SetLogger(logger.Sugar())
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	client.SetHeader("Accept", "application/json")

	return &Client{
		http:    client,
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Get calls path with params plus the API key and decodes the JSON body into
// result. endpoint labels metrics. Transport failures, non-2xx statuses and
// undecodable bodies are returned as errors.
func (c *Client) Get(ctx context.Context, endpoint, path string, params map[string]string, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.baseURL+path); err != nil {
			return fmt.Errorf("wait for %s slot: %w", endpoint, err)
		}
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("key", c.apiKey).
		ForceContentType("application/json").
		SetResult(result).
		Get(path)
	if err != nil {
		metrics.ObserveUpstream(endpoint, "error", time.Since(start))
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	if resp.IsError() {
		metrics.ObserveUpstream(endpoint, "error", time.Since(start))
		return fmt.Errorf("call %s: unexpected status %d", endpoint, resp.StatusCode())
	}
	metrics.ObserveUpstream(endpoint, "ok", time.Since(start))
	c.logger.Debug("steam web api call",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
