// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/steam-profile-comments/internal/api"
	"github.com/JakeFAU/steam-profile-comments/internal/comments"
	"github.com/JakeFAU/steam-profile-comments/internal/config"
	"github.com/JakeFAU/steam-profile-comments/internal/extract"
	"github.com/JakeFAU/steam-profile-comments/internal/policy/ratelimit"
	"github.com/JakeFAU/steam-profile-comments/internal/steam/feed"
	"github.com/JakeFAU/steam-profile-comments/internal/steam/persona"
	"github.com/JakeFAU/steam-profile-comments/internal/steam/vanity"
	"github.com/JakeFAU/steam-profile-comments/internal/steam/webapi"
)

// App holds the shared, long-lived services for the process. It is built
// once at startup and handed to the commands that need it.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	service *comments.Service
}

// New builds every Steam client and the comments pipeline from cfg.
// It fails fast when a client cannot be constructed.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("initializing application services")

	limiter := ratelimit.New(ratelimit.Config{
		RPS:   cfg.Steam.RateLimitRPS,
		Burst: cfg.Steam.RateLimitBurst,
	})

	apiClient, err := webapi.New(webapi.Config{
		BaseURL:   cfg.Steam.APIBaseURL,
		APIKey:    cfg.Steam.APIKey,
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.HTTPTimeout(),
	}, limiter, logger.Named("webapi"))
	if err != nil {
		return nil, fmt.Errorf("init steam web api client: %w", err)
	}

	fetcher, err := feed.New(feed.Config{
		CommunityURL: cfg.Steam.CommunityURL,
		PageSize:     cfg.Steam.PageSize,
		UserAgent:    cfg.HTTP.UserAgent,
		Timeout:      cfg.HTTPTimeout(),
	}, limiter, logger.Named("feed"))
	if err != nil {
		return nil, fmt.Errorf("init comment feed fetcher: %w", err)
	}

	extractor := extract.New(extract.Config{
		DefaultAvatarURL: cfg.Steam.DefaultAvatarURL,
	}, logger.Named("extract"))

	var enricher comments.Enricher
	if cfg.Steam.EnrichPersonaNames {
		logger.Info("persona name enrichment enabled")
		enricher = persona.New(apiClient, logger.Named("persona"))
	}

	service := comments.NewService(
		vanity.New(apiClient, logger.Named("vanity")),
		fetcher,
		extractor,
		enricher,
		logger.Named("comments"),
	)

	logger.Info("application services initialized")
	return &App{cfg: cfg, logger: logger, service: service}, nil
}

// Logger returns the root logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Config returns the configuration the app was built from.
func (a *App) Config() config.Config {
	return a.cfg
}

// Comments returns the comment pipeline.
func (a *App) Comments() *comments.Service {
	return a.service
}

// NewServer builds the HTTP API over the comment pipeline.
func (a *App) NewServer() *api.Server {
	return api.NewServer(a.service, a.cfg, a.logger.Named("api"))
}

// Close flushes the logger. The Steam clients hold no resources that need
// an explicit close.
func (a *App) Close() {
	a.logger.Info("shutting down application services")
	// Sync fails on stderr/stdout for some platforms; nothing useful to do with it.
	_ = a.logger.Sync()
}
