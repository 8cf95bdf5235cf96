// Package vanity resolves Steam vanity aliases to SteamID64s.
package vanity

import (
	"context"

	"go.uber.org/zap"

	"github.com/JakeFAU/steam-profile-comments/internal/comments"
)

const (
	resolvePath  = "/ISteamUser/ResolveVanityURL/v0001/"
	endpointName = "resolve_vanity_url"
)

// APIClient performs authenticated Web API GETs.
type APIClient interface {
	Get(ctx context.Context, endpoint, path string, params map[string]string, result any) error
}

type resolveResponse struct {
	Response *resolveData `json:"response"`
}

type resolveData struct {
	SteamID string `json:"steamid"`
	Success int    `json:"success"`
	Message string `json:"message"`
}

// Resolver implements comments.Resolver against ResolveVanityURL.
type Resolver struct {
	api    APIClient
	logger *zap.Logger
}

// New builds a Resolver.
func New(api APIClient, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{api: api, logger: logger}
}

// Resolve returns the SteamID64 for alias. A well-formed response without an
// id yields comments.ErrAliasUnresolved; transport and decode failures are
// returned as-is.
func (r *Resolver) Resolve(ctx context.Context, alias string) (string, error) {
	var out resolveResponse
	if err := r.api.Get(ctx, endpointName, resolvePath, map[string]string{"vanityurl": alias}, &out); err != nil {
		return "", err
	}
	if out.Response == nil || out.Response.SteamID == "" {
		fields := []zap.Field{zap.String("alias", alias)}
		if out.Response != nil {
			fields = append(fields,
				zap.Int("success", out.Response.Success),
				zap.String("message", out.Response.Message),
			)
		}
		r.logger.Info("vanity alias did not resolve", fields...)
		return "", comments.ErrAliasUnresolved
	}
	return out.Response.SteamID, nil
}
