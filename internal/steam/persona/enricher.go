// Package persona fills in missing persona names from GetPlayerSummaries.
package persona

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/steam-profile-comments/internal/comments"
	"github.com/JakeFAU/steam-profile-comments/internal/steamid"
)

const (
	summariesPath = "/ISteamUser/GetPlayerSummaries/v0002/"
	endpointName  = "get_player_summaries"

	// MaxIDsPerCall is the GetPlayerSummaries batch limit.
	MaxIDsPerCall = 100
)

// APIClient performs authenticated Web API GETs.
type APIClient interface {
	Get(ctx context.Context, endpoint, path string, params map[string]string, result any) error
}

type summariesResponse struct {
	Response struct {
		Players []player `json:"players"`
	} `json:"response"`
}

type player struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaname"`
}

// Enricher implements comments.Enricher.
type Enricher struct {
	api    APIClient
	logger *zap.Logger
}

// New builds an Enricher.
func New(api APIClient, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{api: api, logger: logger}
}

// Enrich returns a copy of records where empty persona names are filled for
// authors linked by /profiles/<steamid64>. Vanity profile links are left
// alone. On error the input slice is returned with the error.
func (e *Enricher) Enrich(ctx context.Context, records []comments.Record) ([]comments.Record, error) {
	ids := missingPersonaIDs(records)
	if len(ids) == 0 {
		return records, nil
	}

	names := make(map[string]string, len(ids))
	for start := 0; start < len(ids); start += MaxIDsPerCall {
		end := min(start+MaxIDsPerCall, len(ids))
		var out summariesResponse
		params := map[string]string{"steamids": strings.Join(ids[start:end], ",")}
		if err := e.api.Get(ctx, endpointName, summariesPath, params, &out); err != nil {
			return records, fmt.Errorf("player summaries: %w", err)
		}
		for _, p := range out.Response.Players {
			names[p.SteamID] = p.PersonaName
		}
	}

	enriched := make([]comments.Record, len(records))
	filled := 0
	for i, r := range records {
		if r.PersonaName == "" {
			if name := names[ProfileID(r.AuthorURL)]; name != "" {
				r.PersonaName = name
				filled++
			}
		}
		enriched[i] = r
	}
	e.logger.Debug("persona names enriched", zap.Int("requested", len(ids)), zap.Int("filled", filled))
	return enriched, nil
}

// ProfileID returns the SteamID64 from a /profiles/<id> URL, or "".
func ProfileID(authorURL string) string {
	u, err := url.Parse(authorURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "profiles" {
		return ""
	}
	if steamid.Classify(parts[1]) != steamid.Canonical {
		return ""
	}
	return parts[1]
}

func missingPersonaIDs(records []comments.Record) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, r := range records {
		if r.PersonaName != "" {
			continue
		}
		id := ProfileID(r.AuthorURL)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
