package comments

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/steam-profile-comments/internal/metrics"
	"github.com/JakeFAU/steam-profile-comments/internal/steamid"
)

// Service sequences classification, resolution, retrieval and extraction for
// one identifier per call. It holds no per-request state.
type Service struct {
	resolver  Resolver
	fetcher   FeedFetcher
	extractor Extractor
	enricher  Enricher
	logger    *zap.Logger
}

// NewService wires a Service. enricher may be nil.
func NewService(
	resolver Resolver,
	fetcher FeedFetcher,
	extractor Extractor,
	enricher Enricher,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver:  resolver,
		fetcher:   fetcher,
		extractor: extractor,
		enricher:  enricher,
		logger:    logger,
	}
}

// GetComments returns the comments on the profile named by input, which is
// either a SteamID64 or a vanity alias. Errors wrapping ErrNotFound mean the
// account is unknown or has no comments; any other error is a transport or
// parse failure.
func (s *Service) GetComments(ctx context.Context, input string) ([]Record, error) {
	records, err := s.getComments(ctx, input)
	metrics.ObserveLookup(lookupOutcome(err))
	return records, err
}

func (s *Service) getComments(ctx context.Context, input string) ([]Record, error) {
	steamID, err := s.canonicalID(ctx, input)
	if err != nil {
		return nil, err
	}
	logger := s.logger.With(zap.String("input", input), zap.String("steam_id", steamID))

	doc, err := s.fetcher.Fetch(ctx, steamID)
	if err != nil {
		return nil, fmt.Errorf("fetch comment feed: %w", err)
	}
	if doc.Empty() {
		logger.Debug("comment feed is empty")
		return nil, ErrEmptyFeed
	}

	records, err := s.extractor.Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("extract comments: %w", err)
	}
	if s.enricher != nil && len(records) > 0 {
		enriched, enrichErr := s.enricher.Enrich(ctx, records)
		if enrichErr != nil {
			logger.Warn("persona enrichment failed", zap.Error(enrichErr))
		} else {
			records = enriched
		}
	}
	if records == nil {
		records = []Record{}
	}
	logger.Debug("comments extracted",
		zap.Int("total_count", doc.TotalCount),
		zap.Int("records", len(records)),
	)
	return records, nil
}

func (s *Service) canonicalID(ctx context.Context, input string) (string, error) {
	if steamid.Classify(input) == steamid.Canonical {
		return input, nil
	}
	steamID, err := s.resolver.Resolve(ctx, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("resolve vanity alias %q: %w", input, err)
	}
	if steamID == "" {
		return "", ErrAliasUnresolved
	}
	return steamID, nil
}

func lookupOutcome(err error) string {
	switch {
	case err == nil:
		return "found"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
