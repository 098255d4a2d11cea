package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"parlor/internal/middleware"
	"parlor/internal/models"
	"parlor/internal/observability"
	"parlor/internal/repository"
)

// FilterService screens user-submitted text against the admin-managed
// blocklist. Matching is whole-word and case-insensitive; a term that cannot
// be compiled into a word-boundary pattern falls back to a plain substring
// match.
type FilterService struct {
	bulletinRepo repository.BulletinRepository
}

// NewFilterService returns a new FilterService.
func NewFilterService(bulletinRepo repository.BulletinRepository) *FilterService {
	return &FilterService{bulletinRepo: bulletinRepo}
}

// Check returns a Blocked error when any blocklist term matches the text.
// The error never reveals which term matched. An empty blocklist passes
// everything. surface labels the metric (thread, comment, chat).
func (s *FilterService) Check(ctx context.Context, text, surface string) error {
	terms, err := s.bulletinRepo.GetBlocklist(ctx)
	if err != nil {
		return models.NewStorageError("load blocklist", err)
	}

	for _, term := range terms {
		if term == "" {
			continue
		}
		if matchesTerm(text, term) {
			observability.BlockedSubmissions.WithLabelValues(surface).Inc()
			middleware.Logger.InfoContext(ctx, "Submission blocked by content filter",
				slog.String("surface", surface),
			)
			return models.NewBlockedError()
		}
	}
	return nil
}

func matchesTerm(text, term string) bool {
	pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	if err != nil {
		return strings.Contains(strings.ToLower(text), strings.ToLower(term))
	}
	return pattern.MatchString(text)
}
