package service

import (
	"context"
	"log/slog"
	"time"

	"parlor/internal/middleware"
	"parlor/internal/models"
	"parlor/internal/observability"
	"parlor/internal/repository"
)

// RetentionService ages unpinned chat messages out of the log. A sweep runs
// on a fixed interval; when it removes anything, the refreshed history is
// handed to the broadcast hook so connected clients converge on the pruned
// window without polling.
type RetentionService struct {
	ledger   *Ledger
	chatRepo repository.ChatRepository
	ttl      time.Duration
	interval time.Duration

	// onPrune receives the post-sweep history. Optional.
	onPrune func(history []*models.ChatMessage)
}

// NewRetentionService returns a new RetentionService.
func NewRetentionService(ledger *Ledger, chatRepo repository.ChatRepository, ttl, interval time.Duration) *RetentionService {
	return &RetentionService{
		ledger:   ledger,
		chatRepo: chatRepo,
		ttl:      ttl,
		interval: interval,
	}
}

// OnPrune registers the hook invoked with the refreshed history after a sweep
// that removed at least one message.
func (s *RetentionService) OnPrune(fn func(history []*models.ChatMessage)) {
	s.onPrune = fn
}

// Run sweeps on the configured interval until the context is canceled.
func (s *RetentionService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				middleware.Logger.ErrorContext(ctx, "Chat retention sweep failed",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Sweep removes every unpinned message whose age reached the TTL and returns
// the number removed. The broadcast hook fires only when something was
// removed.
func (s *RetentionService) Sweep(ctx context.Context) (int64, error) {
	s.ledger.Lock()
	defer s.ledger.Unlock()

	cutoff := time.Now().Add(-s.ttl).Unix()
	removed, err := s.chatRepo.PruneExpired(ctx, cutoff)
	if err != nil {
		return 0, models.NewStorageError("prune chat messages", err)
	}
	if removed == 0 {
		return 0, nil
	}

	observability.RetentionRemovals.Add(float64(removed))
	middleware.Logger.InfoContext(ctx, "Chat retention sweep removed messages",
		slog.Int64("removed", removed),
	)

	if s.onPrune != nil {
		history, err := s.chatRepo.History(ctx, chatHistorySize)
		if err != nil {
			return removed, models.NewStorageError("load chat history", err)
		}
		s.onPrune(history)
	}
	return removed, nil
}
