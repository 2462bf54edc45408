package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/renkteks/kartela/internal/warehouse/domain"
	"github.com/renkteks/kartela/pkg/logger"
)

// ResolveItemQuery carries the raw scanned or typed input
type ResolveItemQuery struct {
	Input string
}

// ResolveItemHandler resolves raw scanner input to exactly one item
type ResolveItemHandler struct {
	repo domain.ItemRepository
}

// NewResolveItemHandler creates a new resolve item handler
func NewResolveItemHandler(repo domain.ItemRepository) *ResolveItemHandler {
	return &ResolveItemHandler{repo: repo}
}

// Handle resolves the input in two tiers: an exact code match always wins;
// failing that, the first case-insensitive color-code substring match is
// taken. The substring fallback is lossy on purpose, since scanners often
// deliver a code fragment, so more than one match is only flagged in the log,
// never an error. Archived and out-of-service items resolve to ErrItemInactive.
func (h *ResolveItemHandler) Handle(ctx context.Context, q ResolveItemQuery) (*domain.Item, error) {
	input := strings.TrimSpace(q.Input)
	if input == "" {
		return nil, domain.ErrItemNotFound
	}

	item, err := h.repo.FindByCode(ctx, input)
	if err != nil && !errors.Is(err, domain.ErrItemNotFound) {
		return nil, fmt.Errorf("code lookup failed: %w", err)
	}

	if item == nil {
		matches, err := h.repo.FindByColorCodeContains(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("color code lookup failed: %w", err)
		}
		if len(matches) == 0 {
			return nil, domain.ErrItemNotFound
		}
		if len(matches) > 1 {
			logger.Logger.Warn().
				Str("input", input).
				Int("matches", len(matches)).
				Str("resolved_code", matches[0].Code).
				Msg("Ambiguous color code fragment, taking first match")
		}
		item = &matches[0]
	}

	if !item.Transferable() {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemInactive, item.Code)
	}

	return item, nil
}
