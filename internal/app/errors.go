package app

import (
	"fmt"
	"log/slog"

	"fitcoach/internal/domain"
)

// wrapStoreErr logs a failed store call and wraps it with domain.ErrStore.
// Store failures are never retried here.
func wrapStoreErr(log *slog.Logger, op string, userID int64, err error) error {
	log.Error("store call failed", "op", op, "user_id", userID, "error", err)
	return fmt.Errorf("%w: %s: %w", domain.ErrStore, op, err)
}
