package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/forgo/quest/internal/database"
)

// runner bundles what every transactional service needs
type runner struct {
	store  database.Store
	opts   database.TxOptions
	now    func() time.Time
	logger *slog.Logger
}

func newRunner(store database.Store, opts database.TxOptions, clock func() time.Time, logger *slog.Logger) runner {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return runner{store: store, opts: opts, now: clock, logger: logger}
}

// transact runs fn over keys and maps exhausted conflicts to
// ErrTransactionConflict
func (r runner) transact(ctx context.Context, op string, keys []database.Key, fn func(tx *database.Tx) error) error {
	err := database.Transact(ctx, r.store, r.opts, keys, fn)
	if err != nil && errors.Is(err, database.ErrConflict) && KindOf(err) == KindUnknown {
		r.logger.Warn("transaction retries exhausted",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
	}
	return conflictError(err)
}

// normalizeUserID trims surrounding whitespace from a user id. Every
// operation keys records on the trimmed form.
func normalizeUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrUserIDRequired
	}
	return userID, nil
}
