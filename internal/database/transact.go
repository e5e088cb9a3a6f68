package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// TxOptions bounds the optimistic retry loop
type TxOptions struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultTxOptions returns the retry policy used when none is configured
func DefaultTxOptions() TxOptions {
	return TxOptions{
		MaxAttempts:    5,
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     250 * time.Millisecond,
	}
}

func (o TxOptions) withDefaults() TxOptions {
	d := DefaultTxOptions()
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = d.MaxAttempts
	}
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = d.InitialBackoff
	}
	if o.MaxBackoff < o.InitialBackoff {
		o.MaxBackoff = max(d.MaxBackoff, o.InitialBackoff)
	}
	return o
}

// Tx is the view a transaction function gets of its snapshots. It is only
// valid for the attempt it was handed to.
type Tx struct {
	attempt int
	reads   map[Key]Document
	order   []Key
	writes  map[Key][]byte
}

// Attempt returns the 1-based attempt number
func (tx *Tx) Attempt() int {
	return tx.attempt
}

// Get returns the snapshot of key taken at the start of this attempt
func (tx *Tx) Get(key Key) (Document, bool) {
	doc, ok := tx.reads[key]
	return doc, ok
}

// Put stages a new payload for key. Only keys in the read set can be written.
func (tx *Tx) Put(key Key, data []byte) error {
	if _, ok := tx.reads[key]; !ok {
		return fmt.Errorf("%w: %s", ErrWriteOutsideReadSet, key)
	}
	if _, staged := tx.writes[key]; !staged {
		tx.order = append(tx.order, key)
	}
	tx.writes[key] = data
	return nil
}

func (tx *Tx) pending() ([]Document, []Write) {
	reads := make([]Document, 0, len(tx.reads))
	for _, doc := range tx.reads {
		reads = append(reads, doc)
	}
	writes := make([]Write, 0, len(tx.order))
	for _, key := range tx.order {
		writes = append(writes, Write{Key: key, Data: tx.writes[key]})
	}
	return reads, writes
}

// Transact runs fn as one optimistic unit over keys. Every attempt takes
// fresh snapshots, so fn must compute its writes from them alone. Errors
// returned by fn abort without retry. When every attempt loses a race the
// returned error wraps ErrConflict.
func Transact(ctx context.Context, store Store, opts TxOptions, keys []Key, fn func(tx *Tx) error) error {
	opts = opts.withDefaults()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.InitialBackoff
	b.MaxInterval = opts.MaxBackoff
	b.Reset()

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		lastErr = runAttempt(ctx, store, attempt, keys, fn)
		if lastErr == nil || !errors.Is(lastErr, ErrConflict) {
			return lastErr
		}
		if attempt == opts.MaxAttempts {
			break
		}

		wait := b.NextBackOff()
		slog.Debug("transaction conflict, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", wait),
		)
		if wait == backoff.Stop {
			break
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", opts.MaxAttempts, lastErr)
}

func runAttempt(ctx context.Context, store Store, attempt int, keys []Key, fn func(tx *Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &Tx{
		attempt: attempt,
		reads:   make(map[Key]Document, len(keys)),
		writes:  make(map[Key][]byte),
	}
	for _, key := range keys {
		if _, seen := tx.reads[key]; seen {
			continue
		}
		doc, err := store.Get(ctx, key)
		if err != nil {
			return err
		}
		tx.reads[key] = doc
	}

	if err := fn(tx); err != nil {
		return err
	}

	reads, writes := tx.pending()
	if len(writes) == 0 {
		return nil
	}
	return store.Commit(ctx, reads, writes)
}
