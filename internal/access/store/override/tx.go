package override

import (
	"context"
	"database/sql"
	"sync"
	"time"

	dErrors "hospital/pkg/domain-errors"
	txcontext "hospital/pkg/platform/tx"
)

// defaultTxTimeout bounds a transaction when the caller set no deadline.
const defaultTxTimeout = 5 * time.Second

// InMemoryTx serializes transactions over an InMemoryStore with one lock and
// restores the previous contents when fn fails.
type InMemoryTx struct {
	mu    sync.Mutex
	store *InMemoryStore
}

func NewInMemoryTx(store *InMemoryStore) *InMemoryTx {
	return &InMemoryTx{store: store}
}

func (t *InMemoryTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := t.store.snapshot()
	if err := fn(ctx, t.store); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// PostgresTx runs fn inside BEGIN ... COMMIT. The transaction travels in the
// context handed to fn, so every PostgresStore call made with it joins the
// transaction.
type PostgresTx struct {
	db      *sql.DB
	store   *PostgresStore
	timeout time.Duration
}

func NewPostgresTx(db *sql.DB) *PostgresTx {
	return &PostgresTx{db: db, store: NewPostgres(db)}
}

// WithTimeout overrides the default transaction timeout.
func (t *PostgresTx) WithTimeout(d time.Duration) *PostgresTx {
	t.timeout = d
	return t
}

func (t *PostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx), t.store); err != nil {
		return err
	}
	return tx.Commit()
}
