// Package audit delivers permission audit entries to their sinks.
//
// Delivery is advisory. A Publisher reports failure to its caller, and the
// administration service logs it without failing the mutation that produced
// the entry.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hospital/internal/access/models"
	"hospital/internal/access/store/auditlog"
)

// Publisher delivers one audit entry.
type Publisher interface {
	Publish(ctx context.Context, entry *models.AuditEntry) error
}

// Nop discards entries. It stands in when no audit sink is configured.
type Nop struct{}

func (Nop) Publish(context.Context, *models.AuditEntry) error { return nil }

// StorePublisher appends entries to an audit log store.
type StorePublisher struct {
	store auditlog.Store
}

func NewStorePublisher(store auditlog.Store) *StorePublisher {
	return &StorePublisher{store: store}
}

func (p *StorePublisher) Publish(ctx context.Context, entry *models.AuditEntry) error {
	if !entry.Action.IsValid() {
		return fmt.Errorf("audit entry has invalid action %q", entry.Action)
	}
	if entry.PerformedBy == "" {
		return fmt.Errorf("audit entry requires performed_by")
	}
	if err := p.store.Append(ctx, entry); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// Multi publishes to every sink in order. One failing sink does not stop
// delivery to the others.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, entry *models.AuditEntry) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, entry); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Optional delivers to a secondary sink. Its failures are logged and
// swallowed so they are not counted as a lost audit entry.
type Optional struct {
	Publisher Publisher
	Logger    *slog.Logger
}

func (o Optional) Publish(ctx context.Context, entry *models.AuditEntry) error {
	err := o.Publisher.Publish(ctx, entry)
	if err == nil || o.Logger == nil {
		return nil
	}
	level := slog.LevelWarn
	if errors.Is(err, ErrCircuitOpen) {
		level = slog.LevelDebug
	}
	o.Logger.Log(ctx, level, "optional audit sink skipped entry",
		"action", entry.Action,
		"error", err,
	)
	return nil
}

var (
	_ Publisher = Nop{}
	_ Publisher = Optional{}
	_ Publisher = (*StorePublisher)(nil)
	_ Publisher = Multi(nil)
	_ Publisher = (*Stream)(nil)
)
