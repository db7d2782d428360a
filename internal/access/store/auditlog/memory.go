package auditlog

import (
	"context"
	"slices"
	"sync"

	"hospital/internal/access/models"
)

// InMemoryStore keeps entries in insertion order. Entries with equal
// timestamps are returned in reverse insertion order.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []*models.AuditEntry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entry *models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *entry
	s.entries = append(s.entries, &c)
	return nil
}

func (s *InMemoryStore) Recent(_ context.Context, limit int) ([]*models.AuditEntry, error) {
	out := s.newestFirst(models.AuditFilter{})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) ListByRole(_ context.Context, role models.Role) ([]*models.AuditEntry, error) {
	return s.newestFirst(models.AuditFilter{Role: role}), nil
}

func (s *InMemoryStore) ListByUsername(_ context.Context, username string) ([]*models.AuditEntry, error) {
	return s.newestFirst(models.AuditFilter{Username: username}), nil
}

func (s *InMemoryStore) Page(_ context.Context, page, size int, filter models.AuditFilter) ([]*models.AuditEntry, int, error) {
	all := s.newestFirst(filter)
	total := len(all)
	if page < 0 || size <= 0 || page > total/size {
		return []*models.AuditEntry{}, total, nil
	}
	start := page * size
	if start >= total {
		return []*models.AuditEntry{}, total, nil
	}
	end := start + min(size, total-start)
	return all[start:end], total, nil
}

// Clear drops every entry.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

func (s *InMemoryStore) newestFirst(filter models.AuditFilter) []*models.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.AuditEntry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		if filter.Matches(s.entries[i]) {
			c := *s.entries[i]
			out = append(out, &c)
		}
	}
	slices.SortStableFunc(out, func(a, b *models.AuditEntry) int {
		return b.PerformedAt.Compare(a.PerformedAt)
	})
	return out
}
