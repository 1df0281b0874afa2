package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clinicore/clinicore/internal/domain"
	"github.com/google/uuid"
)

// AuditStore keeps the most recent audit entries in a capped ring. The cap
// bounds memory for a long-lived process; the oldest entries fall off first.
type AuditStore struct {
	mu      sync.RWMutex
	entries []*domain.AuditLog
	cap     int
}

const defaultAuditCap = 10_000

func NewAuditStore() *AuditStore {
	return &AuditStore{cap: defaultAuditCap}
}

func (s *AuditStore) Create(ctx context.Context, entry *domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = uuid.New()
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}

	cp := *entry
	s.entries = append(s.entries, &cp)
	if len(s.entries) > s.cap {
		s.entries = s.entries[len(s.entries)-s.cap:]
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *AuditStore) Recent(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}

	out := make([]*domain.AuditLog, 0, limit)
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *s.entries[i]
		out = append(out, &cp)
	}
	return out, nil
}
