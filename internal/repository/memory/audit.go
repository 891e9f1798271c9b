package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain"
)

// AuditLog keeps audit entries in insertion order.
type AuditLog struct {
	mu      sync.Mutex
	seq     int64
	entries []domain.AuditLog
}

func NewAuditRepository() *AuditLog {
	return &AuditLog{}
}

func (l *AuditLog) Create(ctx context.Context, entry *domain.AuditLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry.ID = l.seq
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	l.entries = append(l.entries, *entry)
	return nil
}

func (l *AuditLog) Entries() []domain.AuditLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.AuditLog, len(l.entries))
	copy(out, l.entries)
	return out
}
