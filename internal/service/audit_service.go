package service

import (
	"context"
	"sync"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medschedule/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/metrics"
	"go.uber.org/zap"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

type AuditService struct {
	repo    AuditRepository
	metrics *metrics.Collector
	log     *zap.Logger

	mu      sync.RWMutex
	closed  bool
	entries chan *domain.AuditLog
	done    chan struct{}
}

func NewAuditService(repo AuditRepository, bufferSize int, m *metrics.Collector, log *zap.Logger) *AuditService {
	svc := &AuditService{
		repo:    repo,
		metrics: m,
		log:     log,
		entries: make(chan *domain.AuditLog, bufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// LogAsync enqueues an audit entry for async persistence.
// If the buffer is full or the service is shut down, the entry is dropped
// and a warning is emitted.
func (s *AuditService) LogAsync(ctx context.Context, action domain.AuditAction, entry AuditEntry) {
	meta := RequestMetaFrom(ctx)
	al := &domain.AuditLog{
		Action:       action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		RequestID:    meta.RequestID,
		IPAddress:    meta.IPAddress,
		Changes:      entry.Changes,
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.drop(al, "audit service stopped, dropping entry")
		return
	}

	select {
	case s.entries <- al:
	default:
		s.drop(al, "audit log buffer full, dropping entry")
	}
}

func (s *AuditService) drop(al *domain.AuditLog, msg string) {
	s.metrics.AuditBufferDropped.Inc()
	s.log.Warn(msg,
		zap.String("action", string(al.Action)),
		zap.String("resource", al.ResourceType),
	)
}

// Shutdown stops accepting entries and waits up to timeout for the worker
// to flush what is buffered.
func (s *AuditService) Shutdown(timeout time.Duration) {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.entries)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
	case <-time.After(timeout):
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit log", zap.Error(err))
		} else {
			s.metrics.AuditEntriesTotal.Inc()
		}
		cancel()
	}
}

