package service

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carebook/pkg/metrics"
	"go.uber.org/zap"
)

type AuditRepository interface {
	Create(ctx context.Context, event *domain.AuditEvent) error
}

type requestIDKey struct{}

// WithRequestID stamps the inbound request ID onto ctx so audit events can
// be correlated with the HTTP access log.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type AuditEntry struct {
	Action       string
	ResourceType string
	ResourceID   string
	RequestID    string
	Changes      string
}

type AuditService struct {
	repo    AuditRepository
	log     *zap.Logger
	metrics *metrics.Collector
	entries chan *domain.AuditEvent
	done    chan struct{}
}

const auditBufferSize = 10_000

func NewAuditService(repo AuditRepository, m *metrics.Collector, log *zap.Logger) *AuditService {
	svc := &AuditService{
		repo:    repo,
		log:     log,
		metrics: m,
		entries: make(chan *domain.AuditEvent, auditBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// LogAsync enqueues an audit event for async persistence.
// If the buffer is full, the event is dropped and a warning is emitted.
func (s *AuditService) LogAsync(ctx context.Context, entry AuditEntry) {
	ev := &domain.AuditEvent{
		Action:       domain.AuditAction(entry.Action),
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		RequestID:    entry.RequestID,
		Changes:      entry.Changes,
	}

	select {
	case s.entries <- ev:
	default:
		s.log.Warn("audit event buffer full, dropping event",
			zap.String("action", entry.Action),
			zap.String("resource", entry.ResourceType),
		)
		if s.metrics != nil {
			s.metrics.AuditBufferDropped.Inc()
		}
	}
}

func (s *AuditService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit service shutdown timed out; some events may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for ev := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, ev); err != nil {
			s.log.Error("failed to persist audit event", zap.Error(err))
		} else if s.metrics != nil {
			s.metrics.AuditEntriesTotal.Inc()
		}
		cancel()
	}
}
