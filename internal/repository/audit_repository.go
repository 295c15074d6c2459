package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carebook/pkg/metrics"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db      *gorm.DB
	metrics *metrics.Collector
}

func NewAuditRepository(db *gorm.DB, m *metrics.Collector) *AuditRepository {
	return &AuditRepository{db: db, metrics: m}
}

func (r *AuditRepository) Create(ctx context.Context, event *domain.AuditEvent) error {
	defer observeQuery(r.metrics, "insert", "audit_events", time.Now())
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}
	return nil
}
