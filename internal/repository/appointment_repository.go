package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/carebook/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository struct {
	db      *gorm.DB
	metrics *metrics.Collector
}

func NewAppointmentRepository(db *gorm.DB, m *metrics.Collector) *AppointmentRepository {
	return &AppointmentRepository{db: db, metrics: m}
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

func observeQuery(m *metrics.Collector, operation, table string, start time.Time) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	defer observeQuery(r.metrics, "insert", "appointments", time.Now())
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("inserting appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	defer observeQuery(r.metrics, "select", "appointments", time.Now())

	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("fetching appointment %s: %w", id, err)
	}
	return &a, nil
}

func (r *AppointmentRepository) Save(ctx context.Context, a *appointment.Appointment) error {
	defer observeQuery(r.metrics, "update", "appointments", time.Now())

	a.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("id = ?", a.ID).
		Select("*").Omit("id", "created_at").
		Updates(a)
	if res.Error != nil {
		return fmt.Errorf("saving appointment %s: %w", a.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return appointment.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) FindInRange(ctx context.Context, start, end time.Time, pageIndex, pageSize int) (*appointment.PagedAppointments, error) {
	defer observeQuery(r.metrics, "select", "appointments", time.Now())

	var total int64
	err := r.db.WithContext(ctx).Model(&appointment.Appointment{}).
		Where("start_time BETWEEN ? AND ?", start, end).
		Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("counting appointments in range: %w", err)
	}

	var items []*appointment.Appointment
	err = r.db.WithContext(ctx).
		Where("start_time BETWEEN ? AND ?", start, end).
		Order("start_time DESC").
		Offset(pageIndex * pageSize).
		Limit(pageSize).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("querying appointments in range: %w", err)
	}

	return &appointment.PagedAppointments{
		Appointments: items,
		TotalCount:   total,
		HasMore:      int64((pageIndex+1)*pageSize) < total,
	}, nil
}
