package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new appointment, assigning its ID and audit stamps.
	Create(ctx context.Context, a *Appointment) error

	// GetByID returns ErrAppointmentNotFound when no record exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Save fully replaces an existing record and refreshes UpdatedAt.
	Save(ctx context.Context, a *Appointment) error

	// FindInRange returns one page of appointments whose start time falls in
	// [start, end], ordered by start time descending.
	FindInRange(ctx context.Context, start, end time.Time, pageIndex, pageSize int) (*PagedAppointments, error)
}
