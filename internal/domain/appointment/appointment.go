package appointment

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentType string

const (
	TypeConsultation AppointmentType = "consultation"
	TypeFollowUp     AppointmentType = "follow_up"
	TypeCheckUp      AppointmentType = "check_up"
	TypeEmergency    AppointmentType = "emergency"
	TypeSpecialist   AppointmentType = "specialist"
)

func (t AppointmentType) IsValid() bool {
	switch t {
	case TypeConsultation, TypeFollowUp, TypeCheckUp, TypeEmergency, TypeSpecialist:
		return true
	}
	return false
}

// State transitions possibilities:
//
//	scheduled → confirmed → completed
//	scheduled → cancelled
//	confirmed → cancelled
//	scheduled → no_show (if patient doesn't arrive)
//	confirmed → no_show (if patient doesn't arrive)
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID  string `gorm:"column:patient_id;type:varchar(100);not null;index"`
	ProviderID string `gorm:"column:provider_id;type:varchar(100);not null;index"`

	StartTime time.Time `gorm:"column:start_time;not null;index"`
	EndTime   time.Time `gorm:"column:end_time;not null"`

	Status AppointmentStatus `gorm:"column:status;type:varchar(30);not null;default:'scheduled';index"`
	Type   AppointmentType   `gorm:"column:type;type:varchar(50);not null;index"`

	Notes  string `gorm:"column:notes;type:text"`
	Reason string `gorm:"column:reason;type:text"`

	// Cancellation tracking
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason string     `gorm:"column:cancellation_reason;type:text"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

func (a *Appointment) CanTransitionTo(newStatus AppointmentStatus) bool {
	allowed := map[AppointmentStatus][]AppointmentStatus{
		StatusScheduled: {StatusConfirmed, StatusCancelled, StatusNoShow},
		StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
		StatusCompleted: {},
		StatusCancelled: {},
		StatusNoShow:    {},
	}

	for _, s := range allowed[a.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo moves the appointment to newStatus, rejecting transitions
// the table above does not allow.
func (a *Appointment) TransitionTo(newStatus AppointmentStatus) error {
	if !a.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition
	}
	a.Status = newStatus
	return nil
}

func (a *Appointment) Cancel(reason string) error {
	if err := a.TransitionTo(StatusCancelled); err != nil {
		return err
	}
	now := time.Now().UTC()
	a.CancelledAt = &now
	a.CancellationReason = reason
	return nil
}

type PagedAppointments struct {
	Appointments []*Appointment
	TotalCount   int64
	HasMore      bool
}
