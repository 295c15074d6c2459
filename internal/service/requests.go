package service

import (
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/appointment"
)

// Wire-level requests. Timestamps arrive as ISO-8601 strings and are parsed
// during validation; enums arrive as strings with a blank/"unspecified" zero
// value that is never legal.

type CreateAppointmentRequest struct {
	PatientID  string
	ProviderID string
	StartTime  string
	EndTime    string
	Type       appointment.AppointmentType
	Notes      string
	Reason     string
}

type UpdateAppointmentRequest struct {
	ID         string
	PatientID  string
	ProviderID string
	StartTime  string
	EndTime    string
	Type       appointment.AppointmentType
	Notes      string
	Reason     string
}

type GetAppointmentRequest struct {
	ID string
}

type CancelAppointmentRequest struct {
	ID                 string
	CancellationReason string
}

type ChangeAppointmentStatusRequest struct {
	ID     string
	Status appointment.AppointmentStatus
}

type ListAppointmentsRequest struct {
	PatientID  string
	ProviderID string
	StartDate  string
	EndDate    string
	PageSize   int
	PageToken  string
}

type PredictNoShowRequest struct {
	ID string
}

type ListAppointmentsResult struct {
	Appointments  []*appointment.Appointment
	TotalCount    int64
	NextPageToken string
	HasMore       bool
}
