package service

import (
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/appointment"
)

const (
	maxReasonLength = 500
	maxNotesLength  = 1000
)

// Validators are pure: no state is touched, and results are deterministic
// given the same request and the same now.

func validateCreateRequest(req *CreateAppointmentRequest, now time.Time) (start, end time.Time, err error) {
	if strings.TrimSpace(req.PatientID) == "" {
		return start, end, InvalidArgument("patient ID is required")
	}
	if strings.TrimSpace(req.ProviderID) == "" {
		return start, end, InvalidArgument("provider ID is required")
	}
	if err := validateType(string(req.Type)); err != nil {
		return start, end, err
	}

	start, err = parseDateTime(req.StartTime, "start time")
	if err != nil {
		return start, end, err
	}
	end, err = parseDateTime(req.EndTime, "end time")
	if err != nil {
		return start, end, err
	}

	if err := validateWindow(start, end, now); err != nil {
		return start, end, err
	}
	if err := validateFreeText(req.Reason, req.Notes); err != nil {
		return start, end, err
	}
	return start, end, nil
}

func validateUpdateRequest(req *UpdateAppointmentRequest, now time.Time) (start, end time.Time, err error) {
	if strings.TrimSpace(req.ID) == "" {
		return start, end, InvalidArgument("appointment ID is required")
	}
	if strings.TrimSpace(req.PatientID) == "" {
		return start, end, InvalidArgument("patient ID is required")
	}
	if strings.TrimSpace(req.ProviderID) == "" {
		return start, end, InvalidArgument("provider ID is required")
	}
	if err := validateType(string(req.Type)); err != nil {
		return start, end, err
	}

	start, err = parseDateTime(req.StartTime, "start time")
	if err != nil {
		return start, end, err
	}
	end, err = parseDateTime(req.EndTime, "end time")
	if err != nil {
		return start, end, err
	}

	if err := validateWindow(start, end, now); err != nil {
		return start, end, err
	}
	if err := validateFreeText(req.Reason, req.Notes); err != nil {
		return start, end, err
	}
	return start, end, nil
}

func validateCancelRequest(req *CancelAppointmentRequest) error {
	if strings.TrimSpace(req.ID) == "" {
		return InvalidArgument("appointment ID is required")
	}
	if strings.TrimSpace(req.CancellationReason) == "" {
		return InvalidArgument("cancellation reason is required")
	}
	if len(req.CancellationReason) > maxReasonLength {
		return InvalidArgument("cancellation reason is too long (max %d characters)", maxReasonLength)
	}
	return nil
}

func validateGetRequest(id string) error {
	if strings.TrimSpace(id) == "" {
		return InvalidArgument("appointment ID is required")
	}
	return nil
}

func validateListRequest(req *ListAppointmentsRequest) (start, end time.Time, err error) {
	if strings.TrimSpace(req.PatientID) == "" && strings.TrimSpace(req.ProviderID) == "" {
		return start, end, InvalidArgument("either patient ID or provider ID is required")
	}
	if req.PageSize < 0 {
		return start, end, InvalidArgument("page size must not be negative")
	}

	start, err = parseDateTime(req.StartDate, "start date")
	if err != nil {
		return start, end, err
	}
	end, err = parseDateTime(req.EndDate, "end date")
	if err != nil {
		return start, end, err
	}
	return start, end, nil
}

func validateType(t string) error {
	switch t {
	case "", "unspecified":
		return InvalidArgument("appointment type is required")
	}
	if !appointment.AppointmentType(t).IsValid() {
		return InvalidArgument("invalid appointment type %q", t)
	}
	return nil
}

func validateWindow(start, end, now time.Time) error {
	if !end.After(start) {
		return InvalidArgument("end time must be after start time")
	}
	if !start.After(now) {
		return InvalidArgument("start time must be in the future")
	}
	if !end.After(now) {
		return InvalidArgument("end time must be in the future")
	}
	return nil
}

func validateFreeText(reason, notes string) error {
	if len(reason) > maxReasonLength {
		return InvalidArgument("reason is too long (max %d characters)", maxReasonLength)
	}
	if len(notes) > maxNotesLength {
		return InvalidArgument("notes are too long (max %d characters)", maxNotesLength)
	}
	return nil
}

func parseDateTime(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, InvalidArgument("%s is not a valid ISO date-time", fieldName)
	}
	return t.UTC(), nil
}
