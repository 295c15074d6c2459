package appointment

import "errors"

var (
	ErrAppointmentNotFound       = errors.New("appointment not found")
	ErrInvalidStatusTransition   = errors.New("invalid appointment status transition")
	ErrInvalidAppointmentType    = errors.New("invalid appointment type")
	ErrInvalidAppointmentStatus  = errors.New("invalid appointment status")
	ErrNoShowBeforeScheduledTime = errors.New("appointment cannot be marked no-show before its scheduled start")
)
