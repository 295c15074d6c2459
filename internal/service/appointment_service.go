package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/prediction"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/pagination"
	"github.com/dmehra2102/prod-golang-projects/carebook/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AppointmentService orchestrates the appointment use cases: every operation
// validates its request, loads or constructs the domain object, delegates to
// the store or prediction client, and maps the result or a typed failure.
type AppointmentService struct {
	repo      appointment.Repository
	predictor prediction.Client
	auditSvc  *AuditService
	metrics   *metrics.Collector
	log       *zap.Logger
}

func NewAppointmentService(
	repo appointment.Repository,
	predictor prediction.Client,
	auditSvc *AuditService,
	m *metrics.Collector,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{repo: repo, predictor: predictor, auditSvc: auditSvc, metrics: m, log: log}
}

func (s *AppointmentService) CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*appointment.Appointment, error) {
	start, end, err := validateCreateRequest(req, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	a := &appointment.Appointment{
		PatientID:  strings.TrimSpace(req.PatientID),
		ProviderID: strings.TrimSpace(req.ProviderID),
		StartTime:  start,
		EndTime:    end,
		Status:     appointment.StatusScheduled,
		Type:       req.Type,
		Notes:      req.Notes,
		Reason:     req.Reason,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, Internal(err, "creating appointment")
	}

	if s.metrics != nil {
		s.metrics.AppointmentsCreatedTotal.Inc()
	}
	s.audit(ctx, AuditEntry{
		Action:       string(domain.ActionCreate),
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
	})

	return a, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, req *GetAppointmentRequest) (*appointment.Appointment, error) {
	if err := validateGetRequest(req.ID); err != nil {
		return nil, err
	}
	return s.load(ctx, req.ID)
}

func (s *AppointmentService) ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResult, error) {
	start, end, err := validateListRequest(req)
	if err != nil {
		return nil, err
	}

	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = pagination.DefaultPageSize
	}
	pageIndex := pagination.DecodePageToken(req.PageToken)

	page, err := s.repo.FindInRange(ctx, start, end, pageIndex, pageSize)
	if err != nil {
		s.log.Error("failed to list appointments", zap.Error(err))
		return nil, Internal(err, "listing appointments")
	}

	result := &ListAppointmentsResult{
		Appointments: page.Appointments,
		TotalCount:   page.TotalCount,
		HasMore:      page.HasMore,
	}
	if page.HasMore {
		result.NextPageToken = pagination.EncodePageToken(pageIndex + 1)
	}
	return result, nil
}

func (s *AppointmentService) UpdateAppointment(ctx context.Context, req *UpdateAppointmentRequest) (*appointment.Appointment, error) {
	start, end, err := validateUpdateRequest(req, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	a, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// Field replacement preserves ID, Status, and CreatedAt.
	a.PatientID = strings.TrimSpace(req.PatientID)
	a.ProviderID = strings.TrimSpace(req.ProviderID)
	a.StartTime = start
	a.EndTime = end
	a.Type = req.Type
	a.Notes = req.Notes
	a.Reason = req.Reason

	if err := s.repo.Save(ctx, a); err != nil {
		s.log.Error("failed to update appointment", zap.Error(err), zap.String("id", a.ID.String()))
		return nil, Internal(err, "updating appointment")
	}

	s.audit(ctx, AuditEntry{
		Action:       string(domain.ActionUpdate),
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
	})

	return a, nil
}

func (s *AppointmentService) CancelAppointment(ctx context.Context, req *CancelAppointmentRequest) (*appointment.Appointment, error) {
	if err := validateCancelRequest(req); err != nil {
		return nil, err
	}

	a, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// Cancelling twice is an idempotent no-op.
	if a.Status == appointment.StatusCancelled {
		return a, nil
	}

	if err := a.Cancel(req.CancellationReason); err != nil {
		return nil, InvalidArgument("cannot cancel a %s appointment", a.Status)
	}

	if err := s.repo.Save(ctx, a); err != nil {
		s.log.Error("failed to cancel appointment", zap.Error(err), zap.String("id", a.ID.String()))
		return nil, Internal(err, "cancelling appointment")
	}

	if s.metrics != nil {
		s.metrics.AppointmentsTotal.WithLabelValues(string(appointment.StatusCancelled)).Inc()
	}
	s.audit(ctx, AuditEntry{
		Action:       string(domain.ActionCancel),
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		Changes:      fmt.Sprintf(`{"status":"cancelled","reason":%q}`, req.CancellationReason),
	})

	return a, nil
}

func (s *AppointmentService) ChangeAppointmentStatus(ctx context.Context, req *ChangeAppointmentStatusRequest) (*appointment.Appointment, error) {
	if err := validateGetRequest(req.ID); err != nil {
		return nil, err
	}
	if !req.Status.IsValid() {
		return nil, InvalidArgument("appointment status is required")
	}

	a, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// No-show can only be recorded once the scheduled start has elapsed.
	if req.Status == appointment.StatusNoShow && a.StartTime.After(time.Now().UTC()) {
		return nil, InvalidArgument("%s", appointment.ErrNoShowBeforeScheduledTime)
	}

	if err := a.TransitionTo(req.Status); err != nil {
		return nil, InvalidArgument("cannot transition appointment from %s to %s", a.Status, req.Status)
	}

	if err := s.repo.Save(ctx, a); err != nil {
		s.log.Error("failed to change appointment status", zap.Error(err), zap.String("id", a.ID.String()))
		return nil, Internal(err, "changing appointment status")
	}

	if s.metrics != nil {
		s.metrics.AppointmentsTotal.WithLabelValues(string(req.Status)).Inc()
	}
	s.audit(ctx, AuditEntry{
		Action:       string(domain.ActionStatusChange),
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
		Changes:      fmt.Sprintf(`{"status":%q}`, req.Status),
	})

	return a, nil
}

func (s *AppointmentService) PredictNoShow(ctx context.Context, req *PredictNoShowRequest) (*prediction.NoShowPrediction, error) {
	if err := validateGetRequest(req.ID); err != nil {
		return nil, err
	}

	a, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	in := prediction.Input{
		PatientID:     a.PatientID,
		ProviderID:    a.ProviderID,
		AppointmentID: a.ID.String(),
		StartTime:     a.StartTime,
		Type:          a.Type,
		Features:      deriveFeatures(a),
	}

	started := time.Now()
	pred, err := s.predictor.PredictNoShow(ctx, in)
	if s.metrics != nil {
		s.metrics.PredictionDuration.Observe(time.Since(started).Seconds())
	}
	if err != nil {
		s.log.Error("prediction service call failed", zap.Error(err), zap.String("id", a.ID.String()))
		if s.metrics != nil {
			s.metrics.PredictionsTotal.WithLabelValues("error").Inc()
		}
		return nil, Unavailable(err, "predicting no-show")
	}

	if s.metrics != nil {
		s.metrics.PredictionsTotal.WithLabelValues("success").Inc()
	}
	s.audit(ctx, AuditEntry{
		Action:       string(domain.ActionPredict),
		ResourceType: "appointment",
		ResourceID:   a.ID.String(),
	})

	return pred, nil
}

// deriveFeatures builds the mandatory derived features the model expects:
// the uppercase English weekday name and the wall-clock time of day of the
// appointment start.
func deriveFeatures(a *appointment.Appointment) map[string]string {
	return map[string]string{
		"dayOfWeek": strings.ToUpper(a.StartTime.Weekday().String()),
		"timeOfDay": a.StartTime.Format("15:04:05"),
	}
}

func (s *AppointmentService) load(ctx context.Context, rawID string) (*appointment.Appointment, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, InvalidArgument("appointment ID must be a valid UUID")
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointment.ErrAppointmentNotFound) {
			return nil, NotFound("appointment not found with ID: %s", rawID)
		}
		s.log.Error("failed to fetch appointment", zap.Error(err), zap.String("id", rawID))
		return nil, Internal(err, "fetching appointment")
	}
	return a, nil
}

func (s *AppointmentService) audit(ctx context.Context, entry AuditEntry) {
	if s.auditSvc == nil {
		return
	}
	entry.RequestID = RequestIDFromContext(ctx)
	s.auditSvc.LogAsync(ctx, entry)
}
