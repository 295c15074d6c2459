package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/prediction"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]appointment.Appointment

	createErr error
	saveErr   error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: make(map[uuid.UUID]appointment.Appointment)}
}

func (r *memoryRepo) Create(_ context.Context, a *appointment.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New()
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.items[a.ID] = *a
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	copied := a
	return &copied, nil
}

func (r *memoryRepo) Save(_ context.Context, a *appointment.Appointment) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	a.UpdatedAt = time.Now().UTC()
	r.items[a.ID] = *a
	return nil
}

func (r *memoryRepo) FindInRange(_ context.Context, start, end time.Time, pageIndex, pageSize int) (*appointment.PagedAppointments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*appointment.Appointment
	for _, a := range r.items {
		if !a.StartTime.Before(start) && !a.StartTime.After(end) {
			copied := a
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartTime.After(matched[j].StartTime)
	})

	total := int64(len(matched))
	offset := pageIndex * pageSize
	if offset > len(matched) {
		offset = len(matched)
	}
	limit := offset + pageSize
	if limit > len(matched) {
		limit = len(matched)
	}

	return &appointment.PagedAppointments{
		Appointments: matched[offset:limit],
		TotalCount:   total,
		HasMore:      int64((pageIndex+1)*pageSize) < total,
	}, nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type stubPredictor struct {
	lastInput prediction.Input
	result    *prediction.NoShowPrediction
	err       error
}

func (p *stubPredictor) PredictNoShow(_ context.Context, in prediction.Input) (*prediction.NoShowPrediction, error) {
	p.lastInput = in
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func newTestService(repo appointment.Repository, predictor prediction.Client) *AppointmentService {
	return NewAppointmentService(repo, predictor, nil, nil, zap.NewNop())
}

func futureCreateRequest(offset time.Duration) *CreateAppointmentRequest {
	start := time.Now().UTC().Add(offset)
	return &CreateAppointmentRequest{
		PatientID:  "P1",
		ProviderID: "D1",
		StartTime:  start.Format(time.RFC3339),
		EndTime:    start.Add(30 * time.Minute).Format(time.RFC3339),
		Type:       appointment.TypeConsultation,
	}
}

func TestCreateGetListRoundTrip(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubPredictor{})
	ctx := context.Background()

	created, err := svc.CreateAppointment(ctx, futureCreateRequest(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, appointment.StatusScheduled, created.Status)

	got, err := svc.GetAppointment(ctx, &GetAppointmentRequest{ID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "P1", got.PatientID)

	now := time.Now().UTC()
	result, err := svc.ListAppointments(ctx, &ListAppointmentsRequest{
		PatientID: "P1",
		StartDate: now.Format(time.RFC3339),
		EndDate:   now.Add(2 * time.Hour).Format(time.RFC3339),
		PageSize:  10,
	})
	require.NoError(t, err)
	require.Len(t, result.Appointments, 1)
	assert.Equal(t, created.ID, result.Appointments[0].ID)
	assert.Equal(t, int64(1), result.TotalCount)
	assert.False(t, result.HasMore)
	assert.Empty(t, result.NextPageToken, "no next-page token on the last page")
}

func TestCreateAppointmentPastStartPersistsNothing(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubPredictor{})

	req := futureCreateRequest(-time.Hour)
	_, err := svc.CreateAppointment(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	assert.Zero(t, repo.count(), "nothing may be persisted on validation failure")
}

func TestCreateAppointmentStoreFailureIsInternal(t *testing.T) {
	repo := newMemoryRepo()
	repo.createErr = errors.New("connection reset")
	svc := newTestService(repo, &stubPredictor{})

	_, err := svc.CreateAppointment(context.Background(), futureCreateRequest(time.Hour))
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestGetAppointmentNotFound(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &stubPredictor{})

	_, err := svc.GetAppointment(context.Background(), &GetAppointmentRequest{ID: uuid.NewString()})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGetAppointmentMalformedID(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &stubPredictor{})

	_, err := svc.GetAppointment(context.Background(), &GetAppointmentRequest{ID: "not-a-uuid"})
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestListAppointmentsPagination(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubPredictor{})
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		_, err := svc.CreateAppointment(ctx, futureCreateRequest(time.Duration(i)*time.Hour))
		require.NoError(t, err)
	}

	now := time.Now().UTC()
	listReq := &ListAppointmentsRequest{
		PatientID: "P1",
		StartDate: now.Format(time.RFC3339),
		EndDate:   now.Add(4 * time.Hour).Format(time.RFC3339),
		PageSize:  2,
	}

	first, err := svc.ListAppointments(ctx, listReq)
	require.NoError(t, err)
	require.Len(t, first.Appointments, 2)
	assert.Equal(t, int64(3), first.TotalCount)
	assert.True(t, first.HasMore)
	assert.Equal(t, "1", first.NextPageToken)

	// Most recent start time first.
	assert.True(t, first.Appointments[0].StartTime.After(first.Appointments[1].StartTime))

	listReq.PageToken = first.NextPageToken
	second, err := svc.ListAppointments(ctx, listReq)
	require.NoError(t, err)
	require.Len(t, second.Appointments, 1)
	assert.False(t, second.HasMore)
	assert.Empty(t, second.NextPageToken)
}

func TestListAppointmentsDefaultsZeroPageSize(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubPredictor{})
	ctx := context.Background()

	_, err := svc.CreateAppointment(ctx, futureCreateRequest(time.Hour))
	require.NoError(t, err)

	now := time.Now().UTC()
	result, err := svc.ListAppointments(ctx, &ListAppointmentsRequest{
		PatientID: "P1",
		StartDate: now.Format(time.RFC3339),
		EndDate:   now.Add(2 * time.Hour).Format(time.RFC3339),
		PageSize:  0,
	})
	require.NoError(t, err)
	assert.Len(t, result.Appointments, 1)
}

func TestUpdateAppointmentPreservesIdentityAndStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubPredictor{})
	ctx := context.Background()

	created, err := svc.CreateAppointment(ctx, futureCreateRequest(time.Hour))
	require.NoError(t, err)

	confirmed, err := svc.ChangeAppointmentStatus(ctx, &ChangeAppointmentStatusRequest{
		ID:     created.ID.String(),
		Status: appointment.StatusConfirmed,
	})
	require.NoError(t, err)
	require.Equal(t, appointment.StatusConfirmed, confirmed.Status)

	newStart := time.Now().UTC().Add(3 * time.Hour)
	updated, err := svc.UpdateAppointment(ctx, &UpdateAppointmentRequest{
		ID:         created.ID.String(),
		PatientID:  "P2",
		ProviderID: "D2",
		StartTime:  newStart.Format(time.RFC3339),
		EndTime:    newStart.Add(time.Hour).Format(time.RFC3339),
		Type:       appointment.TypeFollowUp,
		Notes:      "bring referral letter",
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID, "update must not mint a new record")
	assert.Equal(t, appointment.StatusConfirmed, updated.Status, "update must not reset status")
	assert.Equal(t, "P2", updated.PatientID)
	assert.Equal(t, appointment.TypeFollowUp, updated.Type)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 1, repo.count())
}

func TestUpdateAppointmentNotFound(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &stubPredictor{})

	start := time.Now().UTC().Add(time.Hour)
	_, err := svc.UpdateAppointment(context.Background(), &UpdateAppointmentRequest{
		ID:         uuid.NewString(),
		PatientID:  "P1",
		ProviderID: "D1",
		StartTime:  start.Format(time.RFC3339),
		EndTime:    start.Add(time.Hour).Format(time.RFC3339),
		Type:       appointment.TypeCheckUp,
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCancelAppointmentIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubPredictor{})
	ctx := context.Background()

	created, err := svc.CreateAppointment(ctx, futureCreateRequest(time.Hour))
	require.NoError(t, err)

	cancelReq := &CancelAppointmentRequest{ID: created.ID.String(), CancellationReason: "patient travelling"}

	first, err := svc.CancelAppointment(ctx, cancelReq)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCancelled, first.Status)
	assert.Equal(t, "patient travelling", first.CancellationReason)
	require.NotNil(t, first.CancelledAt)

	second, err := svc.CancelAppointment(ctx, cancelReq)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCancelled, second.Status)
}

func TestCancelCompletedAppointmentFails(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubPredictor{})
	ctx := context.Background()

	created, err := svc.CreateAppointment(ctx, futureCreateRequest(time.Hour))
	require.NoError(t, err)

	_, err = svc.ChangeAppointmentStatus(ctx, &ChangeAppointmentStatusRequest{ID: created.ID.String(), Status: appointment.StatusConfirmed})
	require.NoError(t, err)
	_, err = svc.ChangeAppointmentStatus(ctx, &ChangeAppointmentStatusRequest{ID: created.ID.String(), Status: appointment.StatusCompleted})
	require.NoError(t, err)

	_, err = svc.CancelAppointment(ctx, &CancelAppointmentRequest{ID: created.ID.String(), CancellationReason: "oops"})
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestCancelAppointmentStoreFailureIsInternal(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubPredictor{})
	ctx := context.Background()

	created, err := svc.CreateAppointment(ctx, futureCreateRequest(time.Hour))
	require.NoError(t, err)

	repo.saveErr = errors.New("disk full")
	_, err = svc.CancelAppointment(ctx, &CancelAppointmentRequest{ID: created.ID.String(), CancellationReason: "sick"})
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestChangeStatusRejectsIllegalTransition(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubPredictor{})
	ctx := context.Background()

	created, err := svc.CreateAppointment(ctx, futureCreateRequest(time.Hour))
	require.NoError(t, err)

	_, err = svc.ChangeAppointmentStatus(ctx, &ChangeAppointmentStatusRequest{
		ID:     created.ID.String(),
		Status: appointment.StatusCompleted,
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestChangeStatusNoShowBeforeStartFails(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubPredictor{})
	ctx := context.Background()

	created, err := svc.CreateAppointment(ctx, futureCreateRequest(time.Hour))
	require.NoError(t, err)

	_, err = svc.ChangeAppointmentStatus(ctx, &ChangeAppointmentStatusRequest{
		ID:     created.ID.String(),
		Status: appointment.StatusNoShow,
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidArgument, KindOf(err))
}

func TestChangeStatusNoShowAfterStart(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, &stubPredictor{})
	ctx := context.Background()

	// Past-start records cannot be minted through the use case; seed directly.
	past := &appointment.Appointment{
		PatientID:  "P1",
		ProviderID: "D1",
		StartTime:  time.Now().UTC().Add(-time.Hour),
		EndTime:    time.Now().UTC().Add(-30 * time.Minute),
		Status:     appointment.StatusScheduled,
		Type:       appointment.TypeCheckUp,
	}
	require.NoError(t, repo.Create(ctx, past))

	updated, err := svc.ChangeAppointmentStatus(ctx, &ChangeAppointmentStatusRequest{
		ID:     past.ID.String(),
		Status: appointment.StatusNoShow,
	})
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusNoShow, updated.Status)
}

func TestPredictNoShowDerivesFeatures(t *testing.T) {
	repo := newMemoryRepo()
	predictor := &stubPredictor{
		result: &prediction.NoShowPrediction{
			Probability:    0.73,
			RiskLevel:      prediction.RiskHigh,
			Recommendation: "send a reminder 24h before",
			RiskFactors:    map[string]string{"history": "2 prior no-shows"},
		},
	}
	svc := newTestService(repo, predictor)
	ctx := context.Background()

	// 2026-08-31 is a Monday.
	monday := &appointment.Appointment{
		PatientID:  "P1",
		ProviderID: "D1",
		StartTime:  time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 8, 31, 9, 30, 0, 0, time.UTC),
		Status:     appointment.StatusScheduled,
		Type:       appointment.TypeConsultation,
	}
	require.NoError(t, repo.Create(ctx, monday))

	pred, err := svc.PredictNoShow(ctx, &PredictNoShowRequest{ID: monday.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, "MONDAY", predictor.lastInput.Features["dayOfWeek"])
	assert.Equal(t, "09:00:00", predictor.lastInput.Features["timeOfDay"])
	assert.Equal(t, "P1", predictor.lastInput.PatientID)
	assert.Equal(t, "D1", predictor.lastInput.ProviderID)
	assert.Equal(t, monday.ID.String(), predictor.lastInput.AppointmentID)
	assert.Equal(t, appointment.TypeConsultation, predictor.lastInput.Type)

	assert.Equal(t, 0.73, pred.Probability)
	assert.Equal(t, prediction.RiskHigh, pred.RiskLevel)
	assert.Equal(t, "send a reminder 24h before", pred.Recommendation)
	assert.Equal(t, map[string]string{"history": "2 prior no-shows"}, pred.RiskFactors)
}

func TestPredictNoShowUnavailableOnClientFailure(t *testing.T) {
	repo := newMemoryRepo()
	predictor := &stubPredictor{err: errors.New("dial tcp: connection refused")}
	svc := newTestService(repo, predictor)
	ctx := context.Background()

	created, err := svc.CreateAppointment(ctx, futureCreateRequest(time.Hour))
	require.NoError(t, err)

	_, err = svc.PredictNoShow(ctx, &PredictNoShowRequest{ID: created.ID.String()})
	require.Error(t, err)
	assert.Equal(t, KindUnavailable, KindOf(err))
}

func TestAuditEventsCarryContextRequestID(t *testing.T) {
	repo := newMemoryRepo()
	auditRepo := &memoryAuditRepo{}
	auditSvc := NewAuditService(auditRepo, nil, zap.NewNop())
	svc := NewAppointmentService(repo, &stubPredictor{}, auditSvc, nil, zap.NewNop())

	ctx := WithRequestID(context.Background(), "req-123")
	created, err := svc.CreateAppointment(ctx, futureCreateRequest(time.Hour))
	require.NoError(t, err)

	auditSvc.Shutdown()
	events := auditRepo.all()
	require.Len(t, events, 1)
	assert.Equal(t, "req-123", events[0].RequestID)
	assert.Equal(t, created.ID.String(), events[0].ResourceID)
}

func TestPredictNoShowNotFound(t *testing.T) {
	svc := newTestService(newMemoryRepo(), &stubPredictor{})

	_, err := svc.PredictNoShow(context.Background(), &PredictNoShowRequest{ID: uuid.NewString()})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
