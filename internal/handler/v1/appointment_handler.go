package v1

import (
	"strconv"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	svc *service.AppointmentService
	log *zap.Logger
}

func NewAppointmentHandler(svc *service.AppointmentService, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, log: log}
}

func (h *AppointmentHandler) Register(rg *gin.RouterGroup) {
	appts := rg.Group("/appointments")
	appts.POST("", h.create)
	appts.GET("", h.list)
	appts.GET("/:id", h.get)
	appts.PUT("/:id", h.update)
	appts.POST("/:id/cancel", h.cancel)
	appts.POST("/:id/status", h.changeStatus)
	appts.POST("/:id/predict-no-show", h.predictNoShow)
}

func (h *AppointmentHandler) create(c *gin.Context) {
	var body createAppointmentRequest
	if !bindJSON(c, &body) {
		return
	}

	a, err := h.svc.CreateAppointment(c.Request.Context(), &service.CreateAppointmentRequest{
		PatientID:  body.PatientID,
		ProviderID: body.ProviderID,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
		Type:       appointment.AppointmentType(body.Type),
		Notes:      body.Notes,
		Reason:     body.Reason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) get(c *gin.Context) {
	a, err := h.svc.GetAppointment(c.Request.Context(), &service.GetAppointmentRequest{ID: c.Param("id")})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) list(c *gin.Context) {
	pageSize := 0
	if raw := c.Query("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			respondServiceError(c, service.InvalidArgument("page_size must be an integer"))
			return
		}
		pageSize = v
	}

	result, err := h.svc.ListAppointments(c.Request.Context(), &service.ListAppointmentsRequest{
		PatientID:  c.Query("patient_id"),
		ProviderID: c.Query("provider_id"),
		StartDate:  c.Query("start_date"),
		EndDate:    c.Query("end_date"),
		PageSize:   pageSize,
		PageToken:  c.Query("page_token"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := listAppointmentsResponse{
		Appointments:  make([]appointmentResponse, 0, len(result.Appointments)),
		TotalCount:    result.TotalCount,
		NextPageToken: result.NextPageToken,
		HasMore:       result.HasMore,
	}
	for _, a := range result.Appointments {
		resp.Appointments = append(resp.Appointments, toAppointmentResponse(a))
	}

	respondOK(c, resp)
}

func (h *AppointmentHandler) update(c *gin.Context) {
	var body updateAppointmentRequest
	if !bindJSON(c, &body) {
		return
	}

	a, err := h.svc.UpdateAppointment(c.Request.Context(), &service.UpdateAppointmentRequest{
		ID:         c.Param("id"),
		PatientID:  body.PatientID,
		ProviderID: body.ProviderID,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
		Type:       appointment.AppointmentType(body.Type),
		Notes:      body.Notes,
		Reason:     body.Reason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) cancel(c *gin.Context) {
	var body cancelAppointmentRequest
	if !bindJSON(c, &body) {
		return
	}

	a, err := h.svc.CancelAppointment(c.Request.Context(), &service.CancelAppointmentRequest{
		ID:                 c.Param("id"),
		CancellationReason: body.Reason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) changeStatus(c *gin.Context) {
	var body changeStatusRequest
	if !bindJSON(c, &body) {
		return
	}

	a, err := h.svc.ChangeAppointmentStatus(c.Request.Context(), &service.ChangeAppointmentStatusRequest{
		ID:     c.Param("id"),
		Status: appointment.AppointmentStatus(body.Status),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toAppointmentResponse(a))
}

func (h *AppointmentHandler) predictNoShow(c *gin.Context) {
	pred, err := h.svc.PredictNoShow(c.Request.Context(), &service.PredictNoShowRequest{ID: c.Param("id")})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, toPredictNoShowResponse(pred))
}
