package v1

import (
	"time"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/appointment"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/prediction"
)

// Wire DTOs. Timestamps are ISO-8601 strings; enums travel as strings whose
// blank/"unspecified" zero value is rejected at validation.

type createAppointmentRequest struct {
	PatientID  string `json:"patient_id"`
	ProviderID string `json:"provider_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Type       string `json:"type"`
	Notes      string `json:"notes"`
	Reason     string `json:"reason"`
}

type updateAppointmentRequest struct {
	PatientID  string `json:"patient_id"`
	ProviderID string `json:"provider_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Type       string `json:"type"`
	Notes      string `json:"notes"`
	Reason     string `json:"reason"`
}

type cancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type appointmentResponse struct {
	ID         string `json:"id"`
	PatientID  string `json:"patient_id"`
	ProviderID string `json:"provider_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Status     string `json:"status"`
	Type       string `json:"type"`
	Notes      string `json:"notes,omitempty"`
	Reason     string `json:"reason,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type listAppointmentsResponse struct {
	Appointments  []appointmentResponse `json:"appointments"`
	TotalCount    int64                 `json:"total_count"`
	NextPageToken string                `json:"next_page_token,omitempty"`
	HasMore       bool                  `json:"has_more"`
}

type predictNoShowResponse struct {
	NoShowProbability float64           `json:"no_show_probability"`
	RiskLevel         string            `json:"risk_level"`
	Recommendation    string            `json:"recommendation"`
	RiskFactors       map[string]string `json:"risk_factors"`
}

func toAppointmentResponse(a *appointment.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:         a.ID.String(),
		PatientID:  a.PatientID,
		ProviderID: a.ProviderID,
		StartTime:  a.StartTime.Format(time.RFC3339),
		EndTime:    a.EndTime.Format(time.RFC3339),
		Status:     string(a.Status),
		Type:       string(a.Type),
		Notes:      a.Notes,
		Reason:     a.Reason,
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toPredictNoShowResponse(p *prediction.NoShowPrediction) predictNoShowResponse {
	return predictNoShowResponse{
		NoShowProbability: p.Probability,
		RiskLevel:         string(p.RiskLevel),
		Recommendation:    p.Recommendation,
		RiskFactors:       p.RiskFactors,
	}
}
