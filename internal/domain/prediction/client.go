package prediction

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/appointment"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Input carries the appointment facts and derived features the model scores.
type Input struct {
	PatientID     string
	ProviderID    string
	AppointmentID string
	StartTime     time.Time
	Type          appointment.AppointmentType
	Features      map[string]string
}

type NoShowPrediction struct {
	Probability    float64
	RiskLevel      RiskLevel
	Recommendation string
	RiskFactors    map[string]string
}

// Client wraps the external no-show risk-scoring service. Transport failures
// surface as errors; there is no fallback to a default prediction.
type Client interface {
	PredictNoShow(ctx context.Context, in Input) (*NoShowPrediction, error)
}
