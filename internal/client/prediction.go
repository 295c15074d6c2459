package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carebook/internal/config"
	"github.com/dmehra2102/prod-golang-projects/carebook/internal/domain/prediction"
	"go.uber.org/zap"
)

// PredictionClient talks to the external model-serving component over
// HTTP/JSON. It implements prediction.Client.
type PredictionClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

var _ prediction.Client = (*PredictionClient)(nil)

func NewPredictionClient(cfg config.PredictionConfig, log *zap.Logger) *PredictionClient {
	return &PredictionClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type predictNoShowRequest struct {
	PatientID     string            `json:"patient_id"`
	ProviderID    string            `json:"provider_id"`
	AppointmentID string            `json:"appointment_id"`
	StartTime     string            `json:"start_time"`
	Type          string            `json:"type"`
	Features      map[string]string `json:"features"`
}

type predictNoShowResponse struct {
	Probability    float64           `json:"probability"`
	RiskLevel      string            `json:"risk_level"`
	Recommendation string            `json:"recommendation"`
	RiskFactors    map[string]string `json:"risk_factors"`
}

func (c *PredictionClient) PredictNoShow(ctx context.Context, in prediction.Input) (*prediction.NoShowPrediction, error) {
	payload := predictNoShowRequest{
		PatientID:     in.PatientID,
		ProviderID:    in.ProviderID,
		AppointmentID: in.AppointmentID,
		StartTime:     in.StartTime.Format(time.RFC3339),
		Type:          string(in.Type),
		Features:      in.Features,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict/no-show", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling prediction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("prediction service returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return nil, fmt.Errorf("prediction service returned status %d", resp.StatusCode)
	}

	var out predictNoShowResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding prediction response: %w", err)
	}

	return &prediction.NoShowPrediction{
		Probability:    out.Probability,
		RiskLevel:      prediction.RiskLevel(strings.ToLower(out.RiskLevel)),
		Recommendation: out.Recommendation,
		RiskFactors:    out.RiskFactors,
	}, nil
}
