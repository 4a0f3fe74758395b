package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/kafaa-plus/kafaa-maintenance-api/config"
)

// FallbackEstimate is the price returned when cost estimation fails for any
// reason. Estimation is best-effort and non-authoritative; callers never see
// an error from this service.
const FallbackEstimate = 150

// Diagnosis is the technician-facing triple produced for a request.
type Diagnosis struct {
	Diagnosis string   `json:"diagnosis"`
	Tools     []string `json:"tools"`
	Advice    string   `json:"advice"`
}

// FallbackDiagnosis returns the fixed triple used when diagnosis fails.
func FallbackDiagnosis() Diagnosis {
	return Diagnosis{
		Diagnosis: "Live analysis unavailable, an on-site inspection is required.",
		Tools:     []string{"Basic tool kit"},
		Advice:    "Disconnect power and water supplies before starting work.",
	}
}

// EstimationInterface defines the estimation collaborator. Both operations
// degrade to fixed fallback values on any error, timeout or malformed
// response instead of surfacing a failure.
type EstimationInterface interface {
	EstimateCost(ctx context.Context, serviceType, description string) float64
	Diagnose(ctx context.Context, serviceType, description, mediaRef string) Diagnosis
}

// GeminiEstimationService calls the Gemini generateContent REST API for cost
// estimates and technician diagnoses.
type GeminiEstimationService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var estimationServiceInstance EstimationInterface

// InitEstimationService initializes the estimation service from config.
func InitEstimationService() EstimationInterface {
	cfg := config.GetConfig()
	estimationServiceInstance = NewGeminiEstimationService(cfg)
	return estimationServiceInstance
}

// GetEstimationService returns the initialized estimation service instance
func GetEstimationService() EstimationInterface {
	return estimationServiceInstance
}

// SetEstimationService sets the estimation service instance (primarily for testing)
func SetEstimationService(service EstimationInterface) {
	estimationServiceInstance = service
}

// NewGeminiEstimationService creates a Gemini-backed estimation service
func NewGeminiEstimationService(cfg *config.Config) *GeminiEstimationService {
	return &GeminiEstimationService{
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.GeminiModel,
		baseURL: strings.TrimSuffix(cfg.GeminiBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// generateContent request/response shapes, trimmed to the fields used here.
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// EstimateCost asks the model for an approximate price for the described
// problem. On any failure it returns FallbackEstimate.
func (s *GeminiEstimationService) EstimateCost(ctx context.Context, serviceType, description string) float64 {
	prompt := fmt.Sprintf(
		"Based on the following %s service problem: %q, estimate the approximate maintenance cost in Saudi Riyals. Answer with a number only.",
		serviceType, description,
	)
	schema := json.RawMessage(`{"type":"OBJECT","properties":{"estimatedPrice":{"type":"NUMBER","description":"The estimated maintenance cost in Saudi Riyals"}},"required":["estimatedPrice"]}`)

	var result struct {
		EstimatedPrice float64 `json:"estimatedPrice"`
	}
	if err := s.generate(ctx, prompt, schema, &result); err != nil {
		log.Printf("AI cost estimation failed: %v", err)
		return FallbackEstimate
	}
	if result.EstimatedPrice < 0 {
		log.Printf("AI cost estimation returned a negative price, using fallback")
		return FallbackEstimate
	}
	return result.EstimatedPrice
}

// Diagnose asks the model for a technical diagnosis, suggested tools and a
// piece of professional advice for the technician. On any failure it returns
// the fixed fallback triple.
func (s *GeminiEstimationService) Diagnose(ctx context.Context, serviceType, description, mediaRef string) Diagnosis {
	var sb strings.Builder
	sb.WriteString("You are an expert technical assistant for field maintenance technicians.\n")
	fmt.Fprintf(&sb, "Service: %s\n", serviceType)
	fmt.Fprintf(&sb, "Customer description: %s\n", description)
	if mediaRef != "" {
		fmt.Fprintf(&sb, "The customer attached media: %s\n", mediaRef)
	}
	sb.WriteString("Analyze the problem and provide a technical diagnosis, a list of suggested tools and parts, and one piece of professional advice. Keep the tone technical and concise.")

	schema := json.RawMessage(`{"type":"OBJECT","properties":{"diagnosis":{"type":"STRING"},"tools":{"type":"ARRAY","items":{"type":"STRING"}},"advice":{"type":"STRING"}},"required":["diagnosis","tools","advice"]}`)

	var result Diagnosis
	if err := s.generate(ctx, sb.String(), schema, &result); err != nil {
		log.Printf("AI diagnosis failed: %v", err)
		return FallbackDiagnosis()
	}
	if result.Diagnosis == "" || len(result.Tools) == 0 {
		log.Printf("AI diagnosis returned an incomplete triple, using fallback")
		return FallbackDiagnosis()
	}
	return result
}

// generate performs one generateContent call and decodes the JSON payload
// the model was instructed to emit into out.
func (s *GeminiEstimationService) generate(ctx context.Context, prompt string, schema json.RawMessage, out interface{}) error {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("warning: failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var decoded geminiResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("response contained no candidates")
	}

	payload := decoded.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("failed to decode model payload: %w", err)
	}
	return nil
}
