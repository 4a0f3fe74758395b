package services

import (
	"context"
	"sync"
)

// MockEstimationService is a mock implementation of the estimation service
// for testing. By default it behaves like a failing collaborator and serves
// the fixed fallback values.
type MockEstimationService struct {
	EstimateResult  *float64   // when nil, EstimateCost returns FallbackEstimate
	DiagnosisResult *Diagnosis // when nil, Diagnose returns FallbackDiagnosis()

	mu            sync.Mutex
	estimateCalls int
	diagnoseCalls int
}

// NewMockEstimationService creates a new mock estimation service
func NewMockEstimationService() *MockEstimationService {
	return &MockEstimationService{}
}

// SetAsMockForTesting sets this mock as the global estimation service instance for testing
func (m *MockEstimationService) SetAsMockForTesting() {
	SetEstimationService(m)
}

// EstimateCost returns the configured estimate, or the fallback price when
// the mock simulates a failing collaborator.
func (m *MockEstimationService) EstimateCost(ctx context.Context, serviceType, description string) float64 {
	m.mu.Lock()
	m.estimateCalls++
	m.mu.Unlock()

	if m.EstimateResult == nil {
		return FallbackEstimate
	}
	return *m.EstimateResult
}

// Diagnose returns the configured diagnosis, or the fallback triple when the
// mock simulates a failing collaborator.
func (m *MockEstimationService) Diagnose(ctx context.Context, serviceType, description, mediaRef string) Diagnosis {
	m.mu.Lock()
	m.diagnoseCalls++
	m.mu.Unlock()

	if m.DiagnosisResult == nil {
		return FallbackDiagnosis()
	}
	return *m.DiagnosisResult
}

// EstimateCalls returns how many times EstimateCost was invoked (for testing assertions)
func (m *MockEstimationService) EstimateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.estimateCalls
}

// DiagnoseCalls returns how many times Diagnose was invoked (for testing assertions)
func (m *MockEstimationService) DiagnoseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.diagnoseCalls
}
