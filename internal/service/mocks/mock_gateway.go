// Package mocks provides testify mocks for the service package's gateway
// and store dependencies.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/medsecure/medsecure-api/internal/models"
)

// MockEHRGateway is a mock implementation of service.EHRGateway
type MockEHRGateway struct {
	mock.Mock
}

func (m *MockEHRGateway) Login(ctx context.Context, identity, orgCode string) (string, error) {
	args := m.Called(ctx, identity, orgCode)
	return args.String(0), args.Error(1)
}

func (m *MockEHRGateway) AddEHRAbstract(ctx context.Context, token string, draft *models.EHRDraft, createdAtMillis int64) (int64, error) {
	args := m.Called(ctx, token, draft, createdAtMillis)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEHRGateway) LinkPatientEHR(ctx context.Context, token string, matricule models.Matricule, ehrID int64) error {
	args := m.Called(ctx, token, matricule, ehrID)
	return args.Error(0)
}

// MockRequestLister is a mock implementation of service.RequestLister
type MockRequestLister struct {
	mock.Mock
}

func (m *MockRequestLister) GetAllRequests(ctx context.Context) ([]models.Request, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Request), args.Error(1)
}

// MockOnboardingLister is a mock implementation of service.OnboardingLister
type MockOnboardingLister struct {
	mock.Mock
}

func (m *MockOnboardingLister) ListPatientOnboardingRequests(ctx context.Context, orgFilter string) ([]models.PatientRequest, error) {
	args := m.Called(ctx, orgFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PatientRequest), args.Error(1)
}

func (m *MockOnboardingLister) ListHealthActorOnboardingRequests(ctx context.Context, orgFilter string) ([]models.HealthActorRequest, error) {
	args := m.Called(ctx, orgFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HealthActorRequest), args.Error(1)
}
