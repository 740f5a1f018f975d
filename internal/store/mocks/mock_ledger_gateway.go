package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/medsecure/medsecure-api/internal/models"
)

// MockLedgerGateway is a mock implementation of store.LedgerGateway
type MockLedgerGateway struct {
	mock.Mock
}

func (m *MockLedgerGateway) SubmitConsultationRequest(ctx context.Context, matricule models.Matricule, ehrID int64, actorID string) (int64, error) {
	args := m.Called(ctx, matricule, ehrID, actorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerGateway) SubmitConsultationResponse(ctx context.Context, requestID int64, matricule models.Matricule, status models.RequestStatus) error {
	args := m.Called(ctx, requestID, matricule, status)
	return args.Error(0)
}

func (m *MockLedgerGateway) FetchEHRForActor(ctx context.Context, matricule models.Matricule, ehrID int64, kind models.RequestKind) (*models.EHRAbstract, error) {
	args := m.Called(ctx, matricule, ehrID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EHRAbstract), args.Error(1)
}
