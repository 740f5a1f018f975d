package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medsecure/medsecure-api/internal/models"
	"github.com/medsecure/medsecure-api/internal/service/mocks"
)

func sampleRequests() []models.Request {
	return []models.Request{
		{ID: 1, Kind: models.RequestKindEHRAccess, Status: models.StatusPending},
		{ID: 2, Kind: models.RequestKindEHRAccess, Status: models.StatusAccepted},
		{ID: 3, Kind: models.RequestKindEHRConsultation, Status: models.StatusPending},
	}
}

func TestRefresh_AggregatesCounters(t *testing.T) {
	requests := new(mocks.MockRequestLister)
	requests.On("GetAllRequests", mock.Anything).Return(sampleRequests(), nil)

	onboarding := new(mocks.MockOnboardingLister)
	onboarding.On("ListPatientOnboardingRequests", mock.Anything, "").Return([]models.PatientRequest{
		{RequestID: 1, OrganizationCode: "HCA"},
		{RequestID: 2, OrganizationCode: "HCA"},
		{RequestID: 3, OrganizationCode: "HQA"},
	}, nil)
	onboarding.On("ListHealthActorOnboardingRequests", mock.Anything, "").Return([]models.HealthActorRequest{
		{RequestID: 5, OrganizationCode: "HQA"},
	}, nil)

	svc := NewStatsService(requests, onboarding, testLogger())
	require.NoError(t, svc.Refresh(context.Background()))

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.RequestsByStatus[models.StatusPending])
	assert.Equal(t, 1, snapshot.RequestsByStatus[models.StatusAccepted])
	assert.Equal(t, 2, snapshot.RequestsByKind[models.RequestKindEHRAccess])
	assert.Equal(t, 2, snapshot.PatientQueueByOrg["HCA"])
	assert.Equal(t, 1, snapshot.PatientQueueByOrg["HQA"])
	assert.Equal(t, 1, snapshot.ActorQueueByOrg["HQA"])
	assert.False(t, snapshot.OnboardingDegraded)
	assert.False(t, snapshot.RefreshedAt.IsZero())
}

func TestRefresh_OnboardingFailureDegrades(t *testing.T) {
	requests := new(mocks.MockRequestLister)
	requests.On("GetAllRequests", mock.Anything).Return(sampleRequests(), nil)

	onboarding := new(mocks.MockOnboardingLister)
	onboarding.On("ListPatientOnboardingRequests", mock.Anything, "").Return(nil, errors.New("gateway down"))
	onboarding.On("ListHealthActorOnboardingRequests", mock.Anything, "").Return(nil, errors.New("gateway down"))

	svc := NewStatsService(requests, onboarding, testLogger())
	require.NoError(t, svc.Refresh(context.Background()))

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.True(t, snapshot.OnboardingDegraded)
	assert.Empty(t, snapshot.PatientQueueByOrg)
	assert.Equal(t, 2, snapshot.RequestsByStatus[models.StatusPending])
}

func TestRefresh_StoreFailurePropagates(t *testing.T) {
	requests := new(mocks.MockRequestLister)
	requests.On("GetAllRequests", mock.Anything).Return(nil, errors.New("backend down"))

	onboarding := new(mocks.MockOnboardingLister)

	svc := NewStatsService(requests, onboarding, testLogger())
	assert.Error(t, svc.Refresh(context.Background()))
}

func TestSnapshot_ComputesOnDemand(t *testing.T) {
	requests := new(mocks.MockRequestLister)
	requests.On("GetAllRequests", mock.Anything).Return([]models.Request{}, nil).Once()

	onboarding := new(mocks.MockOnboardingLister)
	onboarding.On("ListPatientOnboardingRequests", mock.Anything, "").Return([]models.PatientRequest{}, nil).Once()
	onboarding.On("ListHealthActorOnboardingRequests", mock.Anything, "").Return([]models.HealthActorRequest{}, nil).Once()

	svc := NewStatsService(requests, onboarding, testLogger())

	first, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	// Second call must serve the cached snapshot without recomputing.
	second, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	requests.AssertExpectations(t)
}
