package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medsecure/medsecure-api/internal/models"
)

// RequestLister is the subset of the request store the stats service reads
type RequestLister interface {
	GetAllRequests(ctx context.Context) ([]models.Request, error)
}

// OnboardingLister is the subset of the gateway client the stats service
// reads
type OnboardingLister interface {
	ListPatientOnboardingRequests(ctx context.Context, orgFilter string) ([]models.PatientRequest, error)
	ListHealthActorOnboardingRequests(ctx context.Context, orgFilter string) ([]models.HealthActorRequest, error)
}

// StatsSnapshot aggregates the dashboard counters
type StatsSnapshot struct {
	RequestsByStatus   map[models.RequestStatus]int `json:"requestsByStatus"`
	RequestsByKind     map[models.RequestKind]int   `json:"requestsByKind"`
	PatientQueueByOrg  map[string]int               `json:"patientQueueByOrg"`
	ActorQueueByOrg    map[string]int               `json:"actorQueueByOrg"`
	RefreshedAt        time.Time                    `json:"refreshedAt"`
	OnboardingDegraded bool                         `json:"onboardingDegraded"`
}

// StatsService computes dashboard statistics over local requests and
// ledger-side onboarding queues. Ledger read failures degrade to zeroed
// sections with a logged warning; the local sections stay accurate.
type StatsService struct {
	requests   RequestLister
	onboarding OnboardingLister
	logger     *logrus.Logger

	mu       sync.RWMutex
	snapshot *StatsSnapshot
}

// NewStatsService creates a new stats service instance
func NewStatsService(requests RequestLister, onboarding OnboardingLister, logger *logrus.Logger) *StatsService {
	return &StatsService{
		requests:   requests,
		onboarding: onboarding,
		logger:     logger,
	}
}

// Refresh recomputes the snapshot. Safe to call from a polling task.
func (s *StatsService) Refresh(ctx context.Context) error {
	snapshot := &StatsSnapshot{
		RequestsByStatus:  make(map[models.RequestStatus]int),
		RequestsByKind:    make(map[models.RequestKind]int),
		PatientQueueByOrg: make(map[string]int),
		ActorQueueByOrg:   make(map[string]int),
		RefreshedAt:       time.Now().UTC(),
	}

	requests, err := s.requests.GetAllRequests(ctx)
	if err != nil {
		return err
	}
	for _, request := range requests {
		snapshot.RequestsByStatus[request.Status]++
		snapshot.RequestsByKind[request.Kind]++
	}

	patients, err := s.onboarding.ListPatientOnboardingRequests(ctx, "")
	if err != nil {
		s.logger.WithError(err).Warn("Patient onboarding stats unavailable; reporting empty queue")
		snapshot.OnboardingDegraded = true
	}
	for _, p := range patients {
		snapshot.PatientQueueByOrg[p.OrganizationCode]++
	}

	actors, err := s.onboarding.ListHealthActorOnboardingRequests(ctx, "")
	if err != nil {
		s.logger.WithError(err).Warn("Health-actor onboarding stats unavailable; reporting empty queue")
		snapshot.OnboardingDegraded = true
	}
	for _, a := range actors {
		snapshot.ActorQueueByOrg[a.OrganizationCode]++
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	return nil
}

// Snapshot returns the latest snapshot, computing one on demand when the
// poller has not run yet
func (s *StatsService) Snapshot(ctx context.Context) (*StatsSnapshot, error) {
	s.mu.RLock()
	cached := s.snapshot
	s.mu.RUnlock()

	if cached != nil {
		return cached, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, nil
}
