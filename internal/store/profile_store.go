package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/medsecure/medsecure-api/internal/models"
	"github.com/medsecure/medsecure-api/internal/storage"
)

// ProfileStore persists client-local patient and health-actor profile
// records, keyed by entity ID
type ProfileStore struct {
	backend storage.Backend
	logger  *logrus.Logger
}

// NewProfileStore creates a profile store over the given backend
func NewProfileStore(backend storage.Backend, logger *logrus.Logger) *ProfileStore {
	return &ProfileStore{backend: backend, logger: logger}
}

func patientKey(matricule models.Matricule) string {
	return storage.PatientPrefix + strconv.FormatInt(int64(matricule), 10)
}

// PutPatientProfile stores a patient profile record
func (s *ProfileStore) PutPatientProfile(ctx context.Context, profile *models.PatientProfile) error {
	value, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal patient profile: %w", err)
	}
	if err := s.backend.Put(ctx, patientKey(profile.Matricule), value); err != nil {
		return fmt.Errorf("failed to persist patient profile %d: %w", profile.Matricule, err)
	}
	return nil
}

// GetPatientProfile returns a patient profile or nil when absent
func (s *ProfileStore) GetPatientProfile(ctx context.Context, matricule models.Matricule) (*models.PatientProfile, error) {
	value, err := s.backend.Get(ctx, patientKey(matricule))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load patient profile %d: %w", matricule, err)
	}

	var profile models.PatientProfile
	if err := json.Unmarshal(value, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal patient profile %d: %w", matricule, err)
	}
	return &profile, nil
}

// PutActorProfile stores a health-actor profile record
func (s *ProfileStore) PutActorProfile(ctx context.Context, profile *models.ActorProfile) error {
	value, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal actor profile: %w", err)
	}
	if err := s.backend.Put(ctx, storage.ActorPrefix+profile.ActorID, value); err != nil {
		return fmt.Errorf("failed to persist actor profile %s: %w", profile.ActorID, err)
	}
	return nil
}

// GetActorProfile returns a health-actor profile or nil when absent
func (s *ProfileStore) GetActorProfile(ctx context.Context, actorID string) (*models.ActorProfile, error) {
	value, err := s.backend.Get(ctx, storage.ActorPrefix+actorID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load actor profile %s: %w", actorID, err)
	}

	var profile models.ActorProfile
	if err := json.Unmarshal(value, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal actor profile %s: %w", actorID, err)
	}
	return &profile, nil
}
