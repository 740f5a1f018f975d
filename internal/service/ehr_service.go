package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/medsecure/medsecure-api/internal/models"
	"github.com/medsecure/medsecure-api/pkg/utils"
)

// EHRGateway is the subset of the gateway client the EHR service depends on
type EHRGateway interface {
	Login(ctx context.Context, identity, orgCode string) (string, error)
	AddEHRAbstract(ctx context.Context, token string, draft *models.EHRDraft, createdAtMillis int64) (int64, error)
	LinkPatientEHR(ctx context.Context, token string, matricule models.Matricule, ehrID int64) error
}

// EHRService composes gateway calls to create an EHR abstract on the ledger
// and link it to its patient record
type EHRService struct {
	gateway EHRGateway
	logger  *logrus.Logger
}

// NewEHRService creates a new EHR service instance
func NewEHRService(gateway EHRGateway, logger *logrus.Logger) *EHRService {
	return &EHRService{gateway: gateway, logger: logger}
}

// CreateEHR authenticates as the submitting identity, creates the EHR
// abstract on the ledger and links it to the patient record. Authentication
// and creation failures propagate; the patient link is best-effort and its
// failure only logged, since the abstract itself already exists on the
// ledger at that point.
func (s *EHRService) CreateEHR(ctx context.Context, draft *models.EHRDraft, identity, orgCode string) (int64, error) {
	if err := utils.ValidateTitle(draft.Title); err != nil {
		return 0, err
	}
	if draft.PatientMatricule <= 0 {
		return 0, fmt.Errorf("patient matricule is required")
	}

	token, err := s.gateway.Login(ctx, identity, orgCode)
	if err != nil {
		return 0, fmt.Errorf("EHR creation authentication failed: %w", err)
	}

	ehrID, err := s.gateway.AddEHRAbstract(ctx, token, draft, utils.GetCurrentTimeMillis())
	if err != nil {
		return 0, fmt.Errorf("EHR creation failed: %w", err)
	}
	if ehrID == 0 {
		ehrID = utils.GenerateEHRID()
		s.logger.WithFields(logrus.Fields{
			"ehr_id":    ehrID,
			"matricule": draft.PatientMatricule,
		}).Warn("Ledger assigned no EHR ID; using locally generated fallback")
	}

	if err := s.LinkPatientEHR(ctx, token, draft.PatientMatricule, ehrID); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"ehr_id":    ehrID,
			"matricule": draft.PatientMatricule,
		}).Error("Patient EHR link failed; abstract created without back-reference")
	}

	s.logger.WithFields(logrus.Fields{
		"ehr_id":    ehrID,
		"matricule": draft.PatientMatricule,
	}).Info("EHR abstract created")

	return ehrID, nil
}

// LinkPatientEHR updates the patient record's EHR back-reference on the
// ledger
func (s *EHRService) LinkPatientEHR(ctx context.Context, token string, matricule models.Matricule, ehrID int64) error {
	return s.gateway.LinkPatientEHR(ctx, token, matricule, ehrID)
}
