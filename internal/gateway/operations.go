package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/medsecure/medsecure-api/internal/models"
	"github.com/medsecure/medsecure-api/internal/organization"
)

// Wire representations of ledger-side onboarding requests. Field names
// follow the chaincode's serialization and are normalized before leaving
// this package.
type patientRequestWire struct {
	RequestID int64            `json:"request_id"`
	Matricule models.Matricule `json:"matricule"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	OrgID     string           `json:"org_id"`
	Status    string           `json:"status"`
}

type healthActorRequestWire struct {
	RequestID int64  `json:"request_id"`
	ActorID   string `json:"actor_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	OrgID     string `json:"org_id"`
	Status    string `json:"status"`
}

// SubmitPatientOnboarding records a patient registration request on the
// ledger
func (c *Client) SubmitPatientOnboarding(ctx context.Context, token string, matricule models.Matricule, firstName, lastName, orgCode string) error {
	args := []string{
		strconv.FormatInt(int64(matricule), 10),
		firstName,
		lastName,
		organization.CodeToLedgerID(orgCode),
	}

	if _, err := c.invoke(ctx, token, fnRequestPatient, args); err != nil {
		return fmt.Errorf("patient onboarding submission failed: %w", err)
	}
	return nil
}

// SubmitHealthActorOnboarding records a health-actor registration request on
// the ledger
func (c *Client) SubmitHealthActorOnboarding(ctx context.Context, token, actorID, firstName, lastName, role, orgCode string) error {
	args := []string{
		actorID,
		firstName,
		lastName,
		role,
		organization.CodeToLedgerID(orgCode),
	}

	if _, err := c.invoke(ctx, token, fnRequestHealthActor, args); err != nil {
		return fmt.Errorf("health-actor onboarding submission failed: %w", err)
	}
	return nil
}

// ListPatientOnboardingRequests queries the ledger for patient onboarding
// requests, normalizing wire field names and organization identifiers. An
// empty orgFilter returns requests for all organizations.
func (c *Client) ListPatientOnboardingRequests(ctx context.Context, orgFilter string) ([]models.PatientRequest, error) {
	token, err := c.DefaultLogin(ctx)
	if err != nil {
		return nil, err
	}

	data, err := c.query(ctx, token, fnGetAllPatientRequests, []string{})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []models.PatientRequest{}, nil
	}

	var wire []patientRequestWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal patient requests: %w", err)
	}

	requests := make([]models.PatientRequest, 0, len(wire))
	for _, w := range wire {
		code := organization.LedgerIDToCode(w.OrgID)
		if orgFilter != "" && code != orgFilter {
			continue
		}
		requests = append(requests, models.PatientRequest{
			RequestID:        w.RequestID,
			Matricule:        w.Matricule,
			FirstName:        w.FirstName,
			LastName:         w.LastName,
			OrganizationCode: code,
			Status:           models.RequestStatus(w.Status),
		})
	}

	return requests, nil
}

// ListHealthActorOnboardingRequests queries the ledger for health-actor
// onboarding requests, symmetric to ListPatientOnboardingRequests
func (c *Client) ListHealthActorOnboardingRequests(ctx context.Context, orgFilter string) ([]models.HealthActorRequest, error) {
	token, err := c.DefaultLogin(ctx)
	if err != nil {
		return nil, err
	}

	data, err := c.query(ctx, token, fnGetAllHealthActorReqs, []string{})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []models.HealthActorRequest{}, nil
	}

	var wire []healthActorRequestWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("failed to unmarshal health-actor requests: %w", err)
	}

	requests := make([]models.HealthActorRequest, 0, len(wire))
	for _, w := range wire {
		code := organization.LedgerIDToCode(w.OrgID)
		if orgFilter != "" && code != orgFilter {
			continue
		}
		requests = append(requests, models.HealthActorRequest{
			RequestID:        w.RequestID,
			ActorID:          w.ActorID,
			FirstName:        w.FirstName,
			LastName:         w.LastName,
			Role:             w.Role,
			OrganizationCode: code,
			Status:           models.RequestStatus(w.Status),
		})
	}

	return requests, nil
}

// SubmitConsultationRequest records a consultation request on the ledger and
// returns the ledger-assigned request ID
func (c *Client) SubmitConsultationRequest(ctx context.Context, matricule models.Matricule, ehrID int64, actorID string) (int64, error) {
	token, err := c.DefaultLogin(ctx)
	if err != nil {
		return 0, err
	}

	args := []string{
		strconv.FormatInt(int64(matricule), 10),
		strconv.FormatInt(ehrID, 10),
		actorID,
	}

	result, err := c.invoke(ctx, token, fnSetRequest, args)
	if err != nil {
		return 0, err
	}

	requestID, err := parseNumericResult(result.Result)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"fcn":  fnSetRequest,
			"args": args,
		}).Error("Consultation request returned a malformed ID")
		return 0, fmt.Errorf("consultation request returned a malformed ID: %w", err)
	}

	return requestID, nil
}

// SubmitConsultationResponse records the approve/reject decision for a
// consultation request on the ledger. The caller's status is carried on the
// wire as given.
func (c *Client) SubmitConsultationResponse(ctx context.Context, requestID int64, matricule models.Matricule, status models.RequestStatus) error {
	token, err := c.DefaultLogin(ctx)
	if err != nil {
		return err
	}

	args := []string{
		strconv.FormatInt(requestID, 10),
		strconv.FormatInt(int64(matricule), 10),
		string(status),
	}

	if _, err := c.invoke(ctx, token, fnSetResponse, args); err != nil {
		return fmt.Errorf("consultation response submission failed: %w", err)
	}

	return nil
}

// FetchEHRForActor queries the ledger for an EHR abstract through its
// access-controlled query function. Returns (nil, nil) when the ledger
// denies access or the record does not exist; callers must not distinguish
// the two.
func (c *Client) FetchEHRForActor(ctx context.Context, matricule models.Matricule, ehrID int64, kind models.RequestKind) (*models.EHRAbstract, error) {
	token, err := c.DefaultLogin(ctx)
	if err != nil {
		return nil, err
	}

	args := []string{
		strconv.FormatInt(int64(matricule), 10),
		strconv.FormatInt(ehrID, 10),
		string(kind),
	}

	data, err := c.query(ctx, token, fnGetEHRByActor, args)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var ehr models.EHRAbstract
	if err := json.Unmarshal(data, &ehr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal EHR abstract: %w", err)
	}

	return &ehr, nil
}

// AddEHRAbstract submits the EHR-creation transaction and returns the
// ledger-assigned EHR ID, or 0 when the response carries none
func (c *Client) AddEHRAbstract(ctx context.Context, token string, draft *models.EHRDraft, createdAtMillis int64) (int64, error) {
	attachments, err := json.Marshal(draft.Attachments)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal attachment list: %w", err)
	}

	args := []string{
		draft.Title,
		strconv.FormatInt(int64(draft.PatientMatricule), 10),
		draft.Hash,
		string(attachments),
		draft.SecretKey,
		strconv.FormatInt(createdAtMillis, 10),
	}

	result, err := c.invoke(ctx, token, fnAddEHRAbstract, args)
	if err != nil {
		return 0, err
	}

	ehrID, err := parseNumericResult(result.Result)
	if err != nil {
		// The ledger confirmed the creation but assigned no usable ID;
		// the caller falls back to a locally generated one.
		c.logger.WithField("result", string(result.Result)).Warn("EHR creation returned no numeric ID")
		return 0, nil
	}

	return ehrID, nil
}

// LinkPatientEHR updates a patient record's EHR back-reference on the ledger
func (c *Client) LinkPatientEHR(ctx context.Context, token string, matricule models.Matricule, ehrID int64) error {
	args := []string{
		strconv.FormatInt(int64(matricule), 10),
		strconv.FormatInt(ehrID, 10),
	}

	if _, err := c.invoke(ctx, token, fnUpdatePatientEHRID, args); err != nil {
		return fmt.Errorf("patient EHR link failed: %w", err)
	}

	return nil
}
