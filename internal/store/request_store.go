// Package store owns the client-local Request entities. The ledger is the
// system of record only for onboarding requests and EHR abstracts; the
// records here are a local workflow overlay.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medsecure/medsecure-api/internal/models"
	"github.com/medsecure/medsecure-api/internal/storage"
	"github.com/medsecure/medsecure-api/pkg/utils"
)

// ErrTerminalTransition is returned when a status update targets a request
// already in a terminal state
var ErrTerminalTransition = errors.New("store: request status is terminal")

// ErrInvalidStatus is returned when a status update carries an unknown status
var ErrInvalidStatus = errors.New("store: invalid request status")

// LedgerGateway is the subset of the gateway client the store depends on
type LedgerGateway interface {
	SubmitConsultationRequest(ctx context.Context, matricule models.Matricule, ehrID int64, actorID string) (int64, error)
	SubmitConsultationResponse(ctx context.Context, requestID int64, matricule models.Matricule, status models.RequestStatus) error
	FetchEHRForActor(ctx context.Context, matricule models.Matricule, ehrID int64, kind models.RequestKind) (*models.EHRAbstract, error)
}

// RequestStore persists Request entities through an injected backend.
// The mutex serializes read-modify-write sequences within this process;
// concurrent writers behind separate instances still race last-write-wins,
// a documented limitation of the single-operator workflow this serves.
type RequestStore struct {
	backend storage.Backend
	gateway LedgerGateway
	logger  *logrus.Logger
	mu      sync.Mutex
}

// NewRequestStore creates a request store over the given backend and gateway
func NewRequestStore(backend storage.Backend, gateway LedgerGateway, logger *logrus.Logger) *RequestStore {
	return &RequestStore{
		backend: backend,
		gateway: gateway,
		logger:  logger,
	}
}

func requestKey(id int64) string {
	return storage.RequestPrefix + strconv.FormatInt(id, 10)
}

func (s *RequestStore) put(ctx context.Context, request *models.Request) error {
	value, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request %d: %w", request.ID, err)
	}
	if err := s.backend.Put(ctx, requestKey(request.ID), value); err != nil {
		return fmt.Errorf("failed to persist request %d: %w", request.ID, err)
	}
	return nil
}

func (s *RequestStore) get(ctx context.Context, id int64) (*models.Request, error) {
	value, err := s.backend.Get(ctx, requestKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request %d: %w", id, err)
	}

	var request models.Request
	if err := json.Unmarshal(value, &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request %d: %w", id, err)
	}
	return &request, nil
}

func (s *RequestStore) list(ctx context.Context) ([]models.Request, error) {
	entries, err := s.backend.List(ctx, storage.RequestPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	requests := make([]models.Request, 0, len(entries))
	for key, value := range entries {
		var request models.Request
		if err := json.Unmarshal(value, &request); err != nil {
			// A corrupt record must not poison every listing.
			s.logger.WithError(err).WithField("key", key).Warn("Skipping unreadable request record")
			continue
		}
		requests = append(requests, request)
	}

	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests, nil
}

// CreateRequest assigns a time-derived ID and persists a new PENDING request
func (s *RequestStore) CreateRequest(ctx context.Context, draft *models.RequestDraft) (*models.Request, error) {
	if !models.IsValidKind(draft.Kind) {
		return nil, fmt.Errorf("unknown request kind: %s", draft.Kind)
	}
	if err := utils.ValidateActorID(draft.ActorID); err != nil {
		return nil, err
	}
	if err := utils.ValidateTitle(draft.Title); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Truncate(time.Second)
	request := &models.Request{
		ID:               utils.GenerateRequestID(),
		Kind:             draft.Kind,
		PatientMatricule: draft.PatientMatricule,
		PatientName:      draft.PatientName,
		ActorID:          draft.ActorID,
		ActorName:        draft.ActorName,
		ActorRole:        draft.ActorRole,
		ActorOrg:         draft.ActorOrg,
		Status:           models.StatusPending,
		Title:            draft.Title,
		Description:      draft.Description,
		Attachments:      draft.Attachments,
		EHRID:            draft.EHRID,
		SecretKey:        draft.SecretKey,
		LedgerState:      models.LedgerStateLocal,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.put(ctx, request); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"request_id": request.ID,
		"kind":       request.Kind,
		"matricule":  request.PatientMatricule,
	}).Info("Request created")

	return request, nil
}

// CreateConsultationRequest creates a consultation request in two phases:
// a local placeholder is persisted first, then the ledger transaction runs,
// and on success the record is re-keyed under the ledger-assigned ID. On
// ledger failure the placeholder stays behind in PENDING_CONFIRMATION state,
// detectable and recoverable rather than silently orphaned.
func (s *RequestStore) CreateConsultationRequest(ctx context.Context, params *models.ConsultationParams) (*models.Request, error) {
	if err := utils.ValidateActorID(params.ActorID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Truncate(time.Second)
	ehrID := params.EHRID
	placeholder := &models.Request{
		ID:               utils.GenerateRequestID(),
		Kind:             models.RequestKindEHRConsultation,
		PatientMatricule: params.PatientMatricule,
		ActorID:          params.ActorID,
		ActorName:        params.ActorName,
		ActorRole:        params.ActorRole,
		ActorOrg:         params.ActorOrg,
		Status:           models.StatusPending,
		Title:            fmt.Sprintf("Consultation request for EHR %d", params.EHRID),
		Description:      params.Description,
		EHRID:            &ehrID,
		LedgerState:      models.LedgerStatePending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.put(ctx, placeholder); err != nil {
		return nil, err
	}

	ledgerID, err := s.gateway.SubmitConsultationRequest(ctx, params.PatientMatricule, params.EHRID, params.ActorID)
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"placeholder_id": placeholder.ID,
			"matricule":      params.PatientMatricule,
			"ehr_id":         params.EHRID,
		}).Error("Consultation request rejected by ledger; placeholder left pending confirmation")
		return nil, fmt.Errorf("consultation request submission failed: %w", err)
	}

	confirmed := *placeholder
	confirmed.ID = ledgerID
	confirmed.LedgerState = models.LedgerStateConfirmed
	confirmed.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := s.put(ctx, &confirmed); err != nil {
		return nil, err
	}
	if err := s.backend.Delete(ctx, requestKey(placeholder.ID)); err != nil {
		return nil, fmt.Errorf("failed to drop placeholder %d: %w", placeholder.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"request_id":     ledgerID,
		"placeholder_id": placeholder.ID,
		"matricule":      params.PatientMatricule,
	}).Info("Consultation request confirmed by ledger")

	return &confirmed, nil
}

// GetRequestByID returns a request or nil when no such request exists
func (s *RequestStore) GetRequestByID(ctx context.Context, id int64) (*models.Request, error) {
	return s.get(ctx, id)
}

// GetAllRequests returns every stored request
func (s *RequestStore) GetAllRequests(ctx context.Context) ([]models.Request, error) {
	return s.list(ctx)
}

// GetRequestsByPatientMatricule returns the requests whose matricule
// numerically equals the given one, regardless of how either side was
// serialized
func (s *RequestStore) GetRequestsByPatientMatricule(ctx context.Context, matricule models.Matricule) ([]models.Request, error) {
	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Request, 0)
	for _, request := range all {
		if request.PatientMatricule == matricule {
			matched = append(matched, request)
		}
	}
	return matched, nil
}

// GetRequestsByActor returns the requests submitted by the given actor
func (s *RequestStore) GetRequestsByActor(ctx context.Context, actorID string) ([]models.Request, error) {
	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]models.Request, 0)
	for _, request := range all {
		if request.ActorID == actorID {
			matched = append(matched, request)
		}
	}
	return matched, nil
}

// UpdateRequestStatus transitions a request's status. Returns (nil, nil)
// when no such request exists. Transitions are only permitted out of
// PENDING; terminal states admit no further change. When an accepted
// consultation request references an EHR, the decision is also submitted to
// the ledger; that submission is logged on failure but never blocks the
// local transition, which stays authoritative for the UI.
func (s *RequestStore) UpdateRequestStatus(ctx context.Context, id int64, status models.RequestStatus) (*models.Request, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, nil
	}

	if request.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: request %d is %s", ErrTerminalTransition, id, request.Status)
	}

	request.Status = status
	request.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	if err := s.put(ctx, request); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"request_id": id,
		"status":     status,
	}).Info("Request status updated")

	if request.Kind == models.RequestKindEHRConsultation && status == models.StatusAccepted && request.EHRID != nil {
		if err := s.gateway.SubmitConsultationResponse(ctx, request.ID, request.PatientMatricule, status); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"request_id": id,
				"status":     status,
			}).Error("Consultation response submission failed; local status kept")
		}
	}

	return request, nil
}

// GetEHRByConsultationRequest returns the EHR abstract a consultation
// request grants access to. Returns nil unless the request exists, is a
// consultation request and has been accepted; the ledger enforces the same
// policy, mirrored here on the read side.
func (s *RequestStore) GetEHRByConsultationRequest(ctx context.Context, id int64) (*models.EHRAbstract, error) {
	request, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil || request.Kind != models.RequestKindEHRConsultation || request.Status != models.StatusAccepted {
		return nil, nil
	}
	if request.EHRID == nil {
		return nil, nil
	}

	return s.gateway.FetchEHRForActor(ctx, request.PatientMatricule, *request.EHRID, request.Kind)
}

// FindPendingConfirmations returns requests whose ledger submission never
// confirmed, left behind by an interrupted two-phase creation
func (s *RequestStore) FindPendingConfirmations(ctx context.Context) ([]models.Request, error) {
	all, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	orphaned := make([]models.Request, 0)
	for _, request := range all {
		if request.LedgerState == models.LedgerStatePending {
			orphaned = append(orphaned, request)
		}
	}
	return orphaned, nil
}
