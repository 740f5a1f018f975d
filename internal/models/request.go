package models

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// RequestKind identifies the workflow a request belongs to
type RequestKind string

const (
	RequestKindEHRCreation     RequestKind = "EHR_CREATION"
	RequestKindEHRAccess       RequestKind = "EHR_ACCESS"
	RequestKindDocumentShare   RequestKind = "DOCUMENT_SHARE"
	RequestKindEHRConsultation RequestKind = "EHR_CONSULTATION"
)

// RequestStatus is the lifecycle state of a request.
// PENDING is the initial state; ACCEPTED and REJECTED are terminal.
type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusAccepted RequestStatus = "ACCEPTED"
	StatusRejected RequestStatus = "REJECTED"
)

// IsTerminal reports whether the status permits no further transition
func (s RequestStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// IsValid reports whether the status is a known lifecycle state
func (s RequestStatus) IsValid() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}

// IsValidKind reports whether the kind is a known request kind
func IsValidKind(k RequestKind) bool {
	switch k {
	case RequestKindEHRCreation, RequestKindEHRAccess, RequestKindDocumentShare, RequestKindEHRConsultation:
		return true
	}
	return false
}

// LedgerState tracks whether a request's identity has been confirmed by the
// ledger. A record stuck in PENDING_CONFIRMATION marks an interrupted
// two-phase creation.
type LedgerState string

const (
	LedgerStateLocal     LedgerState = "LOCAL"
	LedgerStatePending   LedgerState = "PENDING_CONFIRMATION"
	LedgerStateConfirmed LedgerState = "CONFIRMED"
)

// Matricule is a patient registration number. Stored values may have been
// serialized as JSON strings; unmarshalling coerces both forms so equality
// is always numeric.
type Matricule int64

// UnmarshalJSON accepts both numeric and numeric-string representations
func (m *Matricule) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(bytes.TrimSpace(data), `"`)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*m = 0
		return nil
	}
	value, err := strconv.ParseInt(string(trimmed), 10, 64)
	if err != nil {
		return fmt.Errorf("matricule must be numeric: %s", data)
	}
	*m = Matricule(value)
	return nil
}

// AttachmentRef references an uploaded file by its content hash
type AttachmentRef struct {
	FileTitle string `json:"fileTitle"`
	FileHash  string `json:"fileHash"`
}

// Request is a client-local workflow record. Onboarding requests and EHR
// abstracts live on the ledger; these records do not.
type Request struct {
	ID               int64           `json:"id"`
	Kind             RequestKind     `json:"kind"`
	PatientMatricule Matricule       `json:"patientMatricule"`
	PatientName      string          `json:"patientName,omitempty"`
	ActorID          string          `json:"actorId"`
	ActorName        string          `json:"actorName,omitempty"`
	ActorRole        string          `json:"actorRole,omitempty"`
	ActorOrg         string          `json:"actorOrg,omitempty"`
	Status           RequestStatus   `json:"status"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Attachments      []AttachmentRef `json:"attachments,omitempty"`
	EHRID            *int64          `json:"ehrId,omitempty"`
	SecretKey        string          `json:"secretKey,omitempty"` // opaque, never interpreted
	LedgerState      LedgerState     `json:"ledgerState"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// RequestDraft is the payload for creating a local request
type RequestDraft struct {
	Kind             RequestKind     `json:"kind" binding:"required"`
	PatientMatricule Matricule       `json:"patientMatricule" binding:"required"`
	PatientName      string          `json:"patientName,omitempty"`
	ActorID          string          `json:"actorId" binding:"required"`
	ActorName        string          `json:"actorName,omitempty"`
	ActorRole        string          `json:"actorRole,omitempty"`
	ActorOrg         string          `json:"actorOrg,omitempty"`
	Title            string          `json:"title" binding:"required"`
	Description      string          `json:"description,omitempty"`
	Attachments      []AttachmentRef `json:"attachments,omitempty"`
	EHRID            *int64          `json:"ehrId,omitempty"`
	SecretKey        string          `json:"secretKey,omitempty"`
}

// ConsultationParams is the payload for the two-phase consultation-request
// creation flow
type ConsultationParams struct {
	PatientMatricule Matricule `json:"patientMatricule" binding:"required"`
	EHRID            int64     `json:"ehrId" binding:"required"`
	ActorID          string    `json:"actorId" binding:"required"`
	ActorName        string    `json:"actorName,omitempty"`
	ActorRole        string    `json:"actorRole,omitempty"`
	ActorOrg         string    `json:"actorOrg,omitempty"`
	Description      string    `json:"description,omitempty"`
}

// StatusUpdateRequest is the payload for a status transition
type StatusUpdateRequest struct {
	Status RequestStatus `json:"status" binding:"required"`
}
