package models

import "time"

// EHRAbstract is the ledger-stored metadata record for a patient's
// electronic health record. Immutable once created, except for the
// back-reference linking it into the patient record.
type EHRAbstract struct {
	ID               int64           `json:"id"`
	Title            string          `json:"title"`
	PatientMatricule Matricule       `json:"patientMatricule"`
	Hash             string          `json:"hash"`
	Attachments      []AttachmentRef `json:"attachments,omitempty"`
	SecretKey        string          `json:"secretKey,omitempty"` // opaque, never interpreted
	CreatedAt        time.Time       `json:"createdAt"`
}

// EHRDraft is the payload for creating an EHR abstract on the ledger
type EHRDraft struct {
	Title            string          `json:"title" binding:"required"`
	PatientMatricule Matricule       `json:"patientMatricule" binding:"required"`
	Hash             string          `json:"hash"`
	Attachments      []AttachmentRef `json:"attachments,omitempty"`
	SecretKey        string          `json:"secretKey,omitempty"`
}
