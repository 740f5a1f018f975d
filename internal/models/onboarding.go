package models

// PatientRequest is a read-mostly projection of a ledger-side patient
// onboarding request. The ledger owns the canonical state.
type PatientRequest struct {
	RequestID        int64         `json:"requestId"`
	Matricule        Matricule     `json:"matricule"`
	FirstName        string        `json:"firstName"`
	LastName         string        `json:"lastName"`
	OrganizationCode string        `json:"organizationCode"`
	Status           RequestStatus `json:"status"`
}

// HealthActorRequest is a read-mostly projection of a ledger-side
// health-actor onboarding request
type HealthActorRequest struct {
	RequestID        int64         `json:"requestId"`
	ActorID          string        `json:"actorId"`
	FirstName        string        `json:"firstName"`
	LastName         string        `json:"lastName"`
	Role             string        `json:"role"`
	OrganizationCode string        `json:"organizationCode"`
	Status           RequestStatus `json:"status"`
}

// PatientProfile is a client-local patient credential/profile record
type PatientProfile struct {
	Matricule Matricule `json:"matricule"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	EHRID     *int64    `json:"ehrId,omitempty"`
}

// ActorProfile is a client-local health-actor credential/profile record
type ActorProfile struct {
	ActorID          string `json:"actorId"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Role             string `json:"role"`
	OrganizationCode string `json:"organizationCode"`
}
