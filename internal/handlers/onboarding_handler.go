package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medsecure/medsecure-api/internal/gateway"
	"github.com/medsecure/medsecure-api/internal/models"
	"github.com/medsecure/medsecure-api/internal/utils"
)

// OnboardingHandler serves the ledger-side onboarding dashboards. These are
// best-effort views: a failed ledger read degrades to an empty list with
// the error logged, never to an error response.
type OnboardingHandler struct {
	gateway *gateway.Client
	logger  *logrus.Logger
}

// NewOnboardingHandler creates a new onboarding handler instance
func NewOnboardingHandler(gatewayClient *gateway.Client, logger *logrus.Logger) *OnboardingHandler {
	return &OnboardingHandler{gateway: gatewayClient, logger: logger}
}

// ListPatientRequests handles GET /onboarding/patients
func (h *OnboardingHandler) ListPatientRequests(c *gin.Context) {
	orgFilter := c.Query("org")

	requests, err := h.gateway.ListPatientOnboardingRequests(c.Request.Context(), orgFilter)
	if err != nil {
		h.logger.WithError(err).Warn("Patient onboarding list unavailable; returning empty view")
		utils.SendOKResponse(c, []models.PatientRequest{})
		return
	}

	utils.SendOKResponse(c, requests)
}

// ListHealthActorRequests handles GET /onboarding/health-actors
func (h *OnboardingHandler) ListHealthActorRequests(c *gin.Context) {
	orgFilter := c.Query("org")

	requests, err := h.gateway.ListHealthActorOnboardingRequests(c.Request.Context(), orgFilter)
	if err != nil {
		h.logger.WithError(err).Warn("Health-actor onboarding list unavailable; returning empty view")
		utils.SendOKResponse(c, []models.HealthActorRequest{})
		return
	}

	utils.SendOKResponse(c, requests)
}

// patientOnboardingRequest is the payload for submitting a patient
// registration to the ledger
type patientOnboardingRequest struct {
	Matricule models.Matricule `json:"matricule" binding:"required"`
	FirstName string           `json:"firstName" binding:"required"`
	LastName  string           `json:"lastName" binding:"required"`
	Org       string           `json:"org" binding:"required"`
}

// SubmitPatientRequest handles POST /onboarding/patients. Unlike the list
// views, submission failures propagate as gateway errors.
func (h *OnboardingHandler) SubmitPatientRequest(c *gin.Context) {
	var req patientOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	ctx := c.Request.Context()
	token, err := h.gateway.DefaultLogin(ctx)
	if err != nil {
		utils.SendGatewayError(c, "Administrative authentication failed", err.Error())
		return
	}

	if err := h.gateway.SubmitPatientOnboarding(ctx, token, req.Matricule, req.FirstName, req.LastName, req.Org); err != nil {
		utils.SendGatewayError(c, "Patient onboarding could not be recorded on the ledger", err.Error())
		return
	}

	utils.SendCreatedResponse(c, gin.H{"matricule": req.Matricule, "org": req.Org})
}

// healthActorOnboardingRequest is the payload for submitting a health-actor
// registration to the ledger
type healthActorOnboardingRequest struct {
	ActorID   string `json:"actorId" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Role      string `json:"role" binding:"required"`
	Org       string `json:"org" binding:"required"`
}

// SubmitHealthActorRequest handles POST /onboarding/health-actors
func (h *OnboardingHandler) SubmitHealthActorRequest(c *gin.Context) {
	var req healthActorOnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	ctx := c.Request.Context()
	token, err := h.gateway.DefaultLogin(ctx)
	if err != nil {
		utils.SendGatewayError(c, "Administrative authentication failed", err.Error())
		return
	}

	if err := h.gateway.SubmitHealthActorOnboarding(ctx, token, req.ActorID, req.FirstName, req.LastName, req.Role, req.Org); err != nil {
		utils.SendGatewayError(c, "Health-actor onboarding could not be recorded on the ledger", err.Error())
		return
	}

	utils.SendCreatedResponse(c, gin.H{"actorId": req.ActorID, "org": req.Org})
}

// identityRequest is the payload for ledger identity enrollment
type identityRequest struct {
	Username string `json:"username" binding:"required"`
	Org      string `json:"org" binding:"required"`
	Identity string `json:"identity" binding:"required"`
}

// RegisterIdentity handles POST /identities
func (h *OnboardingHandler) RegisterIdentity(c *gin.Context) {
	var req identityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	ctx := c.Request.Context()
	token, err := h.gateway.Login(ctx, req.Identity, req.Org)
	if err != nil {
		utils.SendGatewayError(c, "Administrative authentication failed", err.Error())
		return
	}

	if err := h.gateway.RegisterIdentity(ctx, token, req.Username, req.Org); err != nil {
		utils.SendGatewayError(c, "Identity enrollment failed", err.Error())
		return
	}

	utils.SendCreatedResponse(c, gin.H{"username": req.Username, "org": req.Org})
}
