package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/medsecure/medsecure-api/internal/models"
	"github.com/medsecure/medsecure-api/internal/store"
	"github.com/medsecure/medsecure-api/internal/utils"
	pkgutils "github.com/medsecure/medsecure-api/pkg/utils"
)

// ProfileHandler handles client-local profile record HTTP requests
type ProfileHandler struct {
	profiles *store.ProfileStore
}

// NewProfileHandler creates a new profile handler instance
func NewProfileHandler(profiles *store.ProfileStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// PutPatientProfile handles PUT /profiles/patients/:matricule
func (h *ProfileHandler) PutPatientProfile(c *gin.Context) {
	matricule, err := pkgutils.ParseMatricule(c.Param("matricule"))
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	var profile models.PatientProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	profile.Matricule = models.Matricule(matricule)

	if err := h.profiles.PutPatientProfile(c.Request.Context(), &profile); err != nil {
		utils.SendInternalServerError(c, "Failed to store patient profile", err.Error())
		return
	}

	utils.SendOKResponse(c, profile)
}

// GetPatientProfile handles GET /profiles/patients/:matricule
func (h *ProfileHandler) GetPatientProfile(c *gin.Context) {
	matricule, err := pkgutils.ParseMatricule(c.Param("matricule"))
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	profile, err := h.profiles.GetPatientProfile(c.Request.Context(), models.Matricule(matricule))
	if err != nil {
		utils.SendInternalServerError(c, "Failed to load patient profile", err.Error())
		return
	}
	if profile == nil {
		utils.SendNotFoundError(c, "No such patient profile")
		return
	}

	utils.SendOKResponse(c, profile)
}

// PutActorProfile handles PUT /profiles/actors/:actorId
func (h *ProfileHandler) PutActorProfile(c *gin.Context) {
	actorID := c.Param("actorId")
	if err := pkgutils.ValidateActorID(actorID); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	var profile models.ActorProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	profile.ActorID = actorID

	if err := h.profiles.PutActorProfile(c.Request.Context(), &profile); err != nil {
		utils.SendInternalServerError(c, "Failed to store actor profile", err.Error())
		return
	}

	utils.SendOKResponse(c, profile)
}

// GetActorProfile handles GET /profiles/actors/:actorId
func (h *ProfileHandler) GetActorProfile(c *gin.Context) {
	actorID := c.Param("actorId")

	profile, err := h.profiles.GetActorProfile(c.Request.Context(), actorID)
	if err != nil {
		utils.SendInternalServerError(c, "Failed to load actor profile", err.Error())
		return
	}
	if profile == nil {
		utils.SendNotFoundError(c, "No such actor profile")
		return
	}

	utils.SendOKResponse(c, profile)
}
