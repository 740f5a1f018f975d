package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/medsecure/medsecure-api/internal/models"
	"github.com/medsecure/medsecure-api/internal/service"
	"github.com/medsecure/medsecure-api/internal/utils"
)

// EHRHandler handles EHR-creation HTTP requests
type EHRHandler struct {
	ehrService *service.EHRService
}

// NewEHRHandler creates a new EHR handler instance
func NewEHRHandler(ehrService *service.EHRService) *EHRHandler {
	return &EHRHandler{ehrService: ehrService}
}

// ehrCreateRequest wraps an EHR draft with the submitting identity
type ehrCreateRequest struct {
	models.EHRDraft
	Identity string `json:"identity" binding:"required"`
	Org      string `json:"org" binding:"required"`
}

// CreateEHR handles POST /ehrs
func (h *EHRHandler) CreateEHR(c *gin.Context) {
	var req ehrCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	ehrID, err := h.ehrService.CreateEHR(c.Request.Context(), &req.EHRDraft, req.Identity, req.Org)
	if err != nil {
		utils.SendGatewayError(c, "EHR creation failed", err.Error())
		return
	}

	utils.SendCreatedResponse(c, gin.H{"ehrId": ehrID})
}
