package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medsecure/medsecure-api/internal/models"
	"github.com/medsecure/medsecure-api/internal/store"
	"github.com/medsecure/medsecure-api/internal/utils"
	pkgutils "github.com/medsecure/medsecure-api/pkg/utils"
)

// RequestHandler handles request-lifecycle HTTP requests
type RequestHandler struct {
	store *store.RequestStore
}

// NewRequestHandler creates a new request handler instance
func NewRequestHandler(requestStore *store.RequestStore) *RequestHandler {
	return &RequestHandler{store: requestStore}
}

// CreateRequest handles POST /requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var draft models.RequestDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	request, err := h.store.CreateRequest(c.Request.Context(), &draft)
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	utils.SendCreatedResponse(c, request)
}

// CreateConsultationRequest handles POST /requests/consultations
func (h *RequestHandler) CreateConsultationRequest(c *gin.Context) {
	var params models.ConsultationParams
	if err := c.ShouldBindJSON(&params); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	request, err := h.store.CreateConsultationRequest(c.Request.Context(), &params)
	if err != nil {
		utils.SendGatewayError(c, "Consultation request could not be recorded on the ledger", err.Error())
		return
	}

	utils.SendCreatedResponse(c, request)
}

// ListRequests handles GET /requests with optional patientMatricule and
// actorId filters
func (h *RequestHandler) ListRequests(c *gin.Context) {
	ctx := c.Request.Context()

	if matriculeParam := c.Query("patientMatricule"); matriculeParam != "" {
		matricule, err := pkgutils.ParseMatricule(matriculeParam)
		if err != nil {
			utils.SendValidationError(c, err.Error())
			return
		}
		requests, err := h.store.GetRequestsByPatientMatricule(ctx, models.Matricule(matricule))
		if err != nil {
			utils.SendInternalServerError(c, "Failed to list requests", err.Error())
			return
		}
		utils.SendOKResponse(c, requests)
		return
	}

	if actorID := c.Query("actorId"); actorID != "" {
		requests, err := h.store.GetRequestsByActor(ctx, actorID)
		if err != nil {
			utils.SendInternalServerError(c, "Failed to list requests", err.Error())
			return
		}
		utils.SendOKResponse(c, requests)
		return
	}

	requests, err := h.store.GetAllRequests(ctx)
	if err != nil {
		utils.SendInternalServerError(c, "Failed to list requests", err.Error())
		return
	}
	utils.SendOKResponse(c, requests)
}

// GetRequest handles GET /requests/:requestId
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "request ID must be numeric")
		return
	}

	request, err := h.store.GetRequestByID(c.Request.Context(), id)
	if err != nil {
		utils.SendInternalServerError(c, "Failed to load request", err.Error())
		return
	}
	if request == nil {
		utils.SendNotFoundError(c, "No such request")
		return
	}

	utils.SendOKResponse(c, request)
}

// UpdateRequestStatus handles PUT /requests/:requestId/status
func (h *RequestHandler) UpdateRequestStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "request ID must be numeric")
		return
	}

	var update models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	request, err := h.store.UpdateRequestStatus(c.Request.Context(), id, update.Status)
	if errors.Is(err, store.ErrInvalidStatus) {
		utils.SendValidationError(c, "unknown status: "+string(update.Status))
		return
	}
	if errors.Is(err, store.ErrTerminalTransition) {
		utils.SendConflictError(c, err.Error())
		return
	}
	if err != nil {
		utils.SendInternalServerError(c, "Failed to update request status", err.Error())
		return
	}
	if request == nil {
		utils.SendNotFoundError(c, "No such request")
		return
	}

	utils.SendOKResponse(c, request)
}

// GetConsultationEHR handles GET /requests/:requestId/ehr. The 404 covers
// missing requests, non-consultation kinds, unaccepted requests, and
// ledger-side denial alike; the caller cannot tell them apart.
func (h *RequestHandler) GetConsultationEHR(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil {
		utils.SendValidationError(c, "request ID must be numeric")
		return
	}

	ehr, err := h.store.GetEHRByConsultationRequest(c.Request.Context(), id)
	if err != nil {
		utils.SendInternalServerError(c, "Failed to fetch EHR", err.Error())
		return
	}
	if ehr == nil {
		utils.SendNotFoundError(c, "No accessible EHR for this request")
		return
	}

	utils.SendOKResponse(c, ehr)
}
