package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/medsecure/medsecure-api/internal/attachment"
	"github.com/medsecure/medsecure-api/internal/utils"
)

// AttachmentHandler handles attachment upload HTTP requests
type AttachmentHandler struct {
	client *attachment.Client
}

// NewAttachmentHandler creates a new attachment handler instance
func NewAttachmentHandler(client *attachment.Client) *AttachmentHandler {
	return &AttachmentHandler{client: client}
}

// Upload handles POST /attachments. Upload failures propagate to the
// caller; a dropped upload must never look like success.
func (h *AttachmentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.SendBadRequestError(c, "Missing multipart file field", err.Error())
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.SendBadRequestError(c, "Unreadable multipart file", err.Error())
		return
	}
	defer file.Close()

	hash, err := h.client.Upload(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		utils.SendGatewayError(c, "Attachment upload failed", err.Error())
		return
	}

	utils.SendCreatedResponse(c, gin.H{"fileTitle": fileHeader.Filename, "fileHash": hash})
}
