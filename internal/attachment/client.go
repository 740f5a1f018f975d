// Package attachment uploads binary attachments to the content-addressed
// storage gateway. Unlike the ledger read paths, upload failures always
// propagate: silently dropping a failed upload would corrupt the attachment
// list of an in-progress form.
package attachment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medsecure/medsecure-api/internal/config"
)

// Client handles communication with the attachment storage gateway
type Client struct {
	httpClient *http.Client
	config     *config.AttachmentConfig
	logger     *logrus.Logger
}

type uploadResponse struct {
	Hash string `json:"hash"`
}

// NewClient creates a new attachment client instance
func NewClient(cfg *config.AttachmentConfig, logger *logrus.Logger) *Client {
	timeout := 60 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		config:     cfg,
		logger:     logger,
	}
}

// Upload streams a file to the attachment gateway and returns its
// content-derived hash
func (c *Client) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to buffer file %s: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.WithField("filename", filename).Debug("Uploading attachment")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("filename", filename).Error("Attachment upload call failed")
		return "", fmt.Errorf("attachment upload failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"filename":   filename,
			"statusCode": resp.StatusCode,
		}).Error("Attachment gateway rejected upload")
		return "", fmt.Errorf("attachment gateway returned status %d", resp.StatusCode)
	}

	var upload uploadResponse
	if err := json.Unmarshal(respBody, &upload); err != nil {
		return "", fmt.Errorf("failed to unmarshal upload response: %w", err)
	}

	if upload.Hash == "" {
		return "", fmt.Errorf("attachment gateway returned no content hash")
	}

	return upload.Hash, nil
}
