package attachment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsecure/medsecure-api/internal/config"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.AttachmentConfig{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}
	return NewClient(cfg, testLogger())
}

func TestUpload_Success(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "scan.pdf", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "binary payload", string(content))

		json.NewEncoder(w).Encode(map[string]string{"hash": "Qm1234abcd"})
	}))

	hash, err := client.Upload(context.Background(), strings.NewReader("binary payload"), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Qm1234abcd", hash)
}

func TestUpload_GatewayErrorPropagates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.Upload(context.Background(), strings.NewReader("payload"), "scan.pdf")
	assert.Error(t, err)
}

func TestUpload_MissingHashIsError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))

	_, err := client.Upload(context.Background(), strings.NewReader("payload"), "scan.pdf")
	assert.Error(t, err)
}
