package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medsecure/medsecure-api/internal/models"
	"github.com/medsecure/medsecure-api/internal/storage"
	"github.com/medsecure/medsecure-api/internal/store"
	"github.com/medsecure/medsecure-api/internal/store/mocks"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestRouter(gateway *mocks.MockLedgerGateway) (*gin.Engine, *store.RequestStore) {
	gin.SetMode(gin.TestMode)

	requestStore := store.NewRequestStore(storage.NewMemoryBackend(), gateway, testLogger())
	handler := NewRequestHandler(requestStore)

	router := gin.New()
	router.POST("/requests", handler.CreateRequest)
	router.POST("/requests/consultations", handler.CreateConsultationRequest)
	router.GET("/requests", handler.ListRequests)
	router.GET("/requests/:requestId", handler.GetRequest)
	router.PUT("/requests/:requestId/status", handler.UpdateRequestStatus)
	router.GET("/requests/:requestId/ehr", handler.GetConsultationEHR)

	return router, requestStore
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func validDraft() models.RequestDraft {
	return models.RequestDraft{
		Kind:             models.RequestKindEHRAccess,
		PatientMatricule: 1001,
		ActorID:          "HA1",
		Title:            "Access request",
	}
}

func TestCreateRequest(t *testing.T) {
	router, _ := newTestRouter(new(mocks.MockLedgerGateway))

	recorder := performJSON(t, router, http.MethodPost, "/requests", validDraft())
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created models.Request
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, models.StatusPending, created.Status)
}

func TestCreateRequest_RejectsUnknownKind(t *testing.T) {
	router, _ := newTestRouter(new(mocks.MockLedgerGateway))

	draft := validDraft()
	draft.Kind = "EHR_DELETION"

	recorder := performJSON(t, router, http.MethodPost, "/requests", draft)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCreateConsultationRequest_LedgerFailureIs502(t *testing.T) {
	gateway := new(mocks.MockLedgerGateway)
	gateway.On("SubmitConsultationRequest", mock.Anything, models.Matricule(1001), int64(7), "HA1").
		Return(int64(0), errors.New("ledger unavailable"))

	router, _ := newTestRouter(gateway)

	recorder := performJSON(t, router, http.MethodPost, "/requests/consultations", models.ConsultationParams{
		PatientMatricule: 1001,
		EHRID:            7,
		ActorID:          "HA1",
	})
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &errResp))
	assert.Equal(t, models.ErrCodeGatewayError, errResp.Code)
}

func TestCreateConsultationRequest_UsesLedgerID(t *testing.T) {
	gateway := new(mocks.MockLedgerGateway)
	gateway.On("SubmitConsultationRequest", mock.Anything, models.Matricule(1001), int64(7), "HA1").
		Return(int64(500123), nil)

	router, _ := newTestRouter(gateway)

	recorder := performJSON(t, router, http.MethodPost, "/requests/consultations", models.ConsultationParams{
		PatientMatricule: 1001,
		EHRID:            7,
		ActorID:          "HA1",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created models.Request
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, int64(500123), created.ID)
}

func TestListRequests_FilterByMatricule(t *testing.T) {
	router, requestStore := newTestRouter(new(mocks.MockLedgerGateway))

	draft := validDraft()
	_, err := requestStore.CreateRequest(context.Background(), &draft)
	require.NoError(t, err)

	other := validDraft()
	other.PatientMatricule = 2002
	_, err = requestStore.CreateRequest(context.Background(), &other)
	require.NoError(t, err)

	recorder := performJSON(t, router, http.MethodGet, "/requests?patientMatricule=1001", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var listed []models.Request
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, models.Matricule(1001), listed[0].PatientMatricule)
}

func TestListRequests_RejectsNonNumericMatricule(t *testing.T) {
	router, _ := newTestRouter(new(mocks.MockLedgerGateway))

	recorder := performJSON(t, router, http.MethodGet, "/requests?patientMatricule=abc", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetRequest_NotFound(t *testing.T) {
	router, _ := newTestRouter(new(mocks.MockLedgerGateway))

	recorder := performJSON(t, router, http.MethodGet, "/requests/999", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestUpdateRequestStatus_TerminalIs409(t *testing.T) {
	router, requestStore := newTestRouter(new(mocks.MockLedgerGateway))

	draft := validDraft()
	request, err := requestStore.CreateRequest(context.Background(), &draft)
	require.NoError(t, err)

	path := "/requests/" + strconv.FormatInt(request.ID, 10) + "/status"

	recorder := performJSON(t, router, http.MethodPut, path, models.StatusUpdateRequest{Status: models.StatusRejected})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performJSON(t, router, http.MethodPut, path, models.StatusUpdateRequest{Status: models.StatusAccepted})
	require.Equal(t, http.StatusConflict, recorder.Code)

	var errResp models.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &errResp))
	assert.Equal(t, models.ErrCodeConflict, errResp.Code)
}

func TestUpdateRequestStatus_UnknownStatusIs400(t *testing.T) {
	router, requestStore := newTestRouter(new(mocks.MockLedgerGateway))

	draft := validDraft()
	request, err := requestStore.CreateRequest(context.Background(), &draft)
	require.NoError(t, err)

	recorder := performJSON(t, router, http.MethodPut, "/requests/"+strconv.FormatInt(request.ID, 10)+"/status",
		models.StatusUpdateRequest{Status: "CANCELLED"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetConsultationEHR_DenialIs404(t *testing.T) {
	gateway := new(mocks.MockLedgerGateway)
	gateway.On("SubmitConsultationRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(int64(500123), nil)
	gateway.On("SubmitConsultationResponse", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil)
	gateway.On("FetchEHRForActor", mock.Anything, models.Matricule(1001), int64(7), models.RequestKindEHRConsultation).
		Return(nil, nil)

	router, requestStore := newTestRouter(gateway)

	_, err := requestStore.CreateConsultationRequest(context.Background(), &models.ConsultationParams{
		PatientMatricule: 1001,
		EHRID:            7,
		ActorID:          "HA1",
	})
	require.NoError(t, err)

	_, err = requestStore.UpdateRequestStatus(context.Background(), 500123, models.StatusAccepted)
	require.NoError(t, err)

	recorder := performJSON(t, router, http.MethodGet, "/requests/500123/ehr", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
