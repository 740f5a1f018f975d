package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medsecure/medsecure-api/internal/config"
	"github.com/medsecure/medsecure-api/internal/models"
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

	cfg := &config.GatewayConfig{
		BaseURL:         server.URL,
		Channel:         "mychannel",
		Chaincode:       "medsecure",
		DefaultIdentity: "hca-admin",
		DefaultOrg:      "HCA",
		Timeout:         5 * time.Second,
	}
	return NewClient(cfg, testLogger())
}

func loginOK(w http.ResponseWriter) {
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": map[string]string{"token": "token-123"},
	})
}

func TestLogin_Success(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/login", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "hca-admin", payload["username"])
		assert.Equal(t, "org2", payload["orgName"])

		loginOK(w)
	}))

	token, err := client.Login(context.Background(), "hca-admin", "HCA")
	require.NoError(t, err)
	assert.Equal(t, "token-123", token)
}

func TestLogin_Rejected(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
	}))

	_, err := client.Login(context.Background(), "nobody", "HCA")
	assert.Error(t, err)
}

func TestRegisterIdentity(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "enrolled"})
	}))

	err := client.RegisterIdentity(context.Background(), "token-123", "dr-mercier", "HQA")
	assert.NoError(t, err)
}

func TestListPatientOnboardingRequests_NormalizesOrganizations(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/login" {
			loginOK(w)
			return
		}
		require.Equal(t, "/channels/mychannel/chaincodes/medsecure", r.URL.Path)
		assert.Equal(t, "GetAllPatientRequests", r.URL.Query().Get("fcn"))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{
				"data": []map[string]interface{}{
					{"request_id": 1, "matricule": 1001, "first_name": "Alice", "last_name": "Durand", "org_id": "org2", "status": "PENDING"},
					{"request_id": 2, "matricule": "1002", "first_name": "Bruno", "last_name": "Petit", "org_id": "org3", "status": "ACCEPTED"},
				},
			},
		})
	}))

	requests, err := client.ListPatientOnboardingRequests(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.Equal(t, "HCA", requests[0].OrganizationCode)
	assert.Equal(t, "HQA", requests[1].OrganizationCode)
	assert.Equal(t, models.Matricule(1002), requests[1].Matricule)
}

func TestListPatientOnboardingRequests_OrganizationFilter(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/login" {
			loginOK(w)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{
				"data": []map[string]interface{}{
					{"request_id": 1, "matricule": 1001, "org_id": "org2", "status": "PENDING"},
					{"request_id": 2, "matricule": 1002, "org_id": "org3", "status": "PENDING"},
				},
			},
		})
	}))

	requests, err := client.ListPatientOnboardingRequests(context.Background(), "HQA")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, int64(2), requests[0].RequestID)
}

func TestListHealthActorOnboardingRequests(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/login" {
			loginOK(w)
			return
		}
		assert.Equal(t, "GetAllHealthActorRequests", r.URL.Query().Get("fcn"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{
				"data": []map[string]interface{}{
					{"request_id": 5, "actor_id": "HA1", "role": "physician", "org_id": "org2", "status": "PENDING"},
				},
			},
		})
	}))

	requests, err := client.ListHealthActorOnboardingRequests(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "HA1", requests[0].ActorID)
	assert.Equal(t, "HCA", requests[0].OrganizationCode)
}

func TestSubmitConsultationRequest_ParsesLedgerID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/login" {
			loginOK(w)
			return
		}
		require.Equal(t, http.MethodPost, r.Method)

		var payload invokeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "SetRequest", payload.Fcn)
		assert.Equal(t, []string{"1001", "7", "HA1"}, payload.Args)

		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "result": "500123"})
	}))

	id, err := client.SubmitConsultationRequest(context.Background(), 1001, 7, "HA1")
	require.NoError(t, err)
	assert.Equal(t, int64(500123), id)
}

func TestSubmitConsultationRequest_MalformedID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/login" {
			loginOK(w)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "result": "tx-abc"})
	}))

	_, err := client.SubmitConsultationRequest(context.Background(), 1001, 7, "HA1")
	assert.Error(t, err)
}

func TestSubmitConsultationResponse_CarriesCallerStatus(t *testing.T) {
	var gotArgs []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/login" {
			loginOK(w)
			return
		}
		var payload invokeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotArgs = payload.Args
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "result": "ok"})
	}))

	err := client.SubmitConsultationResponse(context.Background(), 500123, 1001, models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, []string{"500123", "1001", "REJECTED"}, gotArgs)
}

func TestFetchEHRForActor_AccessDeniedIsNil(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/login" {
			loginOK(w)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))

	ehr, err := client.FetchEHRForActor(context.Background(), 1001, 7, models.RequestKindEHRConsultation)
	require.NoError(t, err)
	assert.Nil(t, ehr)
}

func TestFetchEHRForActor_NotFoundIsNil(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/login" {
			loginOK(w)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))

	ehr, err := client.FetchEHRForActor(context.Background(), 1001, 7, models.RequestKindEHRConsultation)
	require.NoError(t, err)
	assert.Nil(t, ehr)
}

func TestFetchEHRForActor_Found(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/users/login" {
			loginOK(w)
			return
		}
		assert.Equal(t, "GetEHRByActor", r.URL.Query().Get("fcn"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{
				"data": map[string]interface{}{
					"id":               7,
					"title":            "Cardiology",
					"patientMatricule": 1001,
					"hash":             "abc123",
				},
			},
		})
	}))

	ehr, err := client.FetchEHRForActor(context.Background(), 1001, 7, models.RequestKindEHRConsultation)
	require.NoError(t, err)
	require.NotNil(t, ehr)
	assert.Equal(t, int64(7), ehr.ID)
	assert.Equal(t, models.Matricule(1001), ehr.PatientMatricule)
}

func TestParseNumericResult(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int64
		wantErr  bool
	}{
		{name: "bare number", raw: `500123`, expected: 500123},
		{name: "quoted number", raw: `"500123"`, expected: 500123},
		{name: "empty", raw: ``, wantErr: true},
		{name: "non-numeric", raw: `"tx-abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := parseNumericResult(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}
