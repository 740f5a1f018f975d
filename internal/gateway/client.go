// Package gateway wraps all authenticated interaction with the REST gateway
// fronting the ledger. Failures are never retried here; retry policy belongs
// to the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/medsecure/medsecure-api/internal/config"
	"github.com/medsecure/medsecure-api/internal/organization"
)

// Chaincode function names exposed by the ledger
const (
	fnRequestPatient           = "RequestPatient"
	fnRequestHealthActor       = "RequestHealthActor"
	fnGetAllPatientRequests    = "GetAllPatientRequests"
	fnGetAllHealthActorReqs    = "GetAllHealthActorRequests"
	fnSetRequest               = "SetRequest"
	fnSetResponse              = "SetResponse"
	fnGetEHRByActor            = "GetEHRByActor"
	fnAddEHRAbstract           = "AddEHRAbstract"
	fnUpdatePatientEHRID       = "UpdatePatientEHRIDByMatricule"
)

// Client handles communication with the blockchain REST gateway
type Client struct {
	httpClient *http.Client
	config     *config.GatewayConfig
	logger     *logrus.Logger
}

type loginRequest struct {
	Username string `json:"username"`
	OrgName  string `json:"orgName"`
}

type loginResponse struct {
	Success bool `json:"success"`
	Message struct {
		Token string `json:"token"`
	} `json:"message"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type invokeRequest struct {
	Fcn   string   `json:"fcn"`
	Args  []string `json:"args"`
	Peers []string `json:"peers"`
}

type invokeResponse struct {
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
}

type queryResponse struct {
	Result struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
}

// NewClient creates a new gateway client instance
func NewClient(cfg *config.GatewayConfig, logger *logrus.Logger) *Client {
	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		config: cfg,
		logger: logger,
	}
}

// Login authenticates a named administrative identity against an
// organization and returns an opaque bearer token
func (c *Client) Login(ctx context.Context, identity, orgCode string) (string, error) {
	payload := loginRequest{
		Username: identity,
		OrgName:  organization.CodeToLedgerID(orgCode),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/users/login", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"identity": identity,
			"org":      orgCode,
		}).Error("Gateway login call failed")
		return "", fmt.Errorf("gateway login failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read login response: %w", err)
	}

	var login loginResponse
	if err := json.Unmarshal(respBody, &login); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !login.Success || login.Message.Token == "" {
		c.logger.WithFields(logrus.Fields{
			"identity":   identity,
			"org":        orgCode,
			"statusCode": resp.StatusCode,
		}).Error("Gateway login rejected")
		return "", fmt.Errorf("gateway login rejected for identity %s", identity)
	}

	return login.Message.Token, nil
}

// DefaultLogin authenticates the configured default identity, used for
// organization-agnostic read operations
func (c *Client) DefaultLogin(ctx context.Context) (string, error) {
	return c.Login(ctx, c.config.DefaultIdentity, c.config.DefaultOrg)
}

// RegisterIdentity enrolls a new user with the ledger's identity service
func (c *Client) RegisterIdentity(ctx context.Context, token, username, orgCode string) error {
	payload := loginRequest{
		Username: username,
		OrgName:  organization.CodeToLedgerID(orgCode),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal register request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/users", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create register request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"username": username,
			"org":      orgCode,
		}).Error("Gateway identity enrollment call failed")
		return fmt.Errorf("identity enrollment failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read register response: %w", err)
	}

	var register registerResponse
	if err := json.Unmarshal(respBody, &register); err != nil {
		return fmt.Errorf("failed to unmarshal register response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !register.Success {
		c.logger.WithFields(logrus.Fields{
			"username":   username,
			"org":        orgCode,
			"statusCode": resp.StatusCode,
			"message":    register.Message,
		}).Error("Gateway identity enrollment rejected")
		return fmt.Errorf("identity enrollment rejected for user %s: %s", username, register.Message)
	}

	return nil
}

// invoke submits a chaincode transaction through the gateway
func (c *Client) invoke(ctx context.Context, token, fcn string, args []string) (*invokeResponse, error) {
	org, _ := organization.ByCode(c.config.DefaultOrg)
	payload := invokeRequest{
		Fcn:   fcn,
		Args:  args,
		Peers: []string{org.DefaultPeer},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoke request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/channels/%s/chaincodes/%s", c.config.BaseURL, c.config.Channel, c.config.Chaincode)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create invoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.WithFields(logrus.Fields{
		"fcn":  fcn,
		"args": args,
	}).Debug("Invoking chaincode")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"fcn":  fcn,
			"args": args,
		}).Error("Chaincode invocation call failed")
		return nil, fmt.Errorf("chaincode invocation %s failed: %w", fcn, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoke response: %w", err)
	}

	var invoke invokeResponse
	if err := json.Unmarshal(respBody, &invoke); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invoke response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !invoke.Success {
		c.logger.WithFields(logrus.Fields{
			"fcn":        fcn,
			"args":       args,
			"statusCode": resp.StatusCode,
			"message":    invoke.Message,
		}).Error("Chaincode invocation rejected")
		return nil, fmt.Errorf("chaincode invocation %s rejected: %s", fcn, invoke.Message)
	}

	return &invoke, nil
}

// query runs a chaincode query through the gateway and returns the raw data
// payload. A 403 or 404 status is reported as (nil, nil): access denial and
// absence are indistinguishable by contract.
func (c *Client) query(ctx context.Context, token, fcn string, args []string) (json.RawMessage, error) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query args: %w", err)
	}

	params := url.Values{}
	params.Set("fcn", fcn)
	params.Set("args", string(argsJSON))

	endpoint := fmt.Sprintf("%s/channels/%s/chaincodes/%s?%s", c.config.BaseURL, c.config.Channel, c.config.Chaincode, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	c.logger.WithFields(logrus.Fields{
		"fcn":  fcn,
		"args": args,
	}).Debug("Querying chaincode")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"fcn":  fcn,
			"args": args,
		}).Error("Chaincode query call failed")
		return nil, fmt.Errorf("chaincode query %s failed: %w", fcn, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read query response: %w", err)
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WithFields(logrus.Fields{
			"fcn":        fcn,
			"args":       args,
			"statusCode": resp.StatusCode,
		}).Error("Chaincode query rejected")
		return nil, fmt.Errorf("chaincode query %s returned status %d", fcn, resp.StatusCode)
	}

	var query queryResponse
	if err := json.Unmarshal(respBody, &query); err != nil {
		return nil, fmt.Errorf("failed to unmarshal query response: %w", err)
	}

	return query.Result.Data, nil
}

// parseNumericResult extracts a numeric ID from a transaction result. The
// gateway returns results either as a bare number or as a quoted string.
func parseNumericResult(raw json.RawMessage) (int64, error) {
	trimmed := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if trimmed == "" {
		return 0, fmt.Errorf("transaction result is empty")
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("transaction result is not numeric: %q", trimmed)
	}
	return id, nil
}
