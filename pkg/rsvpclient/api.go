package rsvpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

//go:generate mockgen -source=api.go -destination=mock_api.go -package=rsvpclient

// API is the subset of the server the client flow needs. Calls on a single
// record take the access token that create, confirm-code or bypass handed out.
type API interface {
	Branches(ctx context.Context) (*BranchCatalog, error)
	CreateRSVP(ctx context.Context, submission Submission) (*Record, error)
	GetRSVP(ctx context.Context, id, token string) (*Record, error)
	LookupPhone(ctx context.Context, phone string) (*Lookup, error)
	UpdateRSVP(ctx context.Context, id, token string, submission Submission) (*Record, error)
	BypassVerification(ctx context.Context, id, token string) (*Record, error)
	RequestCode(ctx context.Context, phone, rsvpID, messagePrefix string) (string, error)
	// ConfirmCode returns the record access token on success.
	ConfirmCode(ctx context.Context, phone, code, rsvpID string) (string, error)
}

type envelope struct {
	Code      int             `json:"code"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Condition string          `json:"condition"`
}

// HTTPClient talks to the JSON API. Calls are never retried.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Branches(ctx context.Context) (*BranchCatalog, error) {
	var catalog BranchCatalog
	if err := c.do(ctx, http.MethodGet, "/v1/branches", "", nil, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// CreateRSVP answers a duplicate phone with an *APIError whose Existing is set.
func (c *HTTPClient) CreateRSVP(ctx context.Context, submission Submission) (*Record, error) {
	var record Record
	if err := c.do(ctx, http.MethodPost, "/v1/rsvps", "", submission, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) GetRSVP(ctx context.Context, id, token string) (*Record, error) {
	var record Record
	if err := c.do(ctx, http.MethodGet, "/v1/rsvps/"+url.PathEscape(id), token, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) LookupPhone(ctx context.Context, phone string) (*Lookup, error) {
	var lookup Lookup
	path := "/v1/rsvps/lookup?" + url.Values{"phone": {phone}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, "", nil, &lookup); err != nil {
		return nil, err
	}
	return &lookup, nil
}

func (c *HTTPClient) UpdateRSVP(ctx context.Context, id, token string, submission Submission) (*Record, error) {
	submission.Phone = ""

	var record Record
	if err := c.do(ctx, http.MethodPut, "/v1/rsvps/"+url.PathEscape(id), token, submission, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// BypassVerification answers with a record carrying a fresh AccessToken.
func (c *HTTPClient) BypassVerification(ctx context.Context, id, token string) (*Record, error) {
	var record Record
	if err := c.do(ctx, http.MethodPost, "/v1/rsvps/"+url.PathEscape(id)+"/bypass-verification", token, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) RequestCode(ctx context.Context, phone, rsvpID, messagePrefix string) (string, error) {
	body := map[string]string{"phoneNumber": phone}
	if rsvpID != "" {
		body["rsvpId"] = rsvpID
	}
	if messagePrefix != "" {
		body["messagePrefix"] = messagePrefix
	}

	var response struct {
		Success   bool   `json:"success"`
		RequestID string `json:"requestId"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/verification/request-code", "", body, &response); err != nil {
		return "", err
	}
	return response.RequestID, nil
}

func (c *HTTPClient) ConfirmCode(ctx context.Context, phone, code, rsvpID string) (string, error) {
	body := map[string]string{
		"phoneNumber": phone,
		"code":        code,
		"rsvpId":      rsvpID,
	}

	var response struct {
		Success     bool   `json:"success"`
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/verification/confirm-code", "", body, &response); err != nil {
		return "", err
	}
	return response.AccessToken, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{Status: resp.StatusCode}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Condition: env.Condition, Message: env.Message}
		if resp.StatusCode == http.StatusConflict && len(env.Data) > 0 {
			var existing Lookup
			if json.Unmarshal(env.Data, &existing) == nil && existing.ID != "" {
				apiErr.Existing = &existing
			}
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
