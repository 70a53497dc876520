// Package client talks to the registration API over HTTP/JSON.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sirdesai22/registration-dashboard/internal/models"
)

const basePath = "/api/registrations"

// HTTPClient implements the registration access layer against the REST API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient targets baseURL (e.g. "http://localhost:8080"). A zero
// timeout leaves requests bounded only by their context.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) List(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	if err := c.doJSON(ctx, http.MethodGet, basePath, nil, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

func (c *HTTPClient) Get(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	var reg models.Registration
	if err := c.doJSON(ctx, http.MethodGet, basePath+"/"+id.String(), nil, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (c *HTTPClient) Create(ctx context.Context, in models.RegistrationInput) (*models.Registration, error) {
	var reg models.Registration
	if err := c.doJSON(ctx, http.MethodPost, basePath, in, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Update replaces every business field of the registration.
func (c *HTTPClient) Update(ctx context.Context, id uuid.UUID, in models.RegistrationInput) (*models.Registration, error) {
	var reg models.Registration
	if err := c.doJSON(ctx, http.MethodPut, basePath+"/"+id.String(), in, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, basePath+"/"+id.String(), nil, nil)
}

// APIError is a non-success response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsValidation reports a rejected input: a missing field or a taken email.
func (e *APIError) IsValidation() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusConflict
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// doJSON performs a request with an optional JSON body and decodes the data
// member of the response envelope into result. A nil result discards it.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode >= 400 {
		if decodeErr == nil && env.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}
	if decodeErr != nil {
		return fmt.Errorf("decoding response: %w", decodeErr)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request was not successful"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("decoding response data: %w", err)
		}
	}
	return nil
}
