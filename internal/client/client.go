// Package client talks to a running catalog API over HTTP. *Client
// implements editor.Store, so the editing core works the same against a
// remote server as against the database.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/conduit-lang/catalog/internal/catalog"
	"github.com/conduit-lang/catalog/internal/validation"
)

// DefaultTimeout bounds each request when none is configured
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the catalog API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("catalog api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("catalog api: %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Config contains configuration for creating a client
type Config struct {
	BaseURL    string // e.g. http://localhost:8080
	Timeout    time.Duration
	HTTPClient *http.Client // optional, overrides Timeout
}

// Client is an HTTP client for the catalog API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client
func New(config Config) (*Client, error) {
	base := strings.TrimRight(config.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("api url is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, httpClient: httpClient}, nil
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// errorBody covers both the plain and the validation error shapes
type errorBody struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Fields  map[string][]string `json:"fields"`
}

// do sends body as JSON and decodes a 2xx answer into out. A 422 carrying
// field messages comes back as *validation.ValidationErrors.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || (body.Message == "" && len(body.Fields) == 0) {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if resp.StatusCode == http.StatusUnprocessableEntity && len(body.Fields) > 0 {
		errs := validation.NewValidationErrors()
		for field, messages := range body.Fields {
			for _, m := range messages {
				errs.Add(field, m)
			}
		}
		return errs
	}
	return &APIError{StatusCode: resp.StatusCode, Code: body.Code, Message: body.Message}
}

// Ping checks the health endpoint
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

// ListComponents returns every component
func (c *Client) ListComponents(ctx context.Context) ([]catalog.Component, error) {
	var out []catalog.Component
	if err := c.do(ctx, http.MethodGet, "/components", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComponent creates a component
func (c *Client) CreateComponent(ctx context.Context, in catalog.ComponentInput) (*catalog.Component, error) {
	var out catalog.Component
	if err := c.do(ctx, http.MethodPost, "/components", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetComponent returns a component with its functions
func (c *Client) GetComponent(ctx context.Context, id int64) (*catalog.ComponentDetail, error) {
	var out catalog.ComponentDetail
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/components/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateComponent replaces a component's name and description
func (c *Client) UpdateComponent(ctx context.Context, id int64, in catalog.ComponentInput) (*catalog.Component, error) {
	var out catalog.Component
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/components/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteComponent removes a component and everything under it
func (c *Client) DeleteComponent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/components/%d", id), nil, nil)
}

// ListFunctions returns every function of a component
func (c *Client) ListFunctions(ctx context.Context, componentID int64) ([]catalog.Function, error) {
	var out []catalog.Function
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/components/%d/functions", componentID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFunction creates a function with its full parameter set
func (c *Client) AddFunction(ctx context.Context, componentID int64, fn catalog.NewFunction) ([]catalog.Function, error) {
	if fn.Parameters == nil {
		fn.Parameters = []catalog.Parameter{}
	}
	var out []catalog.Function
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/components/%d/functions", componentID), fn, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFunction returns a function with its parameters in store order
func (c *Client) GetFunction(ctx context.Context, functionID int64) (*catalog.Function, error) {
	var out catalog.Function
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/functions/%d", functionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveFunction submits a rename plus the changed parameters and returns the
// full canonical function.
func (c *Client) SaveFunction(ctx context.Context, functionID int64, patch catalog.FunctionPatch) (*catalog.Function, error) {
	if patch.Parameters == nil {
		patch.Parameters = []catalog.Parameter{}
	}
	var out catalog.Function
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/functions/%d/parameters", functionID), patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFunction removes a function and its parameters
func (c *Client) DeleteFunction(ctx context.Context, functionID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/functions/%d", functionID), nil, nil)
}

// DeleteParameter removes one persisted parameter
func (c *Client) DeleteParameter(ctx context.Context, parameterID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/parameters/%d", parameterID), nil, nil)
}

// ListParameterTypes returns the registered type tags
func (c *Client) ListParameterTypes(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodGet, "/parameter-types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddParameterType registers a type tag and returns the updated list
func (c *Client) AddParameterType(ctx context.Context, tag string) ([]string, error) {
	var out []string
	if err := c.do(ctx, http.MethodPost, "/parameter-types", map[string]string{"type": tag}, &out); err != nil {
		return nil, err
	}
	return out, nil
}
