package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/isdelr/registrant-portal/internal/models"
)

// FallbackMessage is shown when the backend gives no usable error message.
const FallbackMessage = "Something went wrong"

const apiPrefix = "/api/v1"

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string // the body's "error" field, if any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// UserMessage returns the server-supplied message carried by err, or FallbackMessage.
// Transport failures and application errors render the same way.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return FallbackMessage
}

// Provider is the set of backend operations the portal consumes.
type Provider interface {
	List(ctx context.Context) ([]models.Registrant, error)
	Register(ctx context.Context, token string, reg models.NewRegistrant) (string, error)
	Login(ctx context.Context, creds models.Credentials) (string, error)
	Update(ctx context.Context, id string, patch models.RegistrantPatch) error
	Delete(ctx context.Context, id string) error
}

// Client talks to the Registrant REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API rooted at baseURL (e.g. http://127.0.0.1:5000).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches every registrant.
func (c *Client) List(ctx context.Context) ([]models.Registrant, error) {
	var out []models.Registrant
	if err := c.do(ctx, http.MethodGet, "/register", "", nil, &out); err != nil {
		return nil, fmt.Errorf("list registrants: %w", err)
	}
	return out, nil
}

// Register creates a registrant and returns the backend's success message.
// token is sent as a bearer credential when non-empty.
func (c *Client) Register(ctx context.Context, token string, reg models.NewRegistrant) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/register", token, reg, &out); err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return out.Message, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", "", creds, &out); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("login: response carried no token")
	}
	return out.Token, nil
}

// Update applies patch to the registrant with the given id.
func (c *Client) Update(ctx context.Context, id string, patch models.RegistrantPatch) error {
	if err := c.do(ctx, http.MethodPut, "/register/"+url.PathEscape(id), "", patch, nil); err != nil {
		return fmt.Errorf("update registrant %s: %w", id, err)
	}
	return nil
}

// Delete removes the registrant with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/register/"+url.PathEscape(id), "", nil, nil); err != nil {
		return fmt.Errorf("delete registrant %s: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
