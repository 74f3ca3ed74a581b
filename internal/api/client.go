// Package api is the HTTP client for the remote learning service: auth,
// profile and chat completion endpoints. All requests and responses are
// JSON; authenticated calls carry a bearer token.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL matches the service's local development address.
const DefaultBaseURL = "http://127.0.0.1:8000/api/v1"

// Client talks to the remote service. The zero token means unauthenticated.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL. token may be
// empty; endpoints that require auth will then fail server-side.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Error is a non-2xx response. Its message is the service's detail field
// when present, else a status-derived fallback.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// ChatMessage is one role-tagged entry of the outbound context window.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LoginResponse is the payload of a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

// Profile is the user record returned by the profile endpoints.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateMeRequest struct {
	Name string `json:"name"`
}

type chatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", signupRequest{Name: name, Email: email, Password: password}, nil)
}

// Login exchanges credentials for a bearer token and role.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe updates the authenticated user's name and returns the updated
// record. The service enforces who may edit; a denial surfaces as *Error.
func (c *Client) UpdateMe(ctx context.Context, name string) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPut, "/users/me", updateMeRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends one ordered message list and returns the single reply.
// Exactly one attempt; no retry or backoff.
func (c *Client) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	var out chatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", chatRequest{Messages: messages}, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Detail string `json:"detail"`
		}
		// A malformed error body still yields a status-derived message.
		_ = json.Unmarshal(respBody, &envelope)
		return &Error{Status: resp.StatusCode, Detail: envelope.Detail}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
