package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if body.Email != "ada@example.com" || body.Password != "hunter2" {
			t.Errorf("body = %+v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-123",
			"role":         "student",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	resp, err := client.Login(context.Background(), "ada@example.com", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if resp.AccessToken != "tok-123" || resp.Role != "student" {
		t.Errorf("response = %+v", resp)
	}
}

func TestErrorUsesDetailField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Login(context.Background(), "x", "y")
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Error() != "Incorrect email or password" {
		t.Errorf("message = %q", apiErr.Error())
	}
}

func TestErrorFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded, not json"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Me(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Error() != "HTTP 502" {
		t.Errorf("message = %q, want HTTP 502", apiErr.Error())
	}
}

func TestChatSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/chat" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body struct {
			Messages []ChatMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", body.Messages)
		}
		json.NewEncoder(w).Encode(map[string]string{"reply": "bonjour"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok-123")
	reply, err := client.Chat(context.Background(), []ChatMessage{
		{Role: "system", Content: "Teach SQL."},
		{Role: "user", Content: "hi"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply != "bonjour" {
		t.Errorf("reply = %q", reply)
	}
}

func TestUnauthenticatedRequestHasNoAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want unset", got)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, "").Signup(context.Background(), "Ada", "ada@example.com", "pw"); err != nil {
		t.Fatal(err)
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Profile{Name: "Ada", Email: "ada@example.com", Role: "student"})
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL+"/", "tok").Me(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Ada" {
		t.Errorf("profile = %+v", p)
	}
}
