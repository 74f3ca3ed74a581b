package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tutorctl/tutorctl/internal/api"
	"github.com/tutorctl/tutorctl/internal/session"
)

func TestBackendForwardsRolesAndContent(t *testing.T) {
	var got []api.ChatMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []api.ChatMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatal(err)
		}
		got = body.Messages
		json.NewEncoder(w).Encode(map[string]string{"reply": "42"})
	}))
	defer srv.Close()

	b := NewBackend(api.NewClient(srv.URL, "tok"))
	reply, err := b.Complete(context.Background(), []session.Message{
		{Role: session.RoleSystem, Content: "Teach SQL."},
		{Role: session.RoleUser, Content: "what is a join?"},
		{Role: session.RoleAssistant, Content: "A join combines rows."},
	})
	if err != nil {
		t.Fatal(err)
	}
	if reply != "42" {
		t.Errorf("reply = %q", reply)
	}

	want := []api.ChatMessage{
		{Role: "system", Content: "Teach SQL."},
		{Role: "user", Content: "what is a join?"},
		{Role: "assistant", Content: "A join combines rows."},
	}
	if len(got) != len(want) {
		t.Fatalf("forwarded %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBackendSurfacesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"detail": "model overloaded"})
	}))
	defer srv.Close()

	b := NewBackend(api.NewClient(srv.URL, "tok"))
	_, err := b.Complete(context.Background(), []session.Message{{Role: session.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected an error")
	}
	if err.Error() != "model overloaded" {
		t.Errorf("error = %q", err.Error())
	}
}
