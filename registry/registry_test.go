package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuthenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("service") != "registry.example.com" {
			t.Errorf("service = %q, want registry.example.com", r.URL.Query().Get("service"))
		}
		if r.URL.Query().Get("scope") != "repository:library/alpine:pull" {
			t.Errorf("scope = %q", r.URL.Query().Get("scope"))
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "abc123"})
	}))
	defer server.Close()

	challenge := fmt.Sprintf(`Bearer realm="%s",service="registry.example.com",scope="repository:library/alpine:pull"`, server.URL)
	auth, err := Authenticate(context.Background(), server.Client(), "library/alpine", challenge)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if auth != "Bearer abc123" {
		t.Errorf("auth = %q, want %q", auth, "Bearer abc123")
	}
}

func TestAuthenticateAccessTokenFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "xyz789"})
	}))
	defer server.Close()

	challenge := fmt.Sprintf(`Bearer realm="%s",service="svc"`, server.URL)
	auth, err := Authenticate(context.Background(), server.Client(), "library/alpine", challenge)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if auth != "Bearer xyz789" {
		t.Errorf("auth = %q, want %q", auth, "Bearer xyz789")
	}
}

func TestAuthenticateRejectsNonBearerChallenge(t *testing.T) {
	if _, err := Authenticate(context.Background(), http.DefaultClient, "x", `Basic realm="foo"`); err == nil {
		t.Fatal("expected error for non-Bearer challenge")
	}
}

func TestAuthenticateRequiresRealm(t *testing.T) {
	if _, err := Authenticate(context.Background(), http.DefaultClient, "x", `Bearer service="svc"`); err == nil {
		t.Fatal("expected error for missing realm")
	}
}
