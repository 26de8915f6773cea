package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestRegister(t *testing.T) {
	testServer := newTestServer(t)

	response := doRequest(t, http.MethodPost, testServer.URL+"/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", response.StatusCode)
	}

	var user map[string]any
	decodeBody(t, response, &user)
	if user["username"] != "alice" {
		t.Errorf("username = %v, want alice", user["username"])
	}
	if user["id"] == "" || user["id"] == nil {
		t.Error("response missing user id")
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Error("response must not expose the password hash")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	testServer := newTestServer(t)
	registerAndLogin(t, testServer, "alice")

	response := doRequest(t, http.MethodPost, testServer.URL+"/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "second@example.com",
		"password": "password123",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", response.StatusCode)
	}
	var body map[string]string
	decodeBody(t, response, &body)
	if !strings.Contains(body["error"], "Username already taken") {
		t.Errorf("error = %q, want mention of the taken username", body["error"])
	}
}

func TestRegister_Validation(t *testing.T) {
	testServer := newTestServer(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"short username", map[string]string{"username": "ab", "email": "a@example.com", "password": "password123"}},
		{"bad email", map[string]string{"username": "alice", "email": "not-an-email", "password": "password123"}},
		{"short password", map[string]string{"username": "alice", "email": "a@example.com", "password": "short"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response := doRequest(t, http.MethodPost, testServer.URL+"/api/auth/register", "", test.payload)
			if response.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", response.StatusCode)
			}
		})
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	testServer := newTestServer(t)
	registerAndLogin(t, testServer, "alice")

	response := doRequest(t, http.MethodPost, testServer.URL+"/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	})
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", response.StatusCode)
	}
}

func TestMe(t *testing.T) {
	testServer := newTestServer(t)
	token := registerAndLogin(t, testServer, "alice")

	response := doRequest(t, http.MethodGet, testServer.URL+"/api/auth/me", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", response.StatusCode)
	}
	var user map[string]any
	decodeBody(t, response, &user)
	if user["username"] != "alice" {
		t.Errorf("username = %v, want alice", user["username"])
	}
}

func TestAuthRequired(t *testing.T) {
	testServer := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-real-token"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response := doRequest(t, http.MethodGet, testServer.URL+"/api/goals", test.token, nil)
			if response.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", response.StatusCode)
			}
		})
	}
}
