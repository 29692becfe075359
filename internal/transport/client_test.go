package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestSanitizeHeaders tests that host-like headers never reach the wire.
func TestSanitizeHeaders(t *testing.T) {
	in := map[string]string{
		"Host":             "evil.example",
		"host":             "evil.example",
		"X-Forwarded-Host": "kept",
		"HOST-Override":    "dropped",
		"Authorization":    "Bearer t",
	}

	out := SanitizeHeaders(in)

	if len(out) != 2 {
		t.Fatalf("Expected 2 headers, got %d: %v", len(out), out)
	}
	if out["Authorization"] != "Bearer t" {
		t.Errorf("Expected Authorization to be kept, got %q", out["Authorization"])
	}
	if out["X-Forwarded-Host"] != "kept" {
		t.Errorf("Expected X-Forwarded-Host to be kept")
	}
	if len(in) != 5 {
		t.Errorf("Input map must not be mutated")
	}
}

// TestEncodeBody tests body elision and JSON encoding.
func TestEncodeBody(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   any
		want   string
		isNil  bool
	}{
		{name: "GET drops body", method: "GET", body: map[string]any{"a": 1}, isNil: true},
		{name: "HEAD drops body", method: "head", body: "x", isNil: true},
		{name: "nil body", method: "POST", body: nil, isNil: true},
		{name: "object", method: "POST", body: map[string]any{"a": 1}, want: `{"a":1}`},
		{name: "raw string", method: "PUT", body: "not json", want: `"not json"`},
		{name: "raw message", method: "PATCH", body: json.RawMessage(`{"b":true}`), want: `{"b":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := EncodeBody(tt.method, tt.body)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.isNil {
				if r != nil {
					t.Errorf("Expected nil reader")
				}
				return
			}
			data, _ := io.ReadAll(r)
			if string(data) != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, data)
			}
		})
	}
}

// TestClientDo tests the request that reaches a server.
func TestClientDo(t *testing.T) {
	var gotHost, gotCT, gotBody, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		gotCT = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Add("X-Multi", "a")
		w.Header().Add("X-Multi", "b")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	c := New(nil)
	resp, err := c.Do(context.Background(), "POST", server.URL, map[string]string{
		"Host":          "evil.example",
		"Authorization": "Bearer abc",
	}, map[string]any{"x": 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if gotHost == "evil.example" {
		t.Errorf("Host header must not be forwarded")
	}
	if gotCT != "application/json" {
		t.Errorf("Expected JSON content type, got %q", gotCT)
	}
	if gotAuth != "Bearer abc" {
		t.Errorf("Expected Authorization header, got %q", gotAuth)
	}
	if gotBody != `{"x":1}` {
		t.Errorf("Unexpected body %q", gotBody)
	}
	if StatusText(resp) != "Created" {
		t.Errorf("Expected status text Created, got %q", StatusText(resp))
	}
	if got := LowerHeaders(resp.Header)["x-multi"]; got != "a, b" {
		t.Errorf("Expected joined header values, got %q", got)
	}
}

// TestClientDoInvalidURL tests that a malformed URL is a validation error.
func TestClientDoInvalidURL(t *testing.T) {
	c := New(nil)
	if _, err := c.Do(context.Background(), "GET", "://bad", nil, nil); err == nil {
		t.Fatal("Expected error for malformed URL")
	}
}
