package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/fluenthttp/httpclient"
	"github.com/kbukum/fluenthttp/uri"
)

type testUser struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(httpclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestGet(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/users/1" {
			t.Errorf("expected /users/1, got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Accept"); ct != "application/json" {
			t.Errorf("expected Accept: application/json, got %s", ct)
		}
		writeJSON(w, http.StatusOK, testUser{Name: "Alice", Email: "alice@example.com"})
	})

	resp, err := Get[testUser](context.Background(), c, "/users/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.Name != "Alice" {
		t.Errorf("expected Alice, got %s", resp.Data.Name)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Headers.Get("Content-Type") != "application/json" {
		t.Errorf("headers = %v", resp.Headers)
	}
}

func TestPost(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type: application/json, got %s", ct)
		}
		var user testUser
		_ = json.NewDecoder(r.Body).Decode(&user)
		user.Email = "bob@example.com"
		writeJSON(w, http.StatusCreated, user)
	})

	resp, err := Post[testUser](context.Background(), c, "/users", testUser{Name: "Bob"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
	if resp.Data.Name != "Bob" || resp.Data.Email != "bob@example.com" {
		t.Errorf("unexpected data: %+v", resp.Data)
	}
}

func TestPutAndPatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testUser{Name: r.Method})
	})

	put, err := Put[testUser](context.Background(), c, "/users/1", testUser{Name: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if put.Data.Name != http.MethodPut {
		t.Errorf("expected PUT, got %s", put.Data.Name)
	}

	patch, err := Patch[testUser](context.Background(), c, "/users/1", map[string]string{"name": "y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if patch.Data.Name != http.MethodPatch {
		t.Errorf("expected PATCH, got %s", patch.Data.Name)
	}
}

func TestDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	resp, err := Delete[struct{}](context.Background(), c, "/users/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
}

func TestGet_WithQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.RawQuery; got != "page=2&q=a+b" {
			t.Errorf("query = %q", got)
		}
		writeJSON(w, http.StatusOK, []testUser{})
	})

	_, err := Get[[]testUser](context.Background(), c, "/users",
		WithQuery(uri.Params{{Name: "page", Value: 2}, {Name: "q", Value: "a b"}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPost_WithQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.RawQuery; got != "dry_run=true" {
			t.Errorf("query = %q", got)
		}
		writeJSON(w, http.StatusOK, testUser{})
	})

	_, err := Post[testUser](context.Background(), c, "/users", testUser{},
		WithQuery(map[string]any{"dry_run": true}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWithHeaders_ScopedToRequest(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, testUser{})
	})

	if _, err := Get[testUser](context.Background(), c, "/a", WithHeaders(map[string]string{"X-Request-ID": "req-1"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Get[testUser](context.Background(), c, "/b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 || seen[0] != "req-1" || seen[1] != "" {
		t.Errorf("X-Request-ID per call = %q", seen)
	}
}

func TestWithContentType(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-yaml" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Header().Set("Content-Type", "application/x-yaml")
		_, _ = w.Write([]byte("name: Carol\nemail: carol@example.com\n"))
	})

	resp, err := Post[testUser](context.Background(), c, "/users", testUser{Name: "Carol"},
		WithContentType("application/x-yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.Email != "carol@example.com" {
		t.Errorf("unexpected data: %+v", resp.Data)
	}
}

func TestGet_UndeclaredContentTypeFallsBackToJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(`{"name":"Dave"}`))
	})

	resp, err := Get[testUser](context.Background(), c, "/users/4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.Name != "Dave" {
		t.Errorf("expected Dave, got %s", resp.Data.Name)
	}
}

func TestGet_ErrorResponse_StillDecodesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})

	resp, err := Get[map[string]string](context.Background(), c, "/users/999")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !IsNotFound(err) || !IsHTTPError(err) {
		t.Errorf("expected not found error, got %v", err)
	}
	if resp == nil || resp.Data["error"] != "not found" {
		t.Errorf("error body not decoded: %+v", resp)
	}
}

func TestNewFromClient(t *testing.T) {
	h, err := httpclient.New(httpclient.Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := NewFromClient(h)
	if c.HTTP() != h {
		t.Error("HTTP() should return the underlying client")
	}
}
