package testutil_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/fluenthttp/testutil"
)

func TestFixtureServer_Lifecycle(t *testing.T) {
	srv := testutil.NewFixtureServer()
	if srv.URL() != "" {
		t.Fatal("stopped server should have no URL")
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(srv.URL(), "http://") {
		t.Fatalf("URL = %q", srv.URL())
	}

	resp, err := http.Get(srv.URL() + "/hello?name=Matt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != `{"Result":"Hello, Matt"}` {
		t.Errorf("body = %s", body)
	}

	rec, ok := srv.LastRequest()
	if !ok || rec.Path != "/hello" || rec.RawQuery != "name=Matt" {
		t.Errorf("recorded %+v", rec)
	}

	if err := srv.Reset(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("reset should clear recorded requests")
	}

	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("second stop should be a no-op: %v", err)
	}
}

func TestFixtureServer_Helper(t *testing.T) {
	srv := testutil.NewFixtureServer()
	testutil.T(t).Setup(srv)

	resp, err := http.Get(srv.URL() + "/users")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get(testutil.CustomHeader); got != testutil.CustomHeaderValue {
		t.Errorf("custom header = %q", got)
	}
}

func TestTHelper_WriteFile(t *testing.T) {
	path := testutil.T(t).WriteFile("data.txt", []byte("content"))
	if !strings.HasSuffix(path, "data.txt") {
		t.Errorf("path = %q", path)
	}
}

type ctxKey struct{}

type recordingComponent struct {
	calls []string
	seen  []any
}

func (c *recordingComponent) Name() string { return "recording" }

func (c *recordingComponent) record(ctx context.Context, call string) error {
	c.calls = append(c.calls, call)
	c.seen = append(c.seen, ctx.Value(ctxKey{}))
	return nil
}

func (c *recordingComponent) Start(ctx context.Context) error { return c.record(ctx, "start") }
func (c *recordingComponent) Stop(ctx context.Context) error  { return c.record(ctx, "stop") }
func (c *recordingComponent) Reset(ctx context.Context) error { return c.record(ctx, "reset") }

func TestTHelper_WithContextAndReset(t *testing.T) {
	comp := &recordingComponent{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "suite")

	t.Run("lifecycle", func(t *testing.T) {
		h := testutil.T(t).WithContext(ctx)
		h.Setup(comp)
		h.Reset(comp)
	})

	want := []string{"start", "reset", "stop"}
	if strings.Join(comp.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", comp.calls, want)
	}
	for i, v := range comp.seen {
		if v != "suite" {
			t.Errorf("%s saw context value %v", comp.calls[i], v)
		}
	}
}

func TestTHelper_ResetClearsRecordedRequests(t *testing.T) {
	srv := testutil.NewFixtureServer()
	h := testutil.T(t)
	h.Setup(srv)

	resp, err := http.Get(srv.URL() + "/hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = resp.Body.Close()
	if len(srv.Requests()) != 1 {
		t.Fatalf("expected 1 recorded request, got %d", len(srv.Requests()))
	}

	h.Reset(srv)
	if _, ok := srv.LastRequest(); ok {
		t.Error("reset should clear recorded requests")
	}
}
