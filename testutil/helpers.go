package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// THelper provides testing.T integration for components.
type THelper struct {
	t   *testing.T
	ctx context.Context
}

// T wraps a testing.T.
//
//	func TestMyFeature(t *testing.T) {
//	    testutil.T(t).Setup(srv)
//	    // srv is stopped when the test ends
//	}
func T(t *testing.T) *THelper {
	return &THelper{
		t:   t,
		ctx: context.Background(),
	}
}

// WithContext sets a custom context for the helper.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts a component and stops it when the test ends.
func (h *THelper) Setup(component TestComponent) {
	h.t.Helper()
	if err := component.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start component %s: %v", component.Name(), err)
	}

	h.t.Cleanup(func() {
		if err := component.Stop(h.ctx); err != nil {
			h.t.Errorf("failed to stop component %s: %v", component.Name(), err)
		}
	})
}

// Reset resets a component to its initial state.
func (h *THelper) Reset(component TestComponent) {
	h.t.Helper()
	if err := component.Reset(h.ctx); err != nil {
		h.t.Fatalf("failed to reset component %s: %v", component.Name(), err)
	}
}

// WriteFile writes data to name inside a per-test temporary directory and
// returns its path.
func (h *THelper) WriteFile(name string, data []byte) string {
	h.t.Helper()
	path := filepath.Join(h.t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		h.t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
