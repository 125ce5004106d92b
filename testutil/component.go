package testutil

import "context"

// TestComponent is a resource with a test lifecycle.
type TestComponent interface {
	// Name identifies the component in failure messages.
	Name() string

	// Start makes the component ready for use.
	Start(ctx context.Context) error

	// Stop releases the component.
	Stop(ctx context.Context) error

	// Reset restores the component to its initial state between test cases.
	Reset(ctx context.Context) error
}
