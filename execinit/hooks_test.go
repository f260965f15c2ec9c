//go:build linux

package execinit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fishmindlab360/bock/ocispec"
)

func testState() *ocispec.State {
	return ocispec.NewState("test-container", "/bundle")
}

func TestRunHooksEmpty(t *testing.T) {
	if err := RunHooks(context.Background(), nil, testState()); err != nil {
		t.Fatalf("RunHooks with no hooks should succeed, got %v", err)
	}
}

func TestRunHookMissingPath(t *testing.T) {
	hook := Hook{Path: "/nonexistent/hook-binary"}
	if err := RunHook(context.Background(), hook, testState()); err == nil {
		t.Fatal("expected an error for a missing hook binary")
	}
}

func TestRunHookSuccess(t *testing.T) {
	if _, err := os.Stat("/bin/true"); err != nil {
		t.Skip("/bin/true not available")
	}
	hook := Hook{Path: "/bin/true"}
	if err := RunHook(context.Background(), hook, testState()); err != nil {
		t.Fatalf("RunHook: %v", err)
	}
}

func TestRunHookTimeout(t *testing.T) {
	if _, err := os.Stat("/bin/sleep"); err != nil {
		t.Skip("/bin/sleep not available")
	}
	timeout := 100 * time.Millisecond
	hook := Hook{Path: "/bin/sleep", Args: []string{"5"}, Timeout: &timeout}

	start := time.Now()
	err := RunHook(context.Background(), hook, testState())
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("expected the hook to be killed near the timeout, took %s", elapsed)
	}
}

func TestRunHookNonZeroExit(t *testing.T) {
	if _, err := os.Stat("/bin/false"); err != nil {
		t.Skip("/bin/false not available")
	}
	hook := Hook{Path: "/bin/false"}
	if err := RunHook(context.Background(), hook, testState()); err == nil {
		t.Fatal("expected an error for non-zero hook exit")
	}
}
