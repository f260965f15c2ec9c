//go:build linux

package container

import (
	"context"
	"os"
	"testing"

	rspec "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/fishmindlab360/bock/ocispec"
)

func TestHasUserNamespaceDetectsType(t *testing.T) {
	namespaces := []rspec.LinuxNamespace{{Type: rspec.PIDNamespace}, {Type: rspec.UserNamespace}}
	if !hasUserNamespace(namespaces) {
		t.Error("expected user namespace to be detected")
	}
	if hasUserNamespace([]rspec.LinuxNamespace{{Type: rspec.PIDNamespace}}) {
		t.Error("expected no user namespace to be detected")
	}
}

func TestSelfExeReturnsUsableCommand(t *testing.T) {
	if selfExe() == "" {
		t.Error("expected a non-empty self-exe path")
	}
}

func TestStartRejectsContainerNotInCreatedState(t *testing.T) {
	c := newTestContainer(t, ocispec.StatusRunning, nil)
	if err := c.Start(context.Background(), Hooks{}, StartOptions{}); err == nil {
		t.Fatal("expected error starting a container that isn't in the created state")
	}
}

func TestWriteIDMapsRequiresPrivilege(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("this test only documents the non-root failure path")
	}
	spec := &rspec.Spec{Linux: &rspec.Linux{}}
	if err := writeIDMaps(os.Getpid(), spec); err == nil {
		t.Fatal("expected uid_map write to fail without privilege")
	}
}
