package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	rspec "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/fishmindlab360/bock/container"
)

// CreateCmd implements `bock create <id> --bundle <dir>`, per spec §6.
type CreateCmd struct {
	ID            string `arg:"" help:"container id"`
	Bundle        string `required:"" help:"path to the OCI bundle (must contain config.json)"`
	ConsoleSocket string `help:"path to a console socket for TTY containers"`
	PidFile       string `help:"file to write the container's pid to"`
}

func (c *CreateCmd) Run(cctx *Context) error {
	spec, err := loadBundleConfig(c.Bundle)
	if err != nil {
		return err
	}

	rootfs := container.RootfsSource{Bind: filepath.Join(c.Bundle, "rootfs")}
	if spec.Root != nil && spec.Root.Path != "" {
		rootfs = container.RootfsSource{Bind: resolveBundlePath(c.Bundle, spec.Root.Path)}
	}

	ctr, err := container.Create(context.Background(), cctx.Paths, c.ID, spec, rootfs, hooksFromSpec(spec.Hooks))
	if err != nil {
		return err
	}

	if c.PidFile != "" {
		pid := 0
		if p := ctr.State().Pid; p != nil {
			pid = *p
		}
		_ = os.WriteFile(c.PidFile, []byte(itoa(pid)), 0o640)
	}
	return nil
}

func loadBundleConfig(bundle string) (*rspec.Spec, error) {
	data, err := os.ReadFile(filepath.Join(bundle, "config.json"))
	if err != nil {
		return nil, err
	}
	var spec rspec.Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

func resolveBundlePath(bundle, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(bundle, path)
}
