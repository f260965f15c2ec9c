package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fishmindlab360/bock/container"
)

// RunCmd implements `bock run <id> --bundle <dir> [--detach]`: create,
// start, and (unless detached) wait for the entrypoint to exit, then
// clean up, per spec §6.
type RunCmd struct {
	ID            string `arg:"" help:"container id"`
	Bundle        string `required:"" help:"path to the OCI bundle (must contain config.json)"`
	Detach        bool   `short:"d" help:"don't wait for the entrypoint to exit"`
	ConsoleSocket string `help:"path to a console socket for TTY containers"`
}

func (c *RunCmd) Run(cctx *Context) error {
	spec, err := loadBundleConfig(c.Bundle)
	if err != nil {
		return err
	}

	rootfs := container.RootfsSource{Bind: filepath.Join(c.Bundle, "rootfs")}
	if spec.Root != nil && spec.Root.Path != "" {
		rootfs = container.RootfsSource{Bind: resolveBundlePath(c.Bundle, spec.Root.Path)}
	}

	ctx := context.Background()
	hooks := hooksFromSpec(spec.Hooks)

	ctr, err := container.Create(ctx, cctx.Paths, c.ID, spec, rootfs, hooks)
	if err != nil {
		return err
	}

	if err := ctr.Start(ctx, hooks, container.StartOptions{ConsoleSocketPath: c.ConsoleSocket}); err != nil {
		return err
	}

	if c.Detach {
		return nil
	}

	code, err := ctr.Wait(ctx)
	if err != nil {
		return err
	}
	_ = ctr.Delete(ctx, false, hooks)
	os.Exit(code)
	return nil
}
