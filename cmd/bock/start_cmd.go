package main

import (
	"context"

	"github.com/fishmindlab360/bock/container"
)

// StartCmd implements `bock start <id>`, per spec §6.
type StartCmd struct {
	ID            string `arg:"" help:"container id"`
	ConsoleSocket string `help:"path to a console socket for TTY containers"`
}

func (c *StartCmd) Run(cctx *Context) error {
	ctr, err := container.Load(cctx.Paths, c.ID)
	if err != nil {
		return err
	}
	spec := ctr.Spec()
	return ctr.Start(context.Background(), hooksFromSpec(spec.Hooks), container.StartOptions{ConsoleSocketPath: c.ConsoleSocket})
}
