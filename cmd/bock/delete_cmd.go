package main

import (
	"context"

	"github.com/fishmindlab360/bock/container"
)

// DeleteCmd implements `bock delete <id> [-f]`, per spec §6.
type DeleteCmd struct {
	ID    string `arg:"" help:"container id"`
	Force bool   `short:"f" help:"kill the container first if it is running"`
}

func (c *DeleteCmd) Run(cctx *Context) error {
	ctr, err := container.Load(cctx.Paths, c.ID)
	if err != nil {
		return err
	}
	spec := ctr.Spec()
	return ctr.Delete(context.Background(), c.Force, hooksFromSpec(spec.Hooks))
}
