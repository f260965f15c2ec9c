package main

import (
	"context"
	"fmt"
)

// DownCmd implements `bockrose down [--volumes]`: stop and delete every
// service's replicas in reverse dependency order, per spec §4.11.
type DownCmd struct {
	Volumes bool `help:"also remove the stack's named volumes"`
}

func (c *DownCmd) Run(cctx *Context) error {
	if err := cctx.Orch.Down(context.Background(), cctx.Stack, c.Volumes); err != nil {
		return err
	}
	fmt.Printf("stack %q is down\n", cctx.Stack.Name)
	return nil
}
