package main

import (
	"context"
	"fmt"
)

// UpCmd implements `bockrose up`: provision every service's replicas in
// dependency order, per spec §4.11.
type UpCmd struct{}

func (c *UpCmd) Run(cctx *Context) error {
	if err := cctx.Orch.Up(context.Background(), cctx.Stack); err != nil {
		return err
	}
	fmt.Printf("stack %q is up (%d services)\n", cctx.Stack.Name, len(cctx.Stack.Services))
	return nil
}
