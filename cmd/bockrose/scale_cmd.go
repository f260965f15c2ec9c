package main

import (
	"context"
	"fmt"
)

// ScaleCmd implements `bockrose scale <service> <replicas>`, per spec
// §4.11's scale-up/scale-down provisioning.
type ScaleCmd struct {
	Service  string `arg:"" help:"service name"`
	Replicas int    `arg:"" help:"desired replica count"`
}

func (c *ScaleCmd) Run(cctx *Context) error {
	if err := cctx.Orch.Scale(context.Background(), cctx.Stack, c.Service, c.Replicas); err != nil {
		return err
	}
	fmt.Printf("%s scaled to %d\n", c.Service, c.Replicas)
	return nil
}
