package main

import (
	"encoding/json"
	"fmt"

	"github.com/fishmindlab360/bock/container"
)

// StateCmd implements `bock state <id>`, printing OCI state JSON to stdout,
// per spec §6.
type StateCmd struct {
	ID string `arg:"" help:"container id"`
}

func (c *StateCmd) Run(cctx *Context) error {
	ctr, err := container.Load(cctx.Paths, c.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(ctr.State().ToRuntimeState(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
