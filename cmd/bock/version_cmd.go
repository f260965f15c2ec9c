package main

import (
	"encoding/json"
	"fmt"

	"github.com/fishmindlab360/bock/version"
)

// VersionCmd implements `bock version`.
type VersionCmd struct {
	JSON bool `help:"print as JSON"`
}

func (c *VersionCmd) Run(cctx *Context) error {
	info := version.Get()
	if !c.JSON {
		fmt.Println(info.String())
		return nil
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
