package main

import (
	"fmt"

	"github.com/fishmindlab360/bock/version"
)

// VersionCmd implements `bockrose version`.
type VersionCmd struct{}

func (c *VersionCmd) Run(cctx *Context) error {
	fmt.Println(version.Get().String())
	return nil
}
