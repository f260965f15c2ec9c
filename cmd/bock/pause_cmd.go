package main

import "github.com/fishmindlab360/bock/container"

// PauseCmd implements `bock pause <id>`, per spec §6.
type PauseCmd struct {
	ID string `arg:"" help:"container id"`
}

func (c *PauseCmd) Run(cctx *Context) error {
	ctr, err := container.Load(cctx.Paths, c.ID)
	if err != nil {
		return err
	}
	return ctr.Pause()
}

// ResumeCmd implements `bock resume <id>`, per spec §6.
type ResumeCmd struct {
	ID string `arg:"" help:"container id"`
}

func (c *ResumeCmd) Run(cctx *Context) error {
	ctr, err := container.Load(cctx.Paths, c.ID)
	if err != nil {
		return err
	}
	return ctr.Resume()
}
