package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fishmindlab360/bock/container"
)

// ListCmd implements `bock list [--quiet] [--format table|json]`, per
// spec §6.
type ListCmd struct {
	Quiet  bool   `short:"q" help:"print container ids only"`
	Format string `default:"table" enum:"table,json" help:"table|json"`
}

func (c *ListCmd) Run(cctx *Context) error {
	states, err := container.List(cctx.Paths)
	if err != nil {
		return err
	}

	if c.Quiet {
		for _, s := range states {
			fmt.Println(s.ID)
		}
		return nil
	}

	if c.Format == "json" {
		data, err := json.MarshalIndent(states, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPID\tBUNDLE\t")
	for _, s := range states {
		pid := "-"
		if s.Pid != nil {
			pid = itoa(*s.Pid)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", s.ID, s.Status, pid, s.Bundle)
	}
	return w.Flush()
}
