package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/fishmindlab360/bock/container"
	"github.com/fishmindlab360/bock/orchestrator"
)

// PsCmd implements `bockrose ps`: list every service's replicas and their
// status, per spec §4.11. It reads persisted container state directly
// rather than the orchestrator's in-memory health table, since ps
// typically runs in a fresh process after the one that ran `up` exited.
type PsCmd struct{}

func (c *PsCmd) Run(cctx *Context) error {
	names := make([]string, 0, len(cctx.Stack.Services))
	for name := range cctx.Stack.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tREPLICA\tSTATUS\tPID\t")
	for _, name := range names {
		svc := cctx.Stack.Services[name]
		replicas := svc.Replicas
		if replicas <= 0 {
			replicas = 1
		}
		for i := 1; i <= replicas; i++ {
			replicaName := orchestrator.ReplicaName(cctx.Stack.Name, name, i)
			ctr, err := container.Load(cctx.Paths, replicaName)
			if err != nil {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", name, replicaName, "absent", "-")
				continue
			}
			pid := "-"
			if p := ctr.State().Pid; p != nil {
				pid = itoa(*p)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", name, replicaName, string(ctr.Status()), pid)
		}
	}
	return w.Flush()
}
