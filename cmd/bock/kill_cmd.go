package main

import (
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/container"
)

// KillCmd implements `bock kill <id> [SIGNAL]`, defaulting to SIGTERM, per
// spec §6.
type KillCmd struct {
	ID     string `arg:"" help:"container id"`
	Signal string `arg:"" optional:"" default:"SIGTERM" help:"signal name or number"`
}

func (c *KillCmd) Run(cctx *Context) error {
	sig, err := parseSignal(c.Signal)
	if err != nil {
		return err
	}
	ctr, err := container.Load(cctx.Paths, c.ID)
	if err != nil {
		return err
	}
	return ctr.Kill(sig)
}

func parseSignal(s string) (unix.Signal, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return unix.Signal(n), nil
	}
	name := strings.ToUpper(strings.TrimPrefix(s, "SIG"))
	if sig, ok := signalsByName[name]; ok {
		return sig, nil
	}
	return 0, bockerr.New("bock", bockerr.Config, "unknown signal "+s, nil)
}

var signalsByName = map[string]unix.Signal{
	"HUP":  unix.SIGHUP,
	"INT":  unix.SIGINT,
	"QUIT": unix.SIGQUIT,
	"KILL": unix.SIGKILL,
	"USR1": unix.SIGUSR1,
	"USR2": unix.SIGUSR2,
	"TERM": unix.SIGTERM,
	"CONT": unix.SIGCONT,
	"STOP": unix.SIGSTOP,
}
