package main

import (
	"time"

	rspec "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/fishmindlab360/bock/container"
	"github.com/fishmindlab360/bock/execinit"
)

// hooksFromSpec converts config.json's hooks block into the phase-grouped
// shape container.Create/Start/Delete dispatch against, per spec §4.8's
// hook ordering: prestart is deprecated by OCI v1.2 but still accepted and
// run immediately before createRuntime for backward compatibility.
func hooksFromSpec(h *rspec.Hooks) container.Hooks {
	if h == nil {
		return container.Hooks{}
	}
	return container.Hooks{
		CreateRuntime:   append(execHooks(h.Prestart), execHooks(h.CreateRuntime)...),
		CreateContainer: execHooks(h.CreateContainer),
		StartContainer:  execHooks(h.StartContainer),
		Poststart:       execHooks(h.Poststart),
		Poststop:        execHooks(h.Poststop),
	}
}

func execHooks(hooks []rspec.Hook) []execinit.Hook {
	out := make([]execinit.Hook, len(hooks))
	for i, h := range hooks {
		out[i] = execinit.Hook{Path: h.Path, Args: h.Args, Env: h.Env}
		if h.Timeout != nil {
			d := time.Duration(*h.Timeout) * time.Second
			out[i].Timeout = &d
		}
	}
	return out
}
