package main

import (
	"encoding/json"
	"fmt"
)

// FeaturesCmd implements `bock features`, printing the set of OCI features
// this runtime implements as JSON, per SPEC_FULL.md's supplemented
// features section.
type FeaturesCmd struct{}

type features struct {
	OCIVersionMin string   `json:"ociVersionMin"`
	OCIVersionMax string   `json:"ociVersionMax"`
	Hooks         []string `json:"hooks"`
	MountOptions  []string `json:"mountOptions"`
	Linux         struct {
		Namespaces     []string `json:"namespaces"`
		Capabilities   []string `json:"capabilities"`
		Seccomp        struct {
			Enabled bool     `json:"enabled"`
			Actions []string `json:"actions"`
		} `json:"seccomp"`
	} `json:"linux"`
}

func (c *FeaturesCmd) Run(cctx *Context) error {
	f := features{
		OCIVersionMin: "1.0.0",
		OCIVersionMax: "1.2.0",
		Hooks: []string{
			"prestart", "createRuntime", "createContainer",
			"startContainer", "poststart", "poststop",
		},
		MountOptions: []string{
			"bind", "rbind", "ro", "rw", "nosuid", "nodev", "noexec",
			"relatime", "strictatime", "remount", "private", "shared",
			"slave", "unbindable",
		},
	}
	f.Linux.Namespaces = []string{"pid", "network", "mount", "ipc", "uts", "user", "cgroup"}
	f.Linux.Capabilities = []string{"effective", "bounding", "inheritable", "permitted", "ambient"}
	f.Linux.Seccomp.Enabled = true
	f.Linux.Seccomp.Actions = []string{
		"SCMP_ACT_KILL", "SCMP_ACT_ERRNO", "SCMP_ACT_TRAP",
		"SCMP_ACT_ALLOW", "SCMP_ACT_LOG",
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
