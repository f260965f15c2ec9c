// Package orchestrator composes bock's container lifecycle (container
// package) over a dependency graph of services, per spec §4.11: Kahn's
// algorithm ordering, per-replica idempotent provisioning, health checks,
// scaling, and reverse-order teardown.
package orchestrator

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fishmindlab360/bock/bockerr"
)

// HealthCheck is a service's healthcheck declaration: either a Cmd to exec
// inside the container, or an HTTP URL to GET from the host.
type HealthCheck struct {
	Cmd      []string `yaml:"cmd,omitempty"`
	HTTP     string   `yaml:"http,omitempty"`
	Interval string   `yaml:"interval,omitempty"`
	Timeout  string   `yaml:"timeout,omitempty"`
	Retries  int      `yaml:"retries,omitempty"`
}

// Service is one compose-file service block.
type Service struct {
	Image       string            `yaml:"image,omitempty"`
	Build       string            `yaml:"build,omitempty"`
	Command     []string          `yaml:"command,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	DependsOn   DependsOn         `yaml:"depends_on,omitempty"`
	Replicas    int               `yaml:"replicas,omitempty"`
	Healthcheck *HealthCheck      `yaml:"healthcheck,omitempty"`
}

// DependsOn accepts either compose's list form (["a", "b"]) or its map form
// ({a: {condition: service_healthy}}); only the edge set, not the
// condition, participates in ordering, per spec §4.11.
type DependsOn struct {
	Names      []string
	Conditions map[string]string
}

// UnmarshalYAML implements the two accepted depends_on shapes.
func (d *DependsOn) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		d.Names = names
		return nil
	case yaml.MappingNode:
		var raw map[string]struct {
			Condition string `yaml:"condition"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		d.Conditions = make(map[string]string, len(raw))
		for name, cond := range raw {
			d.Names = append(d.Names, name)
			d.Conditions[name] = cond.Condition
		}
		return nil
	default:
		return bockerr.New("orchestrator", bockerr.Config, "depends_on must be a list or map", nil)
	}
}

// Stack is one parsed compose file: a name (used as a namespace prefix for
// replica ids, volumes, and the per-stack bridge) and its services.
type Stack struct {
	Name     string
	Services map[string]Service `yaml:"services"`
}

// LoadStack parses a compose file from path. name becomes every replica's
// "<stack>_" prefix.
func LoadStack(path, name string) (*Stack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, bockerr.New("orchestrator", bockerr.Io, "read compose file "+path, err)
	}
	var s Stack
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, bockerr.New("orchestrator", bockerr.Serialization, "parse compose file "+path, err)
	}
	s.Name = name
	return &s, nil
}

// replicaCount returns the service's declared replica count, defaulting to
// one.
func (s Service) replicaCount() int {
	if s.Replicas <= 0 {
		return 1
	}
	return s.Replicas
}
