package orchestrator

import (
	"sort"

	"github.com/fishmindlab360/bock/bockerr"
)

// TopologicalOrder runs Kahn's algorithm over the stack's depends_on edges,
// with alphabetical tie-breaking among ready nodes for determinism, per
// spec §4.11. A cycle is reported as a Config error; the message does not
// name the services involved.
func (s *Stack) TopologicalOrder() ([]string, error) {
	indegree := make(map[string]int, len(s.Services))
	dependents := make(map[string][]string, len(s.Services))

	for name := range s.Services {
		indegree[name] = 0
	}
	for name, svc := range s.Services {
		for _, dep := range svc.DependsOn.Names {
			if _, ok := s.Services[dep]; !ok {
				return nil, bockerr.New("orchestrator", bockerr.Config,
					"service "+name+" depends on undeclared service "+dep, nil)
			}
			indegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		var unlocked []string
		for _, dependent := range dependents[next] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				unlocked = append(unlocked, dependent)
			}
		}
		sort.Strings(unlocked)
		ready = mergeSorted(ready, unlocked)
	}

	if len(order) != len(s.Services) {
		return nil, bockerr.New("orchestrator", bockerr.Config,
			"dependency cycle detected among services", nil)
	}
	return order, nil
}

// mergeSorted merges two already-sorted string slices.
func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// ReverseOf returns order reversed, for teardown per spec §4.11.
func ReverseOf(order []string) []string {
	out := make([]string, len(order))
	for i, name := range order {
		out[len(order)-1-i] = name
	}
	return out
}
