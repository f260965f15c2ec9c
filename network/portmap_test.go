//go:build linux

package network

import (
	"context"
	"os"
	"testing"
)

func TestPortMapperCommentTagsRuleWithContainerID(t *testing.T) {
	p := NewPortMapper("abc123")
	if p.comment() != "bock-abc123" {
		t.Fatalf("comment = %q, want bock-abc123", p.comment())
	}
}

func TestAddMappingRequiresPrivilege(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("this test only documents the non-root failure path")
	}
	p := NewPortMapper("test")
	err := p.AddMapping(context.Background(), PortMapping{
		HostPort:      18080,
		ContainerPort: 80,
		ContainerIP:   "172.18.0.2",
		Protocol:      TCP,
	})
	if err == nil {
		t.Fatal("expected iptables invocation to fail without privilege")
	}
}

func TestMappingsTracksAddedEntries(t *testing.T) {
	p := NewPortMapper("test")
	p.mappings = append(p.mappings, PortMapping{HostPort: 8080, Protocol: TCP})
	if len(p.Mappings()) != 1 {
		t.Fatalf("Mappings() = %v, want one entry", p.Mappings())
	}
}

func TestRemoveMappingDropsMatchingEntry(t *testing.T) {
	p := NewPortMapper("test")
	p.mappings = []PortMapping{
		{HostPort: 8080, ContainerIP: "172.18.0.2", Protocol: TCP},
		{HostPort: 9090, ContainerIP: "172.18.0.3", Protocol: UDP},
	}
	if err := p.RemoveMapping(context.Background(), 8080, TCP); err != nil {
		t.Fatal(err)
	}
	if len(p.mappings) != 1 || p.mappings[0].HostPort != 9090 {
		t.Fatalf("unexpected mappings after removal: %+v", p.mappings)
	}
}
