package network

import (
	"strings"
	"testing"
)

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	r.Add("web", "172.18.0.2")

	ip, ok := r.Resolve("web")
	if !ok || ip != "172.18.0.2" {
		t.Fatalf("Resolve(web) = %q, %v", ip, ok)
	}

	if _, ok := r.Resolve("missing"); ok {
		t.Fatal("expected Resolve to report unknown name as absent")
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Add("web", "172.18.0.2")
	r.Remove("web")
	if _, ok := r.Resolve("web"); ok {
		t.Fatal("expected removed record to no longer resolve")
	}
}

func TestGenerateHostsIncludesOwnAndPeerEntries(t *testing.T) {
	r := NewRegistry()
	r.Add("web", "172.18.0.2")
	r.Add("db", "172.18.0.3")

	hosts := r.GenerateHosts("web", "172.18.0.2")

	want := []string{
		"127.0.0.1 localhost\n",
		"172.18.0.2 web\n",
		"172.18.0.3 db\n",
	}
	for _, w := range want {
		if !strings.Contains(hosts, w) {
			t.Fatalf("GenerateHosts output missing %q:\n%s", w, hosts)
		}
	}
}

func TestGenerateHostsExcludesSelfFromPeerList(t *testing.T) {
	r := NewRegistry()
	r.Add("web", "172.18.0.2")

	hosts := r.GenerateHosts("web", "172.18.0.2")
	if strings.Count(hosts, "web") != 1 {
		t.Fatalf("expected exactly one entry for the container's own name, got:\n%s", hosts)
	}
}

func TestGenerateResolvConfListsUpstreamServers(t *testing.T) {
	out := GenerateResolvConf([]string{"8.8.8.8", "1.1.1.1"})
	if !strings.Contains(out, "nameserver 8.8.8.8\n") || !strings.Contains(out, "nameserver 1.1.1.1\n") {
		t.Fatalf("unexpected resolv.conf output:\n%s", out)
	}
}
