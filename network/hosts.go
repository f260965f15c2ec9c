package network

import (
	"fmt"
	"strings"
	"sync"
)

// HostRecord maps one container name to its address, for /etc/hosts
// generation. Inter-container name resolution in bock is static: rather
// than running a resolver process, each container's /etc/hosts is
// (re)written from the current Registry whenever membership changes.
type HostRecord struct {
	Name string
	IP   string
}

// Registry tracks the live name/address mappings for one network, used
// to render /etc/hosts for every member container.
type Registry struct {
	mu      sync.RWMutex
	records map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]string)}
}

// Add registers or updates name's address.
func (r *Registry) Add(name, ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[name] = ip
}

// Remove forgets name.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, name)
}

// Resolve returns the address registered for name, if any.
func (r *Registry) Resolve(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ip, ok := r.records[name]
	return ip, ok
}

// Records returns a snapshot of every registered name/address pair.
func (r *Registry) Records() []HostRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]HostRecord, 0, len(r.records))
	for name, ip := range r.records {
		out = append(out, HostRecord{Name: name, IP: ip})
	}
	return out
}

// GenerateHosts renders /etc/hosts content for containerName/containerIP,
// listing every other member of the registry alongside the standard
// loopback entries.
func (r *Registry) GenerateHosts(containerName, containerIP string) string {
	var b strings.Builder
	b.WriteString("127.0.0.1 localhost\n")
	b.WriteString("::1 localhost ip6-localhost ip6-loopback\n")
	fmt.Fprintf(&b, "%s %s\n", containerIP, containerName)

	for _, rec := range r.Records() {
		if rec.Name == containerName {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", rec.IP, rec.Name)
	}
	return b.String()
}

// GenerateResolvConf renders resolv.conf content pointing at upstream
// nameservers; bock does not run its own resolver, so there is no local
// nameserver entry to add ahead of them.
func GenerateResolvConf(upstream []string) string {
	var b strings.Builder
	for _, ns := range upstream {
		fmt.Fprintf(&b, "nameserver %s\n", ns)
	}
	return b.String()
}
