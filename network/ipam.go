// Package network implements bock's container networking: bridge/veth
// interface management, network namespace handling, sequential IPAM, port
// forwarding via iptables DNAT, and /etc/hosts generation, per spec §4.9.
package network

import (
	"net"
	"sync"

	"github.com/fishmindlab360/bock/bockerr"
)

// DefaultSubnet is bock's default bridge subnet, per spec §4.9.
const DefaultSubnet = "172.18.0.0/16"

// IPAM is a sequential IP address allocator over one subnet. Addresses
// are handed out in ascending order starting at .2 (.1 is reserved for
// the bridge's own gateway address), and returned to the free set on
// Release, matching the original implementation's allocator.
type IPAM struct {
	mu        sync.Mutex
	network   *net.IPNet
	gateway   net.IP
	next      net.IP
	allocated map[string]bool
	released  []net.IP
}

// NewIPAM builds an allocator over cidr. The first address is reserved as
// the gateway and never handed out.
func NewIPAM(cidr string) (*IPAM, error) {
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, bockerr.New("network", bockerr.Config, "parse subnet "+cidr, err)
	}

	gateway := make(net.IP, len(ipnet.IP))
	copy(gateway, ipnet.IP)
	incrementIP(gateway)

	start := make(net.IP, len(gateway))
	copy(start, gateway)
	incrementIP(start)

	return &IPAM{
		network:   ipnet,
		gateway:   gateway,
		next:      start,
		allocated: make(map[string]bool),
	}, nil
}

// Gateway returns the subnet's reserved gateway address.
func (a *IPAM) Gateway() net.IP {
	return a.gateway
}

// Subnet returns the CIDR this allocator draws from.
func (a *IPAM) Subnet() *net.IPNet {
	return a.network
}

// Allocate hands out the next free address in sequence, reusing released
// addresses (earliest released first) before advancing the high-water mark.
func (a *IPAM) Allocate() (net.IP, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.released) > 0 {
		ip := a.released[0]
		a.released = a.released[1:]
		a.allocated[ip.String()] = true
		return ip, nil
	}

	for a.network.Contains(a.next) {
		candidate := make(net.IP, len(a.next))
		copy(candidate, a.next)
		incrementIP(a.next)

		if candidate.Equal(a.gateway) || isBroadcast(candidate, a.network) {
			continue
		}
		a.allocated[candidate.String()] = true
		return candidate, nil
	}

	return nil, bockerr.New("network", bockerr.Internal, "subnet "+a.network.String()+" exhausted", nil)
}

// Release returns ip to the free pool.
func (a *IPAM) Release(ip net.IP) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.allocated[ip.String()] {
		delete(a.allocated, ip.String())
		a.released = append(a.released, ip)
	}
}

func incrementIP(ip net.IP) {
	for i := len(ip) - 1; i >= 0; i-- {
		ip[i]++
		if ip[i] != 0 {
			return
		}
	}
}

func isBroadcast(ip net.IP, network *net.IPNet) bool {
	broadcast := make(net.IP, len(network.IP))
	for i := range network.IP {
		broadcast[i] = network.IP[i] | ^network.Mask[i]
	}
	return ip.Equal(broadcast)
}
