package network

import (
	"context"
	"os"
	"os/exec"
	"strconv"

	"github.com/fishmindlab360/bock/bockerr"
)

// Protocol is a port mapping's transport protocol.
type Protocol string

const (
	TCP Protocol = "tcp"
	UDP Protocol = "udp"
)

// PortMapping is a single host-port-to-container-port forward, per
// spec §4.9.
type PortMapping struct {
	HostPort      uint16
	ContainerPort uint16
	ContainerIP   string
	Protocol      Protocol
	HostIP        string // empty means all host addresses
}

// PortMapper installs and removes the three-rule iptables pattern bock
// uses for one container's published ports: a PREROUTING DNAT rule for
// traffic arriving from outside, an OUTPUT DNAT rule so localhost
// traffic reaches the container too, and a POSTROUTING MASQUERADE rule
// for the return path. Every rule is tagged with a `bock-<container_id>`
// comment so it can be found and removed idempotently.
type PortMapper struct {
	containerID string
	mappings    []PortMapping
}

// NewPortMapper returns a mapper that tags its rules for containerID.
func NewPortMapper(containerID string) *PortMapper {
	return &PortMapper{containerID: containerID}
}

func (p *PortMapper) comment() string {
	return "bock-" + p.containerID
}

// AddMapping installs m's three iptables rules.
func (p *PortMapper) AddMapping(ctx context.Context, m PortMapping) error {
	hostPort := strconv.Itoa(int(m.HostPort))
	containerPort := strconv.Itoa(int(m.ContainerPort))
	dest := m.ContainerIP + ":" + containerPort
	comment := p.comment()

	preroutingArgs := []string{"-t", "nat", "-A", "PREROUTING", "-p", string(m.Protocol)}
	if m.HostIP != "" {
		preroutingArgs = append(preroutingArgs, "-d", m.HostIP)
	}
	preroutingArgs = append(preroutingArgs,
		"--dport", hostPort, "-j", "DNAT", "--to-destination", dest,
		"-m", "comment", "--comment", comment)

	if err := runIptables(ctx, preroutingArgs); err != nil {
		return err
	}

	outputArgs := []string{
		"-t", "nat", "-A", "OUTPUT", "-p", string(m.Protocol),
		"-d", "127.0.0.1", "--dport", hostPort, "-j", "DNAT", "--to-destination", dest,
		"-m", "comment", "--comment", comment,
	}
	if err := runIptables(ctx, outputArgs); err != nil {
		return err
	}

	postroutingArgs := []string{
		"-t", "nat", "-A", "POSTROUTING", "-p", string(m.Protocol),
		"-d", m.ContainerIP, "--dport", containerPort, "-j", "MASQUERADE",
		"-m", "comment", "--comment", comment,
	}
	if err := runIptables(ctx, postroutingArgs); err != nil {
		return err
	}

	p.mappings = append(p.mappings, m)
	return nil
}

// Mappings returns the currently active mappings.
func (p *PortMapper) Mappings() []PortMapping {
	return p.mappings
}

// RemoveMapping removes the single mapping matching hostPort/protocol, if
// one is active.
func (p *PortMapper) RemoveMapping(ctx context.Context, hostPort uint16, protocol Protocol) error {
	for i, m := range p.mappings {
		if m.HostPort == hostPort && m.Protocol == protocol {
			p.removeMapping(ctx, m)
			p.mappings = append(p.mappings[:i], p.mappings[i+1:]...)
			return nil
		}
	}
	return nil
}

// RemoveAll removes every rule this mapper has installed, best-effort.
func (p *PortMapper) RemoveAll(ctx context.Context) error {
	mappings := p.mappings
	p.mappings = nil
	for _, m := range mappings {
		p.removeMapping(ctx, m)
	}
	return nil
}

func (p *PortMapper) removeMapping(ctx context.Context, m PortMapping) {
	hostPort := strconv.Itoa(int(m.HostPort))
	containerPort := strconv.Itoa(int(m.ContainerPort))
	dest := m.ContainerIP + ":" + containerPort
	comment := p.comment()

	preroutingArgs := []string{"-t", "nat", "-D", "PREROUTING", "-p", string(m.Protocol)}
	if m.HostIP != "" {
		preroutingArgs = append(preroutingArgs, "-d", m.HostIP)
	}
	preroutingArgs = append(preroutingArgs,
		"--dport", hostPort, "-j", "DNAT", "--to-destination", dest,
		"-m", "comment", "--comment", comment)
	_ = runIptables(ctx, preroutingArgs)
	_ = runIptables(ctx, []string{
		"-t", "nat", "-D", "OUTPUT", "-p", string(m.Protocol),
		"-d", "127.0.0.1", "--dport", hostPort, "-j", "DNAT", "--to-destination", dest,
		"-m", "comment", "--comment", comment,
	})
	_ = runIptables(ctx, []string{
		"-t", "nat", "-D", "POSTROUTING", "-p", string(m.Protocol),
		"-d", m.ContainerIP, "--dport", containerPort, "-j", "MASQUERADE",
		"-m", "comment", "--comment", comment,
	})
}

func runIptables(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "iptables", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return bockerr.New("network", bockerr.Io, "iptables "+args[0]+": "+string(out), err)
	}
	return nil
}

// EnableIPForwarding turns on IPv4 forwarding, required for bridge traffic
// to route between containers and the outside world.
func EnableIPForwarding() error {
	if err := os.WriteFile("/proc/sys/net/ipv4/ip_forward", []byte("1"), 0644); err != nil {
		return bockerr.New("network", bockerr.Io, "enable ip forwarding", err)
	}
	return nil
}

// SetupForwardRules installs the FORWARD ACCEPT rules bridgeInterface
// needs to pass traffic in both directions.
func SetupForwardRules(ctx context.Context, bridgeInterface string) error {
	if err := runIptables(ctx, []string{"-A", "FORWARD", "-i", bridgeInterface, "-j", "ACCEPT"}); err != nil {
		return err
	}
	return runIptables(ctx, []string{"-A", "FORWARD", "-o", bridgeInterface, "-j", "ACCEPT"})
}
