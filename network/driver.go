//go:build linux

package network

import (
	"net"

	"github.com/vishvananda/netlink"

	"github.com/fishmindlab360/bock/bockerr"
)

// DriverKind names one of the three network drivers bock supports, per
// SPEC_FULL.md's dynamic-dispatch-point requirement.
type DriverKind string

const (
	DriverBridge DriverKind = "bridge"
	DriverHost   DriverKind = "host"
	DriverNone   DriverKind = "none"
)

// Endpoint is what a Driver hands back after attaching a container: the
// address it assigned (if any) and a teardown closure.
type Endpoint struct {
	IP       net.IP
	Gateway  net.IP
	Teardown func() error
}

// Driver attaches and detaches a container from a network. Bridge mode
// allocates an address and wires a veth pair through the bridge; host
// mode shares the host's network namespace outright; none mode leaves
// the container with only loopback.
type Driver interface {
	Kind() DriverKind
	Attach(containerID string, netnsPath string) (*Endpoint, error)
}

// BridgeDriver is the default Driver: it allocates an IPAM address,
// creates a veth pair, attaches the host end to the bridge, and
// configures the container end inside the target namespace.
type BridgeDriver struct {
	Bridge *Bridge
	IPAM   *IPAM
}

// NewBridgeDriver ensures the bridge exists and wires it to ipam's
// gateway/subnet.
func NewBridgeDriver(bridgeName string, ipam *IPAM) (*BridgeDriver, error) {
	gatewayNet := &net.IPNet{IP: ipam.Gateway(), Mask: ipam.Subnet().Mask}
	br, err := EnsureBridge(bridgeName, gatewayNet)
	if err != nil {
		return nil, err
	}
	return &BridgeDriver{Bridge: br, IPAM: ipam}, nil
}

func (d *BridgeDriver) Kind() DriverKind { return DriverBridge }

// Attach allocates an address, builds a veth pair named after
// containerID, enslaves the host end to the bridge, moves the container
// end into netnsPath, and configures it there. With an empty netnsPath the
// container end is left in the current namespace, unconfigured.
func (d *BridgeDriver) Attach(containerID string, netnsPath string) (*Endpoint, error) {
	ip, err := d.IPAM.Allocate()
	if err != nil {
		return nil, err
	}

	hostName := "veth" + containerID[:min(8, len(containerID))]
	containerName := "eth0"

	veth, err := CreateVethPair(hostName, containerName)
	if err != nil {
		d.IPAM.Release(ip)
		return nil, err
	}

	if err := d.Bridge.AddInterface(veth.Host); err != nil {
		_ = veth.Delete()
		d.IPAM.Release(ip)
		return nil, err
	}

	teardown := func() error {
		err := veth.Delete()
		d.IPAM.Release(ip)
		return err
	}

	if netnsPath == "" {
		return &Endpoint{IP: ip, Gateway: d.IPAM.Gateway(), Teardown: teardown}, nil
	}

	if err := veth.MoveToNetnsPath(netnsPath); err != nil {
		_ = teardown()
		return nil, err
	}

	ones, bits := d.IPAM.Subnet().Mask.Size()
	ipNet := &net.IPNet{IP: ip, Mask: net.CIDRMask(ones, bits)}

	err = RunInNetns(netnsPath, func() error {
		return ConfigureContainerInterface(containerName, containerName, &netlink.Addr{IPNet: ipNet}, d.IPAM.Gateway())
	})
	if err != nil {
		_ = teardown()
		return nil, err
	}

	return &Endpoint{IP: ip, Gateway: d.IPAM.Gateway(), Teardown: teardown}, nil
}

// HostDriver shares the host's own network namespace; no veth, bridge,
// or address allocation takes place.
type HostDriver struct{}

func (HostDriver) Kind() DriverKind { return DriverHost }

func (HostDriver) Attach(containerID string, netnsPath string) (*Endpoint, error) {
	return &Endpoint{Teardown: func() error { return nil }}, nil
}

// NoneDriver leaves the container with only a loopback interface.
type NoneDriver struct{}

func (NoneDriver) Kind() DriverKind { return DriverNone }

func (NoneDriver) Attach(containerID string, netnsPath string) (*Endpoint, error) {
	return &Endpoint{Teardown: func() error { return nil }}, nil
}

// NewDriver constructs the Driver named by kind.
func NewDriver(kind DriverKind, bridgeName string, ipam *IPAM) (Driver, error) {
	switch kind {
	case DriverBridge, "":
		return NewBridgeDriver(bridgeName, ipam)
	case DriverHost:
		return HostDriver{}, nil
	case DriverNone:
		return NoneDriver{}, nil
	default:
		return nil, bockerr.New("network", bockerr.Config, "unknown network driver "+string(kind), nil)
	}
}
