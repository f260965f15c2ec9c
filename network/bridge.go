//go:build linux

package network

import (
	"net"

	"github.com/vishvananda/netlink"

	"github.com/fishmindlab360/bock/bockerr"
)

// Bridge wraps a Linux bridge device, per spec §4.9.
type Bridge struct {
	Name string
}

// EnsureBridge returns the named bridge, creating and bringing it up (with
// gatewayCIDR assigned) if it doesn't already exist.
func EnsureBridge(name string, gatewayCIDR *net.IPNet) (*Bridge, error) {
	link, err := netlink.LinkByName(name)
	if err == nil {
		if _, ok := link.(*netlink.Bridge); !ok {
			return nil, bockerr.New("network", bockerr.Config, "existing link "+name+" is not a bridge", nil)
		}
		return &Bridge{Name: name}, nil
	}

	br := &netlink.Bridge{LinkAttrs: netlink.LinkAttrs{Name: name}}
	if err := netlink.LinkAdd(br); err != nil {
		return nil, bockerr.New("network", bockerr.Io, "create bridge "+name, err)
	}

	if gatewayCIDR != nil {
		addr := &netlink.Addr{IPNet: gatewayCIDR}
		if err := netlink.AddrAdd(br, addr); err != nil {
			return nil, bockerr.New("network", bockerr.Io, "assign gateway address to "+name, err)
		}
	}

	if err := netlink.LinkSetUp(br); err != nil {
		return nil, bockerr.New("network", bockerr.Io, "bring up bridge "+name, err)
	}

	return &Bridge{Name: name}, nil
}

// AddInterface enslaves interfaceName to the bridge.
func (b *Bridge) AddInterface(interfaceName string) error {
	link, err := netlink.LinkByName(interfaceName)
	if err != nil {
		return bockerr.New("network", bockerr.Io, "find interface "+interfaceName, err)
	}
	bridgeLink, err := netlink.LinkByName(b.Name)
	if err != nil {
		return bockerr.New("network", bockerr.Io, "find bridge "+b.Name, err)
	}
	if err := netlink.LinkSetMaster(link, bridgeLink.(*netlink.Bridge)); err != nil {
		return bockerr.New("network", bockerr.Io, "attach "+interfaceName+" to bridge "+b.Name, err)
	}
	return nil
}

// Delete removes the bridge device.
func (b *Bridge) Delete() error {
	link, err := netlink.LinkByName(b.Name)
	if err != nil {
		return nil
	}
	if err := netlink.LinkDel(link); err != nil {
		return bockerr.New("network", bockerr.Io, "delete bridge "+b.Name, err)
	}
	return nil
}

// Exists reports whether a link named name is present.
func Exists(name string) bool {
	_, err := netlink.LinkByName(name)
	return err == nil
}
