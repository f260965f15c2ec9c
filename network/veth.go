//go:build linux

package network

import (
	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"

	"github.com/fishmindlab360/bock/bockerr"
)

// VethPair is a host/container virtual ethernet pair, per spec §4.9.
type VethPair struct {
	Host      string
	Container string
}

// CreateVethPair creates a veth pair and brings the host side up, leaving
// the container side down until it's moved into the container's netns.
func CreateVethPair(hostName, containerName string) (*VethPair, error) {
	veth := &netlink.Veth{
		LinkAttrs: netlink.LinkAttrs{Name: hostName},
		PeerName:  containerName,
	}
	if err := netlink.LinkAdd(veth); err != nil {
		return nil, bockerr.New("network", bockerr.Io, "create veth pair "+hostName+"/"+containerName, err)
	}

	hostLink, err := netlink.LinkByName(hostName)
	if err != nil {
		return nil, bockerr.New("network", bockerr.Io, "find host veth "+hostName, err)
	}
	if err := netlink.LinkSetUp(hostLink); err != nil {
		return nil, bockerr.New("network", bockerr.Io, "bring up host veth "+hostName, err)
	}

	return &VethPair{Host: hostName, Container: containerName}, nil
}

// MoveToNetns moves the container side into the network namespace owned
// by pid.
func (v *VethPair) MoveToNetns(pid int) error {
	link, err := netlink.LinkByName(v.Container)
	if err != nil {
		return bockerr.New("network", bockerr.Io, "find container veth "+v.Container, err)
	}
	if err := netlink.LinkSetNsPid(link, pid); err != nil {
		return bockerr.New("network", bockerr.Io, "move "+v.Container+" to netns of pid", err)
	}
	return nil
}

// MoveToNetnsPath moves the container side into the network namespace
// mounted at nsPath (e.g. /proc/<pid>/ns/net or a bind-mounted path under
// /var/run/netns).
func (v *VethPair) MoveToNetnsPath(nsPath string) error {
	link, err := netlink.LinkByName(v.Container)
	if err != nil {
		return bockerr.New("network", bockerr.Io, "find container veth "+v.Container, err)
	}
	handle, err := netns.GetFromPath(nsPath)
	if err != nil {
		return bockerr.New("network", bockerr.Io, "open netns "+nsPath, err)
	}
	defer handle.Close()
	if err := netlink.LinkSetNsFd(link, int(handle)); err != nil {
		return bockerr.New("network", bockerr.Io, "move "+v.Container+" to netns "+nsPath, err)
	}
	return nil
}

// Delete removes the host side of the pair; the kernel removes the peer
// automatically.
func (v *VethPair) Delete() error {
	link, err := netlink.LinkByName(v.Host)
	if err != nil {
		return nil
	}
	if err := netlink.LinkDel(link); err != nil {
		return bockerr.New("network", bockerr.Io, "delete veth "+v.Host, err)
	}
	return nil
}
