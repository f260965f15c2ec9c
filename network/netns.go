//go:build linux

package network

import (
	"net"
	"runtime"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"

	"github.com/fishmindlab360/bock/bockerr"
)

// ConfigureContainerInterface runs inside the container's network
// namespace (the caller must already have entered it, e.g. via
// execinit/the runtime's namespace-join step) to rename the moved veth
// end, assign its address, and bring it and loopback up, per spec §4.9.
func ConfigureContainerInterface(tempName, finalName string, addr *netlink.Addr, gateway net.IP) error {
	link, err := netlink.LinkByName(tempName)
	if err != nil {
		return bockerr.New("network", bockerr.Io, "find interface "+tempName, err)
	}

	if err := netlink.LinkSetName(link, finalName); err != nil {
		return bockerr.New("network", bockerr.Io, "rename "+tempName+" to "+finalName, err)
	}

	link, err = netlink.LinkByName(finalName)
	if err != nil {
		return bockerr.New("network", bockerr.Io, "find renamed interface "+finalName, err)
	}

	if err := netlink.AddrAdd(link, addr); err != nil {
		return bockerr.New("network", bockerr.Io, "assign address to "+finalName, err)
	}

	if err := netlink.LinkSetUp(link); err != nil {
		return bockerr.New("network", bockerr.Io, "bring up "+finalName, err)
	}

	lo, err := netlink.LinkByName("lo")
	if err == nil {
		_ = netlink.LinkSetUp(lo)
	}

	if gateway != nil {
		route := &netlink.Route{
			LinkIndex: link.Attrs().Index,
			Gw:        gateway,
		}
		if err := netlink.RouteAdd(route); err != nil {
			return bockerr.New("network", bockerr.Io, "add default route via "+gateway.String(), err)
		}
	}

	return nil
}

// RunInNetns locks the calling goroutine to its OS thread, switches into
// the named network namespace (typically opened from
// /proc/<pid>/ns/net), runs fn, and restores the original namespace
// before unlocking.
func RunInNetns(nsPath string, fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	origin, err := netns.Get()
	if err != nil {
		return bockerr.New("network", bockerr.Io, "get current netns", err)
	}
	defer origin.Close()

	target, err := netns.GetFromPath(nsPath)
	if err != nil {
		return bockerr.New("network", bockerr.Io, "open netns "+nsPath, err)
	}
	defer target.Close()

	if err := netns.Set(target); err != nil {
		return bockerr.New("network", bockerr.Io, "enter netns "+nsPath, err)
	}
	defer netns.Set(origin)

	return fn()
}
