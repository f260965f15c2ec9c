package network

import (
	"net"
	"testing"
)

func TestNewIPAMReservesGateway(t *testing.T) {
	a, err := NewIPAM(DefaultSubnet)
	if err != nil {
		t.Fatal(err)
	}
	if a.Gateway().String() != "172.18.0.1" {
		t.Fatalf("gateway = %s, want 172.18.0.1", a.Gateway())
	}
}

func TestAllocateStartsAtDotTwo(t *testing.T) {
	a, err := NewIPAM(DefaultSubnet)
	if err != nil {
		t.Fatal(err)
	}
	ip, err := a.Allocate()
	if err != nil {
		t.Fatal(err)
	}
	if ip.String() != "172.18.0.2" {
		t.Fatalf("first allocation = %s, want 172.18.0.2", ip)
	}
}

func TestAllocateSkipsGatewayAndAdvances(t *testing.T) {
	a, err := NewIPAM(DefaultSubnet)
	if err != nil {
		t.Fatal(err)
	}
	first, _ := a.Allocate()
	second, _ := a.Allocate()
	if first.Equal(a.Gateway()) || second.Equal(a.Gateway()) {
		t.Fatal("allocator handed out the reserved gateway address")
	}
	if first.Equal(second) {
		t.Fatal("allocator handed out the same address twice")
	}
}

func TestReleaseIsReusedBeforeAdvancing(t *testing.T) {
	a, err := NewIPAM(DefaultSubnet)
	if err != nil {
		t.Fatal(err)
	}
	first, _ := a.Allocate()
	second, _ := a.Allocate()
	a.Release(first)

	third, err := a.Allocate()
	if err != nil {
		t.Fatal(err)
	}
	if !third.Equal(first) {
		t.Fatalf("released address not reused: got %s, want %s", third, first)
	}

	fourth, err := a.Allocate()
	if err != nil {
		t.Fatal(err)
	}
	if fourth.Equal(second) || fourth.Equal(first) {
		t.Fatalf("expected a fresh address, got %s", fourth)
	}
}

func TestReleaseOfUnallocatedAddressIsIgnored(t *testing.T) {
	a, err := NewIPAM(DefaultSubnet)
	if err != nil {
		t.Fatal(err)
	}
	a.Release(net.ParseIP("172.18.5.5"))
	ip, err := a.Allocate()
	if err != nil {
		t.Fatal(err)
	}
	if ip.String() != "172.18.0.2" {
		t.Fatalf("releasing an unallocated address perturbed the sequence: got %s", ip)
	}
}

func TestNewIPAMRejectsInvalidCIDR(t *testing.T) {
	if _, err := NewIPAM("not-a-cidr"); err == nil {
		t.Fatal("expected error for invalid CIDR")
	}
}

func TestIsBroadcastDetectsLastAddress(t *testing.T) {
	_, ipnet, err := net.ParseCIDR("10.0.0.0/30")
	if err != nil {
		t.Fatal(err)
	}
	if !isBroadcast(net.ParseIP("10.0.0.3").To4(), ipnet) {
		t.Fatal("expected 10.0.0.3 to be the broadcast address of 10.0.0.0/30")
	}
	if isBroadcast(net.ParseIP("10.0.0.1").To4(), ipnet) {
		t.Fatal("10.0.0.1 should not be treated as broadcast")
	}
}

func TestAllocateExhaustsSmallSubnet(t *testing.T) {
	// /30 has only one usable non-gateway, non-broadcast address: .2.
	a, err := NewIPAM("10.0.0.0/30")
	if err != nil {
		t.Fatal(err)
	}
	ip, err := a.Allocate()
	if err != nil {
		t.Fatal(err)
	}
	if ip.String() != "10.0.0.2" {
		t.Fatalf("got %s, want 10.0.0.2", ip)
	}
	if _, err := a.Allocate(); err == nil {
		t.Fatal("expected exhaustion error")
	}
}
