package ocispec

import "testing"

func TestStateTransitions(t *testing.T) {
	s := NewState("test-container", "/bundles/test")
	if s.Status != StatusCreating {
		t.Fatalf("initial status = %s, want creating", s.Status)
	}

	s.SetCreated(12345)
	if s.Status != StatusCreated || s.Pid == nil || *s.Pid != 12345 {
		t.Fatalf("after SetCreated: status=%s pid=%v", s.Status, s.Pid)
	}
	if !s.Status.CanStart() {
		t.Error("created should be startable")
	}

	s.SetRunning()
	if !s.Status.CanKill() || !s.Status.CanPause() {
		t.Error("running should be killable and pausable")
	}

	s.SetStopped()
	if s.Status != StatusStopped || s.Pid != nil {
		t.Fatalf("after SetStopped: status=%s pid=%v", s.Status, s.Pid)
	}
	if !s.Status.CanDelete() {
		t.Error("stopped should be deletable")
	}
}

func TestMarshalState(t *testing.T) {
	s := NewState("abc123", "/bundles/abc123")
	s.SetCreated(777)

	data, err := MarshalState(s)
	if err != nil {
		t.Fatalf("MarshalState: %v", err)
	}

	got, err := UnmarshalState(data)
	if err != nil {
		t.Fatalf("UnmarshalState: %v", err)
	}
	if got.ID != s.ID || got.Status != s.Status || *got.Pid != *s.Pid {
		t.Errorf("round trip mismatch: %+v vs %+v", got, s)
	}
}

func TestToRuntimeState(t *testing.T) {
	s := NewState("abc123", "/bundles/abc123")
	s.SetCreated(42)

	rs := s.ToRuntimeState()
	if rs.ID != "abc123" || rs.Pid != 42 || string(rs.Status) != "created" {
		t.Errorf("ToRuntimeState mismatch: %+v", rs)
	}
}
