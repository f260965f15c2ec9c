package ocispec

import (
	"encoding/json"

	rspec "github.com/opencontainers/runtime-spec/specs-go"
)

// ContainerStatus is one of the five states in the lifecycle DAG from
// spec §4.10: creating -> created -> running <-> paused, any of
// created/running/paused -> stopped.
type ContainerStatus string

const (
	StatusCreating ContainerStatus = "creating"
	StatusCreated  ContainerStatus = "created"
	StatusRunning  ContainerStatus = "running"
	StatusPaused   ContainerStatus = "paused"
	StatusStopped  ContainerStatus = "stopped"
)

func (s ContainerStatus) CanStart() bool   { return s == StatusCreated }
func (s ContainerStatus) CanKill() bool    { return s == StatusRunning || s == StatusPaused }
func (s ContainerStatus) CanDelete() bool  { return s == StatusStopped || s == StatusCreated }
func (s ContainerStatus) CanPause() bool   { return s == StatusRunning }
func (s ContainerStatus) CanResume() bool  { return s == StatusPaused }
func (s ContainerStatus) IsRunning() bool  { return s == StatusRunning }
func (s ContainerStatus) IsStopped() bool  { return s == StatusStopped }

// State is bock's persisted state.json, mirroring rspec.State but adding the
// annotations and bundle fields the OCI CLI surface (`bock state`) must
// report verbatim.
type State struct {
	OCIVersion  string            `json:"ociVersion"`
	ID          string            `json:"id"`
	Status      ContainerStatus   `json:"status"`
	Pid         *int              `json:"pid,omitempty"`
	Bundle      string            `json:"bundle"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// NewState returns a container's initial persisted state: status creating,
// no pid, per spec §3's invariant that pid is Some iff status is one of
// created/running/paused.
func NewState(id, bundle string) *State {
	return &State{
		OCIVersion: OCIVersion,
		ID:         id,
		Status:     StatusCreating,
		Bundle:     bundle,
	}
}

func (s *State) SetCreated(pid int) {
	s.Status = StatusCreated
	s.Pid = &pid
}

func (s *State) SetRunning() { s.Status = StatusRunning }

func (s *State) SetPaused() { s.Status = StatusPaused }

func (s *State) SetStopped() {
	s.Status = StatusStopped
	s.Pid = nil
}

// ToRuntimeState converts to the upstream rspec.State shape, for `bock
// state` output, which must match what other OCI-spec consumers expect.
func (s *State) ToRuntimeState() *rspec.State {
	pid := 0
	if s.Pid != nil {
		pid = *s.Pid
	}
	return &rspec.State{
		Version:     s.OCIVersion,
		ID:          s.ID,
		Status:      rspec.ContainerState(s.Status),
		Pid:         pid,
		Bundle:      s.Bundle,
		Annotations: s.Annotations,
	}
}

// MarshalState renders state the way it is written to state.json: stable key
// order via encoding/json struct tags, indented for human readability since
// operators routinely `cat` it during debugging.
func MarshalState(s *State) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalState parses a persisted state.json.
func UnmarshalState(data []byte) (*State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
