package container

import (
	"os"
	"strconv"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/ocispec"
	"github.com/fishmindlab360/bock/paths"
)

// writeState persists s atomically via write-then-rename: state.json is
// read by other processes (`bock state`, the orchestrator), so a torn
// write must never be observable, per spec §4.10's "write of state.json
// strictly precedes visibility" ordering guarantee.
func writeState(p paths.BockPaths, id string, s *ocispec.State) error {
	data, err := ocispec.MarshalState(s)
	if err != nil {
		return bockerr.New("container", bockerr.Serialization, "marshal state.json for "+id, err)
	}
	target := p.ContainerState(id)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return bockerr.New("container", bockerr.Io, "write state.json for "+id, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return bockerr.New("container", bockerr.Io, "rename state.json for "+id, err)
	}
	return nil
}

// loadState rereads a container's persisted state.json.
func loadState(p paths.BockPaths, id string) (*ocispec.State, error) {
	data, err := os.ReadFile(p.ContainerState(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bockerr.New("container", bockerr.ContainerNotFound, id, err)
		}
		return nil, bockerr.New("container", bockerr.Io, "read state.json for "+id, err)
	}
	s, err := ocispec.UnmarshalState(data)
	if err != nil {
		return nil, bockerr.New("container", bockerr.Serialization, "parse state.json for "+id, err)
	}
	return s, nil
}

// readPid reads the pid file written once Start confirms the entrypoint is
// running. It is kept separate from state.json because it may be refreshed
// without a full state transition (e.g. after bockd restarts and needs to
// repopulate its in-memory cache), per spec §4.10's persistence note.
func readPid(p paths.BockPaths, id string) (int, error) {
	data, err := os.ReadFile(p.ContainerPidFile(id))
	if err != nil {
		return 0, bockerr.New("container", bockerr.Io, "read pid file for "+id, err)
	}
	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, bockerr.New("container", bockerr.Serialization, "malformed pid file for "+id, err)
	}
	return pid, nil
}

func writePid(p paths.BockPaths, id string, pid int) error {
	tmp := p.ContainerPidFile(id) + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(pid)), 0o640); err != nil {
		return bockerr.New("container", bockerr.Io, "write pid file for "+id, err)
	}
	if err := os.Rename(tmp, p.ContainerPidFile(id)); err != nil {
		return bockerr.New("container", bockerr.Io, "rename pid file for "+id, err)
	}
	return nil
}
