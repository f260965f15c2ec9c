package fsys

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/paths"
)

// Volume is a named volume's persisted metadata, stored as
// <root>/volumes/<name>/_metadata.json next to the data directory, per
// spec §3.
type Volume struct {
	Name    string            `json:"name"`
	Path    string            `json:"path"`
	Driver  string            `json:"driver"`
	Labels  map[string]string `json:"labels,omitempty"`
	Created time.Time         `json:"created"`
}

// CreateVolume creates the volume's data directory and metadata sidecar if
// they don't already exist, and returns the existing volume unchanged if
// they do (volume creation is idempotent by name).
func CreateVolume(p paths.BockPaths, name string, labels map[string]string) (*Volume, error) {
	if existing, err := LoadVolume(p, name); err == nil && existing != nil {
		return existing, nil
	}

	dataDir := p.Volume(name)
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, bockerr.New("fsys", bockerr.Io, "create volume data dir", err)
	}

	v := &Volume{
		Name:    name,
		Path:    dataDir,
		Driver:  "local",
		Labels:  labels,
		Created: time.Now().UTC(),
	}
	if err := saveVolumeMetadata(p, v); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadVolume reads a volume's metadata, returning (nil, nil) if it doesn't
// exist.
func LoadVolume(p paths.BockPaths, name string) (*Volume, error) {
	data, err := os.ReadFile(p.VolumeMetadata(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, bockerr.New("fsys", bockerr.Io, "read volume metadata", err)
	}
	var v Volume
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, bockerr.New("fsys", bockerr.Serialization, "parse volume metadata", err)
	}
	return &v, nil
}

func saveVolumeMetadata(p paths.BockPaths, v *Volume) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return bockerr.New("fsys", bockerr.Serialization, "marshal volume metadata", err)
	}
	if err := os.WriteFile(p.VolumeMetadata(v.Name), data, 0o640); err != nil {
		return bockerr.New("fsys", bockerr.Io, "write volume metadata", err)
	}
	return nil
}

// RemoveVolume deletes a volume's data directory and metadata. Volume
// lifetime is independent of any container; this is only ever called from
// an explicit `volume rm`, per spec §3.
func RemoveVolume(p paths.BockPaths, name string) error {
	if err := os.RemoveAll(p.Volume(name)); err != nil {
		return bockerr.New("fsys", bockerr.Io, "remove volume "+name, err)
	}
	return nil
}

// ListVolumes enumerates every volume under <root>/volumes.
func ListVolumes(p paths.BockPaths) ([]*Volume, error) {
	entries, err := os.ReadDir(p.Volumes())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, bockerr.New("fsys", bockerr.Io, "list volumes", err)
	}
	var out []*Volume
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := LoadVolume(p, e.Name())
		if err != nil {
			return nil, err
		}
		if v != nil {
			out = append(out, v)
		}
	}
	return out, nil
}

// VolumeMountTarget returns the absolute path inside a container's rootfs
// that a volume should be bind-mounted onto.
func VolumeMountTarget(rootfs, target string) string {
	return filepath.Join(rootfs, target)
}
