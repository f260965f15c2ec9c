// Package paths derives bock's on-disk filesystem layout from a root and
// runtime directory, per spec §3.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultRoot    = "/var/lib/bock"
	defaultRuntime = "/run/bock"
)

// BockPaths is a pure value type: every accessor derives from root/runtime,
// so tests can redirect an entire subsystem to a temp directory by
// constructing one with New(t.TempDir(), t.TempDir()).
type BockPaths struct {
	Root    string
	Runtime string
}

// Default builds BockPaths from BOCK_ROOT / BOCK_RUNTIME_DIR, falling back
// to /var/lib/bock and /run/bock.
func Default() BockPaths {
	root := os.Getenv("BOCK_ROOT")
	if root == "" {
		root = defaultRoot
	}
	runtime := os.Getenv("BOCK_RUNTIME_DIR")
	if runtime == "" {
		runtime = defaultRuntime
	}
	return BockPaths{Root: root, Runtime: runtime}
}

// New builds BockPaths rooted at the given directories, ignoring env vars.
func New(root, runtime string) BockPaths {
	return BockPaths{Root: root, Runtime: runtime}
}

func (p BockPaths) Containers() string { return filepath.Join(p.Root, "containers") }
func (p BockPaths) Container(id string) string {
	return filepath.Join(p.Containers(), id)
}
func (p BockPaths) ContainerState(id string) string {
	return filepath.Join(p.Container(id), "state.json")
}
func (p BockPaths) ContainerConfig(id string) string {
	return filepath.Join(p.Container(id), "config.json")
}
func (p BockPaths) ContainerRootfs(id string) string {
	return filepath.Join(p.Container(id), "rootfs")
}
func (p BockPaths) ContainerUpper(id string) string {
	return filepath.Join(p.Container(id), "upper")
}
func (p BockPaths) ContainerWork(id string) string {
	return filepath.Join(p.Container(id), "work")
}
func (p BockPaths) ContainerPidFile(id string) string {
	return filepath.Join(p.Container(id), "pid")
}

func (p BockPaths) Images() string { return filepath.Join(p.Root, "images") }
func (p BockPaths) Repositories() string {
	return filepath.Join(p.Images(), "repositories.json")
}
func (p BockPaths) Blobs() string { return filepath.Join(p.Root, "blobs") }
func (p BockPaths) Blob(algorithm, hex string) string {
	return filepath.Join(p.Blobs(), algorithm, hex)
}
func (p BockPaths) Layers() string { return filepath.Join(p.Root, "layers") }
func (p BockPaths) Layer(digest string) string {
	return filepath.Join(p.Layers(), strings.Replace(digest, ":", string(filepath.Separator), 1))
}

func (p BockPaths) Volumes() string { return filepath.Join(p.Root, "volumes") }
func (p BockPaths) Volume(name string) string {
	return filepath.Join(p.Volumes(), name)
}
func (p BockPaths) VolumeMetadata(name string) string {
	return filepath.Join(p.Volume(name), "_metadata.json")
}

func (p BockPaths) Networks() string { return filepath.Join(p.Root, "networks") }
func (p BockPaths) Cache() string    { return filepath.Join(p.Root, "cache") }

// RuntimeContainer is the per-container directory under the runtime dir
// (console socket) — separate from the persistent root because
// it may live on tmpfs and need not survive a reboot.
func (p BockPaths) RuntimeContainer(id string) string {
	return filepath.Join(p.Runtime, "containers", id)
}
func (p BockPaths) ConsoleSocket(id string) string {
	return filepath.Join(p.RuntimeContainer(id), "console.sock")
}

// CreateDirs idempotently creates the fixed top-level directory set.
func (p BockPaths) CreateDirs() error {
	for _, dir := range []string{
		p.Root, p.Runtime, p.Containers(), p.Images(), p.Blobs(),
		p.Layers(), p.Cache(), p.Networks(), p.Volumes(),
	} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	return nil
}
