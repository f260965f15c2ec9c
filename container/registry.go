package container

import (
	"os"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/ocispec"
	"github.com/fishmindlab360/bock/paths"
)

// List enumerates every container under <root>/containers, returning each
// one's persisted state for `bock list`. A bundle whose state.json can't
// be read (e.g. a partially-removed bundle mid-Delete) is skipped rather
// than failing the whole listing.
func List(p paths.BockPaths) ([]ocispec.State, error) {
	entries, err := os.ReadDir(p.Containers())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, bockerr.New("container", bockerr.Io, "list containers", err)
	}

	var out []ocispec.State
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		state, err := loadState(p, e.Name())
		if err != nil {
			continue
		}
		out = append(out, *state)
	}
	return out, nil
}
