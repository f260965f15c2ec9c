// Package image implements bock's content-addressable image store: blob
// storage, the repositories.json tag index, layer extraction, and
// reachability-based garbage collection, per spec §4.3.
package image

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	archive "github.com/moby/go-archive"
	digest "github.com/opencontainers/go-digest"
	ispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/fishmindlab360/bock/bockerr"
	"github.com/fishmindlab360/bock/ocispec"
	"github.com/fishmindlab360/bock/paths"
)

// repoIndex is the in-memory/on-disk shape of repositories.json: repo name
// to tag to manifest digest.
type repoIndex map[string]map[string]string

// StoredImage is the denormalized view returned by Save/Load/List, per
// spec §3.
type StoredImage struct {
	Reference     string   `json:"reference"`
	ManifestDigest string  `json:"manifest_digest"`
	ConfigDigest  string   `json:"config_digest"`
	Layers        []string `json:"layers"`
	SizeBytes     int64    `json:"size_bytes"`
	Created       string   `json:"created,omitempty"`
	Architecture  string   `json:"arch"`
	OS            string   `json:"os"`
}

// Store is bock's image service: a single-process, single-writer CAS over
// blobs plus a tag index. Concurrent readers are safe (content-addressable
// blobs never change once written); spec §4.3 leaves multi-process locking
// as a future extension.
type Store struct {
	paths paths.BockPaths
}

// NewStore opens (or initializes) the image store rooted at p. It does not
// itself create directories; callers run paths.BockPaths.CreateDirs first.
func NewStore(p paths.BockPaths) *Store {
	return &Store{paths: p}
}

func (s *Store) blobPath(d digest.Digest) string {
	return s.paths.Blob(d.Algorithm().String(), d.Encoded())
}

// StoreBlob hashes data with SHA-256 and writes it to blobs/sha256/<hex>,
// skipping the write if the blob already exists (content-addressable
// idempotence).
func (s *Store) StoreBlob(ctx context.Context, data []byte) (digest.Digest, error) {
	d := digest.FromBytes(data)
	path := s.blobPath(d)

	if _, err := os.Stat(path); err == nil {
		return d, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", bockerr.New("image", bockerr.Io, "store blob", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", bockerr.New("image", bockerr.Io, "store blob", err)
	}
	slog.DebugContext(ctx, "blob stored", "digest", d, "size", len(data))
	return d, nil
}

// GetBlob returns the blob's bytes, or nil if it does not exist.
func (s *Store) GetBlob(d digest.Digest) ([]byte, error) {
	data, err := os.ReadFile(s.blobPath(d))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, bockerr.New("image", bockerr.Io, "get blob", err)
	}
	return data, nil
}

// HasBlob reports whether digest d is present in the store.
func (s *Store) HasBlob(d digest.Digest) bool {
	_, err := os.Stat(s.blobPath(d))
	return err == nil
}

// ParseReference splits a reference into (name, tag): the last ':'
// separates a tag unless the text after it is a port number or contains
// '/'. Absent tag defaults to "latest".
func ParseReference(reference string) (name, tag string) {
	idx := strings.LastIndex(reference, ":")
	if idx >= 0 {
		candidate := reference[idx+1:]
		if !strings.Contains(candidate, "/") {
			if _, err := strconv.ParseUint(candidate, 10, 16); err != nil {
				return reference[:idx], candidate
			}
		}
	}
	return reference, "latest"
}

func (s *Store) loadIndex() (repoIndex, error) {
	data, err := os.ReadFile(s.paths.Repositories())
	if os.IsNotExist(err) {
		return repoIndex{}, nil
	}
	if err != nil {
		return nil, bockerr.New("image", bockerr.Io, "load repositories index", err)
	}
	var idx repoIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, bockerr.New("image", bockerr.Serialization, "parse repositories index", err)
	}
	return idx, nil
}

// saveIndex writes repositories.json atomically via write-then-rename: the
// index is small but rewritten on every save/delete, so torn writes would
// corrupt every tag, not just one blob.
func (s *Store) saveIndex(idx repoIndex) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return bockerr.New("image", bockerr.Serialization, "marshal repositories index", err)
	}
	tmp := s.paths.Repositories() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return bockerr.New("image", bockerr.Io, "write repositories index", err)
	}
	if err := os.Rename(tmp, s.paths.Repositories()); err != nil {
		return bockerr.New("image", bockerr.Io, "rename repositories index", err)
	}
	return nil
}

// formatCreated renders an image config's creation timestamp, or "" when
// the upstream config omitted it (ispec.Image.Created is a pointer).
func formatCreated(cfg *ispec.Image) string {
	if cfg.Created == nil {
		return ""
	}
	return cfg.Created.Format("2006-01-02T15:04:05Z")
}

// LayerInput is one entry of the layers argument to Save: the digest the
// caller expects this layer to have (may be empty), and its raw bytes.
type LayerInput struct {
	ExpectedDigest digest.Digest
	Data           []byte
}

// Save stores a manifest, its config, and all layers, then updates
// repositories.json. A layer whose actual digest doesn't match
// ExpectedDigest is logged, not rejected — registries sometimes recompress
// content losslessly, per spec §4.3.
func (s *Store) Save(ctx context.Context, reference string, manifestBytes, configBytes []byte, layers []LayerInput) (*StoredImage, error) {
	name, tag := ParseReference(reference)

	manifestDigest, err := s.StoreBlob(ctx, manifestBytes)
	if err != nil {
		return nil, err
	}
	configDigest, err := s.StoreBlob(ctx, configBytes)
	if err != nil {
		return nil, err
	}

	cfg, err := ocispec.ParseImageConfig(configBytes)
	if err != nil {
		return nil, bockerr.New("image", bockerr.Serialization, "parse image config", err)
	}

	total := int64(len(manifestBytes) + len(configBytes))
	layerDigests := make([]string, 0, len(layers))
	for _, l := range layers {
		d, err := s.StoreBlob(ctx, l.Data)
		if err != nil {
			return nil, err
		}
		if l.ExpectedDigest != "" && d != l.ExpectedDigest {
			slog.WarnContext(ctx, "layer digest mismatch", "expected", l.ExpectedDigest, "actual", d)
		}
		layerDigests = append(layerDigests, d.String())
		total += int64(len(l.Data))
	}

	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	if idx[name] == nil {
		idx[name] = map[string]string{}
	}
	idx[name][tag] = manifestDigest.String()
	if err := s.saveIndex(idx); err != nil {
		return nil, err
	}

	stored := &StoredImage{
		Reference:      reference,
		ManifestDigest: manifestDigest.String(),
		ConfigDigest:   configDigest.String(),
		Layers:         layerDigests,
		SizeBytes:      total,
		Created:        formatCreated(cfg),
		Architecture:   cfg.Architecture,
		OS:             cfg.OS,
	}
	slog.InfoContext(ctx, "image saved", "reference", reference, "digest", stored.ManifestDigest, "layers", len(layerDigests), "size", total)
	return stored, nil
}

// Load resolves reference via repositories.json and rehydrates a
// StoredImage. Size is the manifest's own length plus the sizes its
// descriptors record, not a stat() of blobs on disk.
func (s *Store) Load(reference string) (*StoredImage, error) {
	name, tag := ParseReference(reference)

	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	tags, ok := idx[name]
	if !ok {
		return nil, nil
	}
	manifestDigestStr, ok := tags[tag]
	if !ok {
		return nil, nil
	}
	manifestDigest, err := digest.Parse(manifestDigestStr)
	if err != nil {
		return nil, bockerr.New("image", bockerr.Internal, "parse stored manifest digest", err)
	}

	manifestBytes, err := s.GetBlob(manifestDigest)
	if err != nil {
		return nil, err
	}
	if manifestBytes == nil {
		return nil, nil
	}
	manifest, err := ocispec.ParseManifest(manifestBytes)
	if err != nil {
		return nil, bockerr.New("image", bockerr.Serialization, "parse manifest", err)
	}

	configBytes, err := s.GetBlob(manifest.Config.Digest)
	if err != nil {
		return nil, err
	}
	if configBytes == nil {
		return nil, nil
	}
	cfg, err := ocispec.ParseImageConfig(configBytes)
	if err != nil {
		return nil, bockerr.New("image", bockerr.Serialization, "parse image config", err)
	}

	layerDigests := make([]string, 0, len(manifest.Layers))
	for _, l := range manifest.Layers {
		layerDigests = append(layerDigests, l.Digest.String())
	}

	return &StoredImage{
		Reference:      reference,
		ManifestDigest: manifestDigest.String(),
		ConfigDigest:   manifest.Config.Digest.String(),
		Layers:         layerDigests,
		SizeBytes:      ocispec.ManifestSize(manifest) + int64(len(manifestBytes)),
		Created:        formatCreated(cfg),
		Architecture:   cfg.Architecture,
		OS:             cfg.OS,
	}, nil
}

// List enumerates every (repo, tag) pair in the index.
func (s *Store) List() ([]*StoredImage, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}
	var out []*StoredImage
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		tags := make([]string, 0, len(idx[name]))
		for tag := range idx[name] {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			img, err := s.Load(name + ":" + tag)
			if err != nil {
				return nil, err
			}
			if img != nil {
				out = append(out, img)
			}
		}
	}
	return out, nil
}

// Delete removes reference's tag from the index (and the repository entry
// if it was the last tag). It never deletes blobs; reclaiming space is
// exclusively GC's job.
func (s *Store) Delete(reference string) (bool, error) {
	name, tag := ParseReference(reference)

	idx, err := s.loadIndex()
	if err != nil {
		return false, err
	}
	tags, ok := idx[name]
	if !ok {
		return false, nil
	}
	if _, ok := tags[tag]; !ok {
		return false, nil
	}
	delete(tags, tag)
	if len(tags) == 0 {
		delete(idx, name)
	}
	if err := s.saveIndex(idx); err != nil {
		return false, err
	}
	return true, nil
}

// ExtractLayers unpacks image's layers, in manifest order, into dest.
// Failure on any layer aborts the whole extraction. go-archive's Untar
// autodetects gzip, so no separate gunzip pass is needed.
func (s *Store) ExtractLayers(ctx context.Context, img *StoredImage, dest string) error {
	if err := os.MkdirAll(dest, 0o750); err != nil {
		return bockerr.New("image", bockerr.Io, "create extraction dest", err)
	}

	for i, layerDigestStr := range img.Layers {
		d, err := digest.Parse(layerDigestStr)
		if err != nil {
			return bockerr.New("image", bockerr.Internal, "parse layer digest", err)
		}
		data, err := s.GetBlob(d)
		if err != nil {
			return err
		}
		if data == nil {
			return bockerr.New("image", bockerr.Io, "layer blob missing: "+layerDigestStr, nil)
		}

		if err := archive.Untar(bytes.NewReader(data), dest, &archive.TarOptions{}); err != nil {
			return bockerr.New("image", bockerr.Io, "extract layer "+layerDigestStr, err)
		}
		slog.DebugContext(ctx, "layer extracted", "layer", i+1, "total", len(img.Layers), "digest", layerDigestStr)
	}
	return nil
}

// GC computes the reachable set (every manifest a tag points to, plus that
// manifest's config and layer digests) and deletes every blob not in it.
func (s *Store) GC(ctx context.Context) (int64, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return 0, err
	}

	reachable := map[string]struct{}{}
	for _, tags := range idx {
		for _, manifestDigestStr := range tags {
			reachable[manifestDigestStr] = struct{}{}

			d, err := digest.Parse(manifestDigestStr)
			if err != nil {
				continue
			}
			manifestBytes, err := s.GetBlob(d)
			if err != nil || manifestBytes == nil {
				continue
			}
			manifest, err := ocispec.ParseManifest(manifestBytes)
			if err != nil {
				continue
			}
			reachable[manifest.Config.Digest.String()] = struct{}{}
			for _, l := range manifest.Layers {
				reachable[l.Digest.String()] = struct{}{}
			}
		}
	}

	var freed int64
	algDir := filepath.Join(s.paths.Blobs(), "sha256")
	entries, err := os.ReadDir(algDir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, bockerr.New("image", bockerr.Io, "list blobs", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		d := "sha256:" + e.Name()
		if _, ok := reachable[d]; ok {
			continue
		}
		info, err := e.Info()
		if err == nil {
			freed += info.Size()
		}
		if err := os.Remove(filepath.Join(algDir, e.Name())); err != nil {
			return freed, bockerr.New("image", bockerr.Io, "remove unreferenced blob "+d, err)
		}
		slog.DebugContext(ctx, "removed unreferenced blob", "digest", d)
	}
	slog.InfoContext(ctx, "garbage collection complete", "freed_bytes", freed)
	return freed, nil
}

// PlatformFor returns the ispec.Platform (OS and architecture) recorded
// for img.
func PlatformFor(img *StoredImage) ispec.Platform {
	return ispec.Platform{OS: img.OS, Architecture: img.Architecture}
}
