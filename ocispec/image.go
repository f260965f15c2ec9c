package ocispec

import (
	"encoding/json"

	digest "github.com/opencontainers/go-digest"
	ispec "github.com/opencontainers/image-spec/specs-go/v1"
)

// NewManifest builds a schemaVersion-2 OCI image manifest from a config
// descriptor and ordered layer descriptors, per spec §3.
func NewManifest(config ispec.Descriptor, layers []ispec.Descriptor) *ispec.Manifest {
	return &ispec.Manifest{
		Versioned:   ispec.Versioned{SchemaVersion: 2},
		MediaType:   ispec.MediaTypeImageManifest,
		Config:      config,
		Layers:      layers,
		Annotations: map[string]string{},
	}
}

// PlatformLinuxAMD64 and PlatformLinuxARM64 return the linux/amd64 and
// linux/arm64 platform descriptors.
func PlatformLinuxAMD64() ispec.Platform {
	return ispec.Platform{OS: "linux", Architecture: "amd64"}
}

func PlatformLinuxARM64() ispec.Platform {
	return ispec.Platform{OS: "linux", Architecture: "arm64"}
}

// DescriptorFor builds a content descriptor from already-hashed bytes; the
// caller (image store) is responsible for actually persisting the blob.
func DescriptorFor(mediaType string, data []byte, d digest.Digest) ispec.Descriptor {
	return ispec.Descriptor{
		MediaType: mediaType,
		Digest:    d,
		Size:      int64(len(data)),
	}
}

// ParseManifest unmarshals manifest JSON. Unknown/legacy Docker v2s2 manifest
// JSON round-trips through the same struct since the two schemas share field
// names for everything bock reads.
func ParseManifest(data []byte) (*ispec.Manifest, error) {
	var m ispec.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseImageConfig unmarshals an OCI image config blob (the `config`
// descriptor's referent, not to be confused with the runtime-spec
// config.json).
func ParseImageConfig(data []byte) (*ispec.Image, error) {
	var img ispec.Image
	if err := json.Unmarshal(data, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

// ManifestSize sums the byte size accounted for by a manifest: the manifest
// JSON itself is not included, matching store_blob/save's "size accounts for
// manifest+config+layer bytes" contract from spec §4.3, where the manifest's
// own encoded length is added separately by the caller that has those bytes.
func ManifestSize(m *ispec.Manifest) int64 {
	total := m.Config.Size
	for _, l := range m.Layers {
		total += l.Size
	}
	return total
}
