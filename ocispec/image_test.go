package ocispec

import (
	"encoding/json"
	"testing"

	digest "github.com/opencontainers/go-digest"
	ispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const testHexDigest = "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b85"

func TestNewManifest(t *testing.T) {
	d := digest.Digest(testHexDigest)
	cfg := DescriptorFor(ispec.MediaTypeImageConfig, []byte("{}"), d)
	layer := DescriptorFor(ispec.MediaTypeImageLayerGzip, []byte("layer"), d)

	m := NewManifest(cfg, []ispec.Descriptor{layer})
	if m.SchemaVersion != 2 {
		t.Errorf("SchemaVersion = %d, want 2", m.SchemaVersion)
	}
	if m.Config.Digest != cfg.Digest {
		t.Errorf("Config digest mismatch")
	}
	if len(m.Layers) != 1 {
		t.Fatalf("got %d layers, want 1", len(m.Layers))
	}
}

func TestManifestSize(t *testing.T) {
	cfg := ispec.Descriptor{Size: 100}
	layers := []ispec.Descriptor{{Size: 200}, {Size: 300}}
	m := &ispec.Manifest{Config: cfg, Layers: layers}

	if got := ManifestSize(m); got != 600 {
		t.Errorf("ManifestSize = %d, want 600", got)
	}
}

func TestParseManifestRoundTrip(t *testing.T) {
	d := digest.Digest(testHexDigest)
	cfg := DescriptorFor(ispec.MediaTypeImageConfig, []byte("{}"), d)
	m := NewManifest(cfg, nil)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	parsed, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if parsed.Config.Digest != m.Config.Digest {
		t.Errorf("round trip mismatch")
	}
}

func TestParseImageConfig(t *testing.T) {
	raw := []byte(`{"architecture":"amd64","os":"linux","config":{"Env":["PATH=/bin"]}}`)
	img, err := ParseImageConfig(raw)
	if err != nil {
		t.Fatalf("ParseImageConfig: %v", err)
	}
	if img.Architecture != "amd64" || img.OS != "linux" {
		t.Errorf("got architecture=%s os=%s", img.Architecture, img.OS)
	}
}
