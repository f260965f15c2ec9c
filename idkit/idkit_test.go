package idkit

import (
	"strings"
	"testing"
)

func TestValidateContainerId(t *testing.T) {
	valid := []string{"abc123", "my-container", "my_container", "Container-123_test"}
	for _, id := range valid {
		if err := ValidateContainerId(id); err != nil {
			t.Errorf("ValidateContainerId(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{"", "-invalid", "_invalid", "invalid!", strings.Repeat("a", 65)}
	for _, id := range invalid {
		if err := ValidateContainerId(id); err == nil {
			t.Errorf("ValidateContainerId(%q) = nil, want error", id)
		}
	}

	// boundary lengths
	if err := ValidateContainerId(strings.Repeat("a", 1)); err != nil {
		t.Errorf("length 1 should be valid: %v", err)
	}
	if err := ValidateContainerId(strings.Repeat("a", 64)); err != nil {
		t.Errorf("length 64 should be valid: %v", err)
	}
	if err := ValidateContainerId(strings.Repeat("a", 65)); err == nil {
		t.Errorf("length 65 should be invalid")
	}
}

func TestGenerateContainerId(t *testing.T) {
	id1, err := GenerateContainerId()
	if err != nil {
		t.Fatalf("GenerateContainerId: %v", err)
	}
	id2, err := GenerateContainerId()
	if err != nil {
		t.Fatalf("GenerateContainerId: %v", err)
	}
	if id1 == id2 {
		t.Errorf("two generated IDs collided: %s", id1)
	}
	if len(id1) != 12 {
		t.Errorf("generated ID length = %d, want 12", len(id1))
	}
	if err := ValidateContainerId(id1); err != nil {
		t.Errorf("generated ID failed validation: %v", err)
	}
}

func TestParseDigest(t *testing.T) {
	const hex64 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	d, err := ParseDigest("sha256:" + hex64)
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if d.Algorithm().String() != "sha256" || d.Encoded() != hex64 {
		t.Errorf("got algorithm=%s encoded=%s", d.Algorithm(), d.Encoded())
	}
	if d.String() != "sha256:"+hex64 {
		t.Errorf("round-trip failed: %s", d.String())
	}
}

func TestSHA256Idempotent(t *testing.T) {
	data := []byte("hello world")
	d1 := SHA256(data)
	d2 := SHA256(data)
	if d1 != d2 {
		t.Errorf("SHA256 not deterministic: %s != %s", d1, d2)
	}
}
