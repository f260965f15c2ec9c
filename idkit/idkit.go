// Package idkit validates container IDs and wraps the digest type used
// throughout the image store, per spec §3.
package idkit

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/fishmindlab360/bock/bockerr"
	digest "github.com/opencontainers/go-digest"
)

const maxContainerIdLen = 64

// ValidateContainerId checks a container ID against the §3 format:
// 1-64 ASCII alphanumeric/-/_ characters, starting with an alphanumeric.
func ValidateContainerId(id string) error {
	if id == "" || len(id) > maxContainerIdLen {
		return bockerr.New("id", bockerr.InvalidContainerId, id, nil)
	}
	first := rune(id[0])
	if !isAlnum(first) {
		return bockerr.New("id", bockerr.InvalidContainerId, id, nil)
	}
	for _, c := range id {
		if !isAlnum(c) && c != '-' && c != '_' {
			return bockerr.New("id", bockerr.InvalidContainerId, id, nil)
		}
	}
	return nil
}

func isAlnum(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// GenerateContainerId returns a 12-character lowercase hex ID from a random
// 48-bit source. Collisions are assumed not to happen; callers do not retry.
func GenerateContainerId() (string, error) {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", bockerr.New("id", bockerr.Internal, "generate container id", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// ParseDigest parses an "algo:hex" digest string, validating it the way
// go-digest does (canonical lowercase hex, known algorithm).
func ParseDigest(s string) (digest.Digest, error) {
	d, err := digest.Parse(s)
	if err != nil {
		return "", bockerr.New("id", bockerr.Internal, fmt.Sprintf("parse digest %q", s), err)
	}
	return d, nil
}

// SHA256 returns the canonical sha256 digest of data, as used by the image
// store's content-addressable blob naming.
func SHA256(data []byte) digest.Digest {
	return digest.FromBytes(data)
}
