// Package bockerr defines the error taxonomy shared across bock's packages.
package bockerr

import (
	"errors"
	"fmt"
)

// Kind is one of the ten error kinds from the spec's error taxonomy.
type Kind string

const (
	ContainerNotFound       Kind = "container_not_found"
	ImageNotFound           Kind = "image_not_found"
	InvalidContainerId      Kind = "invalid_container_id"
	InvalidResourceQuantity Kind = "invalid_resource_quantity"
	PermissionDenied        Kind = "permission_denied"
	Unsupported             Kind = "unsupported"
	Config                  Kind = "config"
	Io                      Kind = "io"
	Serialization           Kind = "serialization"
	Internal                Kind = "internal"
)

// hints gives each kind a one-line remediation, surfaced by CLIs.
var hints = map[Kind]string{
	ContainerNotFound:       "",
	ImageNotFound:           "",
	InvalidContainerId:      "container IDs must be alphanumeric with hyphens and underscores, 1-64 characters",
	InvalidResourceQuantity: "use formats like '512m', '1g', '2.5Gi', '500Mi', '0.5' for CPU cores",
	PermissionDenied:        "try running with elevated privileges",
	Unsupported:             "this feature requires Linux kernel 5.10 or later with cgroups v2",
	Config:                  "",
	Io:                      "",
	Serialization:           "",
	Internal:                "this is a bug; please report it",
}

// Hint returns the remediation text for a kind, or "" if there is none.
func Hint(k Kind) string { return hints[k] }

// Error is the error type every bock package returns. Domain is the
// package/subsystem that raised it (e.g. "container", "image"), used to
// render the "bock::<domain>::<kind>" error code namespace from §7.
type Error struct {
	Domain string
	Kind   Kind
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bock::%s::%s: %s: %v", e.Domain, e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("bock::%s::%s: %s", e.Domain, e.Kind, e.Op)
}

func (e *Error) Unwrap() error { return e.Err }

// Code renders the "bock::<domain>::<kind>" namespace alone, for CLI exit
// diagnostics that want the code separate from the message.
func (e *Error) Code() string { return fmt.Sprintf("bock::%s::%s", e.Domain, e.Kind) }

// New constructs an Error.
func New(domain string, kind Kind, op string, err error) *Error {
	return &Error{Domain: domain, Kind: kind, Op: op, Err: err}
}

// Is lets errors.Is(err, &bockerr.Error{Kind: bockerr.ContainerNotFound})
// match by kind alone when the target is (or wraps) an *Error; any other
// target never matches.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// KindOf extracts the Kind from err, defaulting to Internal if err is not
// (or does not wrap) a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
