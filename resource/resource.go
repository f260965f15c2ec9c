// Package resource parses and formats Kubernetes-style CPU and memory
// resource quantities, per spec §4.1.
package resource

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fishmindlab360/bock/bockerr"
	units "github.com/docker/go-units"
)

// Kind distinguishes CPU (stored in millicores) from memory (stored in
// bytes) quantities so Format knows which unit table to use.
type Kind int

const (
	CPU Kind = iota
	Memory
)

// Quantity is a resource amount with a kind, stored in its smallest unit:
// millicores for CPU, bytes for memory.
type Quantity struct {
	Value uint64
	Kind  Kind
}

func CPUMillicores(m uint64) Quantity { return Quantity{Value: m, Kind: CPU} }
func CPUCores(cores uint64) Quantity  { return Quantity{Value: cores * 1000, Kind: CPU} }
func MemoryBytes(b uint64) Quantity   { return Quantity{Value: b, Kind: Memory} }

func (q Quantity) AsMillicores() uint64 { return q.Value }
func (q Quantity) AsCores() uint64      { return q.Value / 1000 }
func (q Quantity) AsBytes() uint64      { return q.Value }

const (
	ki = 1024
	mi = 1024 * 1024
	gi = 1024 * 1024 * 1024
	ti = 1024 * 1024 * 1024 * 1024

	kilo = 1000
	mega = 1000 * 1000
	giga = 1000 * 1000 * 1000
	tera = 1000 * 1000 * 1000 * 1000
)

func invalid(s string) error {
	return bockerr.New("resource", bockerr.InvalidResourceQuantity, s, nil)
}

// ParseCPU parses "500m" (millicores), "2" (cores), or "0.5" (fractional
// cores, truncated to millicores).
func ParseCPU(s string) (Quantity, error) {
	s = strings.TrimSpace(s)

	if stripped, ok := strings.CutSuffix(s, "m"); ok {
		millicores, err := strconv.ParseUint(stripped, 10, 64)
		if err != nil {
			return Quantity{}, invalid(s)
		}
		return CPUMillicores(millicores), nil
	}

	cores, err := strconv.ParseFloat(s, 64)
	if err != nil || cores < 0 {
		return Quantity{}, invalid(s)
	}
	return CPUMillicores(uint64(cores * 1000)), nil
}

// binarySuffixes (two characters, all ending in "i") are checked before
// decimalSuffixes (one character). No decimal suffix is "i", so a value
// matches at most one table and the order does not change the result.
var binarySuffixes = []struct {
	suffix string
	mul    uint64
}{
	{"Ki", ki}, {"Mi", mi}, {"Gi", gi}, {"Ti", ti},
}

var decimalSuffixes = []struct {
	suffix string
	mul    uint64
}{
	{"k", kilo}, {"m", mega}, {"M", mega}, {"g", giga}, {"G", giga}, {"t", tera}, {"T", tera},
}

// ParseMemory parses "128Mi" (binary, powers of 1024), "1G" (decimal,
// powers of 1000), or a bare number of bytes.
func ParseMemory(s string) (Quantity, error) {
	s = strings.TrimSpace(s)

	for _, su := range binarySuffixes {
		if stripped, ok := strings.CutSuffix(s, su.suffix); ok {
			v, err := strconv.ParseUint(stripped, 10, 64)
			if err != nil {
				return Quantity{}, invalid(s)
			}
			return MemoryBytes(v * su.mul), nil
		}
	}
	for _, su := range decimalSuffixes {
		if stripped, ok := strings.CutSuffix(s, su.suffix); ok {
			v, err := strconv.ParseUint(stripped, 10, 64)
			if err != nil {
				return Quantity{}, invalid(s)
			}
			return MemoryBytes(v * su.mul), nil
		}
	}

	bytes, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return Quantity{}, invalid(s)
	}
	return MemoryBytes(bytes), nil
}

// Format renders a Quantity greedily from the largest exact unit: whole
// cores for CPU (falling back to millicores), Gi/Mi/Ki for memory (falling
// back to a bare byte count).
func Format(q Quantity) string {
	switch q.Kind {
	case CPU:
		if q.Value%1000 == 0 {
			return strconv.FormatUint(q.Value/1000, 10)
		}
		return fmt.Sprintf("%dm", q.Value)
	default:
		switch {
		case q.Value >= gi && q.Value%gi == 0:
			return fmt.Sprintf("%dGi", q.Value/gi)
		case q.Value >= mi && q.Value%mi == 0:
			return fmt.Sprintf("%dMi", q.Value/mi)
		case q.Value >= ki && q.Value%ki == 0:
			return fmt.Sprintf("%dKi", q.Value/ki)
		default:
			return strconv.FormatUint(q.Value, 10)
		}
	}
}

// HumanSize renders a byte count for terminal display (e.g. "134.2MiB"),
// using go-units rather than Format's machine-oriented Ki/Mi/Gi suffixes.
// No command in this module calls it.
func HumanSize(bytes uint64) string {
	return units.BytesSize(float64(bytes))
}
