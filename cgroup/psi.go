package cgroup

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fishmindlab360/bock/bockerr"
)

// PSI is one pressure-stall line's parsed fields, per spec §4.6's optional
// PSI monitor.
type PSI struct {
	Avg10  float64
	Avg60  float64
	Avg300 float64
	Total  uint64
}

// PressureStats holds the "some" and "full" lines of memory.pressure (or
// cpu.pressure / io.pressure, which share the same format).
type PressureStats struct {
	Some PSI
	Full PSI
}

// ReadMemoryPressure parses <cgroup>/memory.pressure.
func ReadMemoryPressure(cgroupPath string) (PressureStats, error) {
	return readPressureFile(filepath.Join(cgroupPath, "memory.pressure"))
}

func readPressureFile(path string) (PressureStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PressureStats{}, bockerr.New("cgroup", bockerr.Io, "read "+path, err)
	}

	var stats PressureStats
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		psi, err := parsePSIFields(fields[1:])
		if err != nil {
			return PressureStats{}, bockerr.New("cgroup", bockerr.Serialization, "parse pressure line", err)
		}
		switch fields[0] {
		case "some":
			stats.Some = psi
		case "full":
			stats.Full = psi
		}
	}
	return stats, nil
}

// parsePSIFields parses "avg10=X avg60=X avg300=X total=N" into a PSI.
func parsePSIFields(fields []string) (PSI, error) {
	var psi PSI
	for _, f := range fields {
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "avg10":
			v, err := strconv.ParseFloat(kv[1], 64)
			if err != nil {
				return PSI{}, fmt.Errorf("parse avg10: %w", err)
			}
			psi.Avg10 = v
		case "avg60":
			v, err := strconv.ParseFloat(kv[1], 64)
			if err != nil {
				return PSI{}, fmt.Errorf("parse avg60: %w", err)
			}
			psi.Avg60 = v
		case "avg300":
			v, err := strconv.ParseFloat(kv[1], 64)
			if err != nil {
				return PSI{}, fmt.Errorf("parse avg300: %w", err)
			}
			psi.Avg300 = v
		case "total":
			v, err := strconv.ParseUint(kv[1], 10, 64)
			if err != nil {
				return PSI{}, fmt.Errorf("parse total: %w", err)
			}
			psi.Total = v
		}
	}
	return psi, nil
}
