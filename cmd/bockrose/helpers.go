package main

import (
	"path/filepath"
	"strconv"
	"strings"
)

func itoa(i int) string { return strconv.Itoa(i) }

// defaultStackName derives a stack's "<name>_" replica prefix from its
// compose file's containing directory, the same default docker compose
// itself uses.
func defaultStackName(file string) string {
	dir := filepath.Dir(file)
	dir, _ = filepath.Abs(dir)
	name := filepath.Base(dir)
	name = strings.ToLower(name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "bockrose"
	}
	return name
}
