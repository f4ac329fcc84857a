// Package buildinfo exposes values stamped at link time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/wardminutes/internal/buildinfo.BuildDate=$(date -u +%Y%m%d%H%M%S)"
//
// BuildDate also versions the offline shell cache, so every release starts
// with fresh caches.
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version   = "N/A"
	BuildDate = "N/A"
	Commit    = "N/A"
)

// PrintBuildData writes the stamped values to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}

// Stamp returns a cache-safe identifier of this build.
func Stamp() string {
	if BuildDate == "" || BuildDate == "N/A" {
		return "dev"
	}
	return BuildDate
}
