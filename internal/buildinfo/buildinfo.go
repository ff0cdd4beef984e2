// Package buildinfo exposes link-time build metadata.
//
// Values are set with -ldflags, for example:
//
//	go build -ldflags "-X github.com/dmitrijs2005/hoteldesk/internal/buildinfo.Version=v1.2.0" ./cmd/deskcli
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes the build banner to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
