// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/railroute/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/railroute/pkg/buildinfo.Commit=$(git rev-parse --short HEAD)" \
//	    ./cmd/railroute
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, %s)\n", Version, Commit, Date)
}

// UserAgent identifies railroute in outgoing requests and the HTTP API's
// Server header.
func UserAgent() string {
	return "railroute/" + Version
}
