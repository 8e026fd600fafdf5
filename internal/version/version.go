// Package version holds the build version, set with
// -ldflags "-X github.com/illumination-k/kubectl-copylogs/internal/version.Version=...".
package version

// Version is the release version of kubectl-copylogs
var Version = "dev"
