// Package version exposes build metadata of the desk clock.
//
// Version, Commit and BuildTime may be injected with -ldflags; when they are
// not, Commit and BuildTime fall back to the VCS stamp the Go toolchain embeds.
package version
