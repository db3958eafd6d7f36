// Package version reports the scribe build version.
//
// Version, Commit and BuildTime are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/scribe/version.Version=1.2.0" ./cmd/scribe
//
// Unset values fall back to the VCS stamp in the binary's build info.
package version
