// Package version resolves the build identity of an onionkit service
// from -ldflags values, falling back to the binary's embedded VCS
// metadata.
//
// Version, git commit, and build time are set at compile time via
// -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/onionkit/version.Version=1.0.0"
package version
