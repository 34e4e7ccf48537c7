// Package main is the single-binary entrypoint for Pulse,
// the engagement engine behind Rally.
package main

import "github.com/rally-social/pulse/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
