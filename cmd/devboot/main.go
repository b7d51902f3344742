// Package main is the entry point for the devboot CLI.
package main

import "github.com/wexinc/devboot/cmd/devboot/cmd"

// Set by -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Version = version
	cmd.Commit = commit
	cmd.Date = date
	cmd.Execute()
}
