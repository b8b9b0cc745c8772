// Package main provides the FluentMind CLI application
package main

import (
	"os"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/cli"
)

// Version information set during build
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
