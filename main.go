// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Signet.
//
// Usage:
//
//	go run . [flags]
//	./signet [flags]
//
// Running without a subcommand launches the interactive TUI.
package main

import (
	"os"

	"github.com/toeirei/signet/ui/cli"
)

// main is the entrypoint for the Signet CLI.
func main() {
	if err := cli.Execute(); err != nil {
		// Cobra has already printed the error.
		os.Exit(1)
	}
}
