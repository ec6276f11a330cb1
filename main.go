// Copyright (c) 2026 Infrakeep Team
// Infrakeep - encrypted infrastructure knowledge base
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Infrakeep.
//
// Usage:
//
//	go run . [flags]
//	./infrakeep [flags]
//
// This launches the Infrakeep CLI. See --help for options.
package main

import (
	"os"

	"github.com/infrakeep/infrakeep/internal/cli"
)

// main is the entrypoint for the Infrakeep CLI.
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
