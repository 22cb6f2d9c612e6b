// Copyright (c) 2026 ToeiRei
// Bucketpad - remote object storage editor
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Bucketpad.
//
// Usage:
//
//	go run . [flags]
//	./bucketpad [flags]
//
// This launches the Bucketpad CLI. See --help for options.
package main

import (
	"log"
	"os"

	"github.com/toeirei/bucketpad/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("Bucketpad CLI error: %v", err)
		os.Exit(1)
	}
}
