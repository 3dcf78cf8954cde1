// cmd/vaultboot/main.go
//
// Service entry point.
//
// Start-up sequence
// -----------------
//
//  1. Start the daily rotating logger (tees to console in a TTY).
//
//  2. Bootstrap: pick the settings file, load every domain, open the
//     vault client, and resolve secret references.
//
//  3. Hand resolved sets to the consumers: database pool, Sentry, and (in
//     development) the OpenAPI document.
//
//  4. Only then bind the port.  Any failure above exits non-zero before
//     the service accepts a connection.
//
// `vaultboot check` runs steps 1 and 2 without consumers and reports what
// resolved.  It never prints secret values.
package main

import (
	"fmt"
	"os"
)

// version is stamped at build time with -ldflags "-X main.version=…".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vaultboot:", err)
		os.Exit(1)
	}
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
