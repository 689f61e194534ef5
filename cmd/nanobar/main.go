// Package main is the entry point for the nanobar CLI and daemon.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nanobar-io/nanobar/internal/cli"
)

// The daemon's status bar loop must run on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
