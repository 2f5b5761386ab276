// cmd/jobchain/main.go
//
// Entry point for the jobchain CLI. Each subcommand resolves the project
// directory, makes sure .jobchain/ exists, and then drives the solver once.

package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
