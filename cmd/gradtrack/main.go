// Package main is the entry point for the gradtrack CLI.
package main

import (
	"os"

	"github.com/gradtrack/gradtrack/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
