// Package main provides the entry point for the tasteline CLI.
package main

import (
	"os"

	"github.com/tasteline/tasteline/cmd/tasteline/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
