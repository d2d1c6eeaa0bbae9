// Package main is the entry point for the recipescan CLI.
package main

import (
	"os"

	"github.com/jmylchreest/recipescan/cmd/recipescan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
