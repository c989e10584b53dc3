package main

import (
	"os"

	"github.com/witness-rec/witness/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
