package main

import (
	"os"

	"github.com/slms-dev/ledgercheck/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
