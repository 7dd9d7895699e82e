package main

import (
	"os"

	"github.com/betl-dev/betl/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
