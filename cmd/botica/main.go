package main

import (
	"os"

	"github.com/botica-dev/botica/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
