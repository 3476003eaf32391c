package main

import (
	"os"

	"github.com/syncsub/syncsub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
