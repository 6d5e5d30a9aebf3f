package main

import (
	"os"

	"github.com/fieldside/sideline/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
