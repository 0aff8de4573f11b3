package main

import (
	"os"

	"github.com/goliatone/go-metalava/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
