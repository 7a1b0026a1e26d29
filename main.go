package main

import (
	"os"

	"github.com/docmender/docmender/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
