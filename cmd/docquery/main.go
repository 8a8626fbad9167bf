package main

import (
	"os"

	"github.com/docquery-labs/docquery/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
