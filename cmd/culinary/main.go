package main

import (
	"os"

	"github.com/culinarycompanion/culinary/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
