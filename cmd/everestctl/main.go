// Command everestctl manages an Everest installation from the command line.
package main

import (
	"os"

	"github.com/everest-platform/console/cmd/everestctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
