// Command hrctl manages the HR dataset from the terminal.
package main

import (
	"os"

	"hrtool/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
