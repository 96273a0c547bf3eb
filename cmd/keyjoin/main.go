// Command keyjoin joins keyed datasets from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/keyjoin/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "keyjoin:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
