// Command typematrix checks value-category container round trips.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/typematrix/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
