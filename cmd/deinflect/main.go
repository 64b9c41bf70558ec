// Command deinflect exposes the morphological deinflection engine as a
// CLI: one-shot transform/validate lookups, a JSON HTTP server, and an
// interactive explorer.
package main

import (
	"fmt"
	"os"

	"github.com/jtransform/deinflect/cmd/deinflect/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
