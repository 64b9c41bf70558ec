// Package cli assembles the deinflect command-line tool: a thin cobra
// wrapper around the root deinflect package's Engine, in the spirit of
// the teacher's JSON-over-net/http server but extended to cover offline
// transform/validate workflows and an interactive explorer, not just a
// single HTTP surface.
package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RootOptions holds flags shared by every subcommand.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json"
	Descriptor string // path to a descriptor JSON file; empty means use the bundled default
	Config     string // path to an optional YAML config file (serve subcommand)
}

// ValidFormats lists the output formats accepted by --format.
var ValidFormats = []string{"text", "json"}

// NewRootCommand builds the deinflect root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "deinflect",
		Short: "Morphological deinflection engine",
		Long:  "Enumerate dictionary-form candidates reachable from an inflected surface string.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().StringVar(&opts.Descriptor, "descriptor", "", "path to a transform descriptor JSON file (default: bundled Japanese descriptor)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to a YAML config file (serve subcommand)")

	cmd.AddCommand(newTransformCommand(opts))
	cmd.AddCommand(newValidateCommand(opts))
	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newExploreCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newTraceID produces a per-invocation correlation id for CLI output.
func newTraceID() string {
	return uuid.NewString()
}
