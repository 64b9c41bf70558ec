package cli

import (
	"github.com/spf13/cobra"

	"github.com/jtransform/deinflect"
)

// candidateJSON is the machine-readable shape of one yielded state.
type candidateJSON struct {
	Text  string   `json:"text"`
	Trace []string `json:"trace"`
}

func newTransformCommand(root *RootOptions) *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:           "transform <surface-form>",
		Short:         "Enumerate dictionary-form candidates for a surface string",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    root.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   root.Verbose,
				TraceID:   newTraceID(),
			}

			raw, err := loadDescriptorBytes(root.Descriptor)
			if err != nil {
				_ = formatter.Error("E_DESCRIPTOR_READ", err.Error(), nil)
				return WrapExitError(ExitCommandError, "reading descriptor", err)
			}

			var opts []deinflect.EngineOption
			if maxDepth > 0 {
				opts = append(opts, deinflect.WithMaxDepth(maxDepth))
			}
			engine := deinflect.New(opts...)
			if err := engine.AddDescriptor(raw); err != nil {
				_ = formatter.Error("E_DESCRIPTOR_COMPILE", err.Error(), nil)
				return WrapExitError(ExitFailure, "compiling descriptor", err)
			}
			formatter.VerboseLog("loaded descriptor %s", engine.DescriptorHash())

			var candidates []candidateJSON
			for s := range engine.Transform(args[0]) {
				names := make([]string, len(s.Trace))
				for i, step := range s.Trace {
					names[i] = step.Rule
				}
				candidates = append(candidates, candidateJSON{Text: s.Text, Trace: names})
			}

			return formatter.Success(candidates)
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "override the search's trace-depth guard (0 = engine default)")

	return cmd
}
