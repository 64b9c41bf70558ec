package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jtransform/deinflect/descriptor"
)

type validationResult struct {
	Language   string   `json:"language"`
	Hash       string   `json:"hash"`
	Conditions []string `json:"conditions"`
	RuleCount  int      `json:"rule_count"`
}

// String renders r for --format text output, one labeled field per line.
func (r validationResult) String() string {
	return fmt.Sprintf("language: %s\nhash: %s\nconditions: %s\nrule_count: %d",
		r.Language, r.Hash, strings.Join(r.Conditions, ", "), r.RuleCount)
}

func newValidateCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate",
		Short:         "Compile a transform descriptor and report its shape, or every load error found",
		Args:          cobra.NoArgs,
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

			compiled, err := descriptor.Compile(raw)
			if err != nil {
				errs := descriptor.Errors(err)
				messages := make([]string, len(errs))
				for i, e := range errs {
					messages[i] = e.Error()
				}

				code := classifyDescriptorError(errs[0])
				if len(errs) > 1 {
					code = "E_MULTIPLE_DESCRIPTOR_ERRORS"
				}

				_ = formatter.Error(code, fmt.Sprintf("%d descriptor error(s) found", len(errs)), messages)
				return NewExitError(ExitFailure, strings.Join(messages, "; "))
			}

			return formatter.Success(validationResult{
				Language:   compiled.Language,
				Hash:       compiled.Hash(),
				Conditions: compiled.Universe.Names(),
				RuleCount:  len(compiled.Rules),
			})
		},
	}

	return cmd
}

// classifyDescriptorError maps a single descriptor error to its CLI
// error code. It is only meaningful when exactly one error was found;
// a multi-error result reports E_MULTIPLE_DESCRIPTOR_ERRORS instead,
// with each individual message in the response's details.
func classifyDescriptorError(err error) string {
	switch {
	case descriptor.IsUnknownCondition(err):
		return "E_UNKNOWN_CONDITION"
	case descriptor.IsEmptyOrDegenerateRule(err):
		return "E_EMPTY_OR_DEGENERATE_RULE"
	default:
		return "E_MALFORMED_DESCRIPTOR"
	}
}
